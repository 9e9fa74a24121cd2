package meter_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := meter.ParseAddress("0x8a88c59bf15451f9deb1d62f7734fece2002668e")
	assert.Nil(t, err)
	assert.Equal(t, "0x8a88c59bf15451f9deb1d62f7734fece2002668e", addr.String())

	noPrefix, err := meter.ParseAddress("8a88c59bf15451f9deb1d62f7734fece2002668e")
	assert.Nil(t, err)
	assert.Equal(t, addr, noPrefix)

	_, err = meter.ParseAddress("0x8a88c59bf15451f9deb1d62f7734fece200266")
	assert.NotNil(t, err)

	_, err = meter.ParseAddress("0xzz88c59bf15451f9deb1d62f7734fece2002668e")
	assert.NotNil(t, err)

	_, err = meter.ParseAddress("")
	assert.NotNil(t, err)
}

func TestAddressJSON(t *testing.T) {
	addr := meter.MustParseAddress("0x0205c2d862ca051010698b69b54278cbaf945c0b")
	data, err := json.Marshal(&addr)
	assert.Nil(t, err)
	assert.Equal(t, `"0x0205c2d862ca051010698b69b54278cbaf945c0b"`, string(data))

	var decoded meter.Address
	assert.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestBytesToAddress(t *testing.T) {
	addr := meter.BytesToAddress([]byte("auction-account-address"))
	assert.False(t, addr.IsZero())
	assert.True(t, meter.ZeroAddress.IsZero())
	assert.Equal(t, meter.AuctionModuleAddr, addr)
}

func TestCreateAddress(t *testing.T) {
	creator := meter.MustParseAddress("0x1de8ca2f973d026300af89041b0ecb1c0803a7e6")
	a0 := meter.CreateAddress(creator, 0)
	a1 := meter.CreateAddress(creator, 1)
	assert.NotEqual(t, a0, a1)
	assert.Equal(t, a0, meter.CreateAddress(creator, 0))
	assert.NotEqual(t, a0, meter.CreateAddress(meter.AuctionModuleAddr, 0))
}

func TestBytes32(t *testing.T) {
	b := meter.Blake2b([]byte("summary-list-key"))
	parsed, err := meter.ParseBytes32(b.String())
	assert.Nil(t, err)
	assert.Equal(t, b, parsed)
	assert.False(t, b.IsZero())
	assert.True(t, meter.Bytes32{}.IsZero())

	_, err = meter.ParseBytes32("0x1234")
	assert.NotNil(t, err)
}

func TestCoin(t *testing.T) {
	c := meter.NewCoin("umtr", 150)
	assert.True(t, c.IsValid())
	assert.Equal(t, "150umtr", c.String())

	assert.False(t, meter.Coin{Denom: "", Amount: big.NewInt(1)}.IsValid())
	assert.False(t, meter.Coin{Denom: "umtr"}.IsValid())
	assert.False(t, meter.Coin{Denom: "umtr", Amount: big.NewInt(-1)}.IsValid())

	assert.Equal(t, "[1umtr,2umtrg]", meter.Coins{meter.NewCoin("umtr", 1), meter.NewCoin("umtrg", 2)}.String())
}

func TestBalanceKey(t *testing.T) {
	assert.NotEqual(t, meter.BalanceKey("umtr"), meter.BalanceKey("umtrg"))
	assert.Equal(t, meter.BalanceKey("umtr"), meter.BalanceKey("umtr"))
}
