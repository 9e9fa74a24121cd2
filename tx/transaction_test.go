// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTx(t *testing.T) {
	to := meter.BytesToAddress([]byte("to"))
	origin := meter.BytesToAddress([]byte("origin"))

	trx := new(tx.Builder).
		Origin(origin).
		Clause(tx.NewClause(&to).WithFunds(meter.NewCoin("u", 150)).WithData([]byte{1, 2, 3})).
		Clause(tx.NewClause(nil)).
		Nonce(12345678).
		Build()

	assert.Equal(t, origin, trx.Origin())
	assert.Equal(t, uint64(12345678), trx.Nonce())
	require.Len(t, trx.Clauses(), 2)
	assert.Equal(t, &to, trx.Clauses()[0].To())
	assert.True(t, trx.Clauses()[1].IsCreatingContract())

	raw, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)

	var decoded tx.Transaction
	require.NoError(t, rlp.DecodeBytes(raw, &decoded))
	assert.Equal(t, trx.ID(), decoded.ID())

	c := decoded.Clauses()[0]
	require.Len(t, c.Funds(), 1)
	assert.Equal(t, "u", c.Funds()[0].Denom)
	assert.Equal(t, big.NewInt(150), c.Funds()[0].Amount)
	assert.Equal(t, []byte{1, 2, 3}, c.Data())
	assert.Nil(t, decoded.Clauses()[1].To())
}

func TestTxIDChangesWithNonce(t *testing.T) {
	b := func(nonce uint64) *tx.Transaction {
		return new(tx.Builder).Nonce(nonce).Build()
	}
	assert.NotEqual(t, b(1).ID(), b(2).ID())
	assert.Equal(t, b(1).ID(), b(1).ID())
	assert.NotEqual(t, tx.Transactions{b(1)}.RootHash(), tx.Transactions{b(2)}.RootHash())
}

func TestEventAttribute(t *testing.T) {
	ev := &tx.Event{
		Kind:       "wasm",
		Attributes: []tx.Attribute{{Key: "action", Value: "bid"}, {Key: "bid", Value: "0x01"}},
	}
	v, ok := ev.Attribute("bid")
	assert.True(t, ok)
	assert.Equal(t, "0x01", v)
	_, ok = ev.Attribute("listing")
	assert.False(t, ok)
}
