// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreator(t *testing.T) *state.Creator {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.NewCreator(db)
}

func TestStateReadWrite(t *testing.T) {
	st := newCreator(t).NewState()

	addr := meter.BytesToAddress([]byte("account1"))
	key := meter.BytesToBytes32([]byte("foo"))

	assert.Empty(t, st.GetRawStorage(addr, key))
	st.SetRawStorage(addr, key, rlp.RawValue{0x83, 'b', 'a', 'r'})
	assert.Equal(t, rlp.RawValue{0x83, 'b', 'a', 'r'}, st.GetRawStorage(addr, key))

	assert.Equal(t, int64(0), st.GetBalance(addr, "umtr").Int64())
	st.AddBalance(addr, "umtr", big.NewInt(100))
	st.AddBalance(addr, "umtrg", big.NewInt(7))
	assert.Equal(t, int64(100), st.GetBalance(addr, "umtr").Int64())
	assert.Equal(t, int64(7), st.GetBalance(addr, "umtrg").Int64())

	assert.False(t, st.SubBalance(addr, "umtr", big.NewInt(101)))
	assert.True(t, st.SubBalance(addr, "umtr", big.NewInt(60)))
	assert.Equal(t, int64(40), st.GetBalance(addr, "umtr").Int64())

	assert.Equal(t, uint32(0), st.GetModuleID(addr))
	st.SetModuleID(addr, 1001)
	assert.Equal(t, uint32(1001), st.GetModuleID(addr))

	assert.Equal(t, uint64(0), st.NextInstanceSequence(addr))
	assert.Equal(t, uint64(1), st.NextInstanceSequence(addr))
	assert.NoError(t, st.Err())
}

func TestStateRevert(t *testing.T) {
	st := newCreator(t).NewState()
	addr := meter.BytesToAddress([]byte("account1"))

	st.SetBalance(addr, "umtr", big.NewInt(10))
	chk := st.NewCheckpoint()
	st.SetBalance(addr, "umtr", big.NewInt(20))
	st.SetModuleID(addr, 3)

	inner := st.NewCheckpoint()
	st.SetBalance(addr, "umtr", big.NewInt(30))
	st.RevertTo(inner)
	assert.Equal(t, int64(20), st.GetBalance(addr, "umtr").Int64())

	st.RevertTo(chk)
	assert.Equal(t, int64(10), st.GetBalance(addr, "umtr").Int64())
	assert.Equal(t, uint32(0), st.GetModuleID(addr))
}

func TestStageCommit(t *testing.T) {
	c := newCreator(t)
	addr := meter.BytesToAddress([]byte("account1"))

	st := c.NewState()
	st.SetBalance(addr, "umtr", big.NewInt(10))
	st.SetModuleID(addr, 1003)
	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	h1, err := stage.Hash()
	require.NoError(t, err)
	require.NoError(t, stage.Commit())

	st2 := c.NewState()
	assert.Equal(t, int64(10), st2.GetBalance(addr, "umtr").Int64())
	assert.Equal(t, uint32(1003), st2.GetModuleID(addr))

	// zero balance deletes
	st2.SetBalance(addr, "umtr", big.NewInt(0))
	h2, err := st2.Stage().Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	require.NoError(t, st2.Stage().Commit())

	assert.Equal(t, int64(0), c.NewState().GetBalance(addr, "umtr").Int64())
}

func TestStageHashDeterministic(t *testing.T) {
	addrA := meter.BytesToAddress([]byte("a"))
	addrB := meter.BytesToAddress([]byte("b"))

	st1 := newCreator(t).NewState()
	st1.SetBalance(addrA, "u", big.NewInt(1))
	st1.SetBalance(addrB, "u", big.NewInt(2))

	st2 := newCreator(t).NewState()
	st2.SetBalance(addrB, "u", big.NewInt(2))
	st2.SetBalance(addrA, "u", big.NewInt(1))

	h1, _ := st1.Stage().Hash()
	h2, _ := st2.Stage().Hash()
	assert.Equal(t, h1, h2)
}

func TestStateError(t *testing.T) {
	st := newCreator(t).NewState()
	addr := meter.BytesToAddress([]byte("account1"))
	key := meter.BytesToBytes32([]byte("foo"))

	errDecode := errors.New("decode")
	st.DecodeStorage(addr, key, func([]byte) error { return errDecode })
	st.EncodeStorage(addr, key, func() ([]byte, error) { return nil, errors.New("second") })
	assert.Equal(t, errDecode, st.Err())

	_, err := st.Stage().Hash()
	assert.Equal(t, errDecode, err)
	assert.Equal(t, errDecode, st.Stage().Commit())
}
