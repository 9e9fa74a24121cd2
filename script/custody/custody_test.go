// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ledger = meter.BytesToAddress([]byte("ledger"))
	alice  = meter.BytesToAddress([]byte("alice"))
	bob    = meter.BytesToAddress([]byte("bob"))
	carol  = meter.BytesToAddress([]byte("carol"))
)

type fixture struct {
	t  *testing.T
	c  *custody.Custody
	st *state.State
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &fixture{t: t, c: custody.NewCustody(), st: state.NewCreator(db).NewState()}
}

func (f *fixture) env(caller meter.Address) *setypes.ScriptEnv {
	return setypes.NewScriptEnv(f.st, &xenv.BlockContext{Number: 1}, &xenv.TransactionContext{Origin: caller}, caller, ledger, nil)
}

func (f *fixture) init(name, symbol string) error {
	data, err := (&custody.CustodyInit{Name: name, Symbol: symbol}).Encode()
	require.NoError(f.t, err)
	_, _, err = f.c.InitHandler(f.env(meter.ZeroAddress), data, meter.ClauseGas)
	return err
}

func (f *fixture) call(caller meter.Address, body *custody.CustodyBody) (*setypes.ScriptEnv, error) {
	payload, err := rlp.EncodeToBytes(body)
	require.NoError(f.t, err)
	env := f.env(caller)
	_, _, err = f.c.Handler(env, payload, meter.ClauseGas)
	return env, err
}

func (f *fixture) mint(owner meter.Address) *big.Int {
	env, err := f.call(owner, custody.NewMintBody("token", "ipfs://token"))
	require.NoError(f.t, err)
	id := new(big.Int)
	require.NoError(f.t, rlp.DecodeBytes(env.GetReturnData(), id))
	return id
}

func TestInit(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, custody.ErrInvalidName, f.init("ab", "NFT"))
	assert.Equal(t, custody.ErrInvalidSymbol, f.init("collection", "SY"))
	assert.Equal(t, custody.ErrInvalidSymbol, f.init("collection", "0123456789012345678901234567890"))
	assert.Nil(t, custody.GetInfo(f.st, ledger))

	require.NoError(t, f.init("collection", "NFT"))
	assert.Error(t, f.init("collection", "NFT"))

	info := custody.GetInfo(f.st, ledger)
	require.NotNil(t, info)
	assert.Equal(t, "collection", info.Name)
	assert.Equal(t, "NFT", info.Symbol)
	assert.Equal(t, int64(0), info.Minted.Int64())
}

func TestNoLedger(t *testing.T) {
	f := newFixture(t)
	_, err := f.call(alice, custody.NewMintBody("a", "b"))
	assert.Equal(t, custody.ErrNoLedger, err)
	_, err = f.call(alice, custody.NewTransferBody(bob, big.NewInt(0)))
	assert.Equal(t, custody.ErrNoLedger, err)
}

func TestMintAndTransfer(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.init("collection", "NFT"))

	assert.Equal(t, int64(0), f.mint(alice).Int64())
	assert.Equal(t, int64(1), f.mint(alice).Int64())
	assert.Equal(t, uint64(2), custody.GetBalance(f.st, ledger, alice))

	_, err := f.call(alice, custody.NewTransferBody(bob, big.NewInt(9)))
	assert.Equal(t, custody.ErrAssetNotFound, err)

	_, err = f.call(bob, custody.NewTransferBody(bob, big.NewInt(0)))
	assert.Equal(t, custody.ErrNotOwner, err)

	env, err := f.call(alice, custody.NewTransferBody(bob, big.NewInt(0)))
	require.NoError(t, err)
	require.Len(t, env.GetEvents(), 1)
	action, _ := env.GetEvents()[0].Attribute("action")
	assert.Equal(t, "transfer", action)

	assert.Equal(t, bob, custody.GetAsset(f.st, ledger, big.NewInt(0)).Owner)
	assert.Equal(t, uint64(1), custody.GetBalance(f.st, ledger, alice))
	assert.Equal(t, uint64(1), custody.GetBalance(f.st, ledger, bob))
}

func TestApproveAndTransferFrom(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.init("collection", "NFT"))
	id := f.mint(alice)

	_, err := f.call(bob, custody.NewApproveBody(bob, id))
	assert.Equal(t, custody.ErrCannotApprove, err)

	_, err = f.call(bob, custody.NewTransferFromBody(alice, bob, id))
	assert.Equal(t, custody.ErrNotApproved, err)

	_, err = f.call(alice, custody.NewApproveBody(bob, id))
	require.NoError(t, err)
	assert.Equal(t, &bob, custody.GetAsset(f.st, ledger, id).Approved)

	_, err = f.call(bob, custody.NewTransferFromBody(carol, bob, id))
	assert.Equal(t, custody.ErrNotOwner, err)

	_, err = f.call(bob, custody.NewTransferFromBody(alice, carol, id))
	require.NoError(t, err)

	asset := custody.GetAsset(f.st, ledger, id)
	assert.Equal(t, carol, asset.Owner)
	assert.Nil(t, asset.Approved, "approval clears on transfer")

	// the old approval is gone
	_, err = f.call(bob, custody.NewTransferFromBody(carol, bob, id))
	assert.Equal(t, custody.ErrNotApproved, err)
}

func TestOperator(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.init("collection", "NFT"))
	id := f.mint(alice)

	_, err := f.call(alice, custody.NewApproveAllBody(alice, true))
	assert.Equal(t, custody.ErrInvalidOperator, err)

	_, err = f.call(alice, custody.NewApproveAllBody(bob, true))
	require.NoError(t, err)
	assert.True(t, custody.IsOperator(f.st, ledger, alice, bob))

	// an operator may approve and move
	_, err = f.call(bob, custody.NewApproveBody(carol, id))
	require.NoError(t, err)
	_, err = f.call(bob, custody.NewTransferFromBody(alice, bob, id))
	require.NoError(t, err)

	_, err = f.call(alice, custody.NewApproveAllBody(bob, false))
	require.NoError(t, err)
	assert.False(t, custody.IsOperator(f.st, ledger, alice, bob))
}

func TestQuery(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.init("collection", "NFT"))
	id := f.mint(alice)

	env, err := f.call(bob, custody.NewQueryBody(custody.OP_QUERY_OWNER, meter.Address{}, id))
	require.NoError(t, err)
	var owner meter.Address
	require.NoError(t, rlp.DecodeBytes(env.GetReturnData(), &owner))
	assert.Equal(t, alice, owner)

	env, err = f.call(bob, custody.NewQueryBody(custody.OP_QUERY_BALANCE, alice, nil))
	require.NoError(t, err)
	var count uint64
	require.NoError(t, rlp.DecodeBytes(env.GetReturnData(), &count))
	assert.Equal(t, uint64(1), count)

	env, err = f.call(bob, custody.NewQueryBody(custody.OP_QUERY_APPROVAL, meter.Address{}, id))
	require.NoError(t, err)
	var approval custody.Approval
	require.NoError(t, rlp.DecodeBytes(env.GetReturnData(), &approval))
	assert.Nil(t, approval.Approved)

	env, err = f.call(bob, custody.NewQueryBody(custody.OP_QUERY_ASSET, meter.Address{}, big.NewInt(5)))
	assert.Equal(t, custody.ErrAssetNotFound, err)
	assert.Equal(t, []byte(custody.ErrAssetNotFound.Error()), env.GetReturnData())
}
