// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script_test

import (
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.NewCreator(db).NewState()
}

func newEnv(st *state.State, origin, to meter.Address) *setypes.ScriptEnv {
	return setypes.NewScriptEnv(st, &xenv.BlockContext{}, &xenv.TransactionContext{Origin: origin}, origin, to, nil)
}

func TestBind(t *testing.T) {
	se := script.NewScriptEngine()
	st := newState(t)

	assert.Error(t, se.Bind(st, meter.AuctionModuleAddr, 42))
	require.NoError(t, se.Bind(st, meter.AuctionModuleAddr, setypes.AUCTION_MODULE_ID))
	require.NoError(t, se.Bind(st, meter.AuctionModuleAddr, setypes.AUCTION_MODULE_ID))
	assert.Error(t, se.Bind(st, meter.AuctionModuleAddr, setypes.CUSTODY_MODULE_ID))
	assert.Equal(t, setypes.AUCTION_MODULE_ID, st.GetModuleID(meter.AuctionModuleAddr))
}

func TestHandleScriptData(t *testing.T) {
	se := script.NewScriptEngine()
	st := newState(t)
	engine := meter.AuctionModuleAddr
	data, err := script.EncodeScriptData(auction.NewBootstrapBody(50, nil))
	require.NoError(t, err)

	_, _, err = se.HandleScriptData(newEnv(st, meter.ZeroAddress, engine), data, meter.ClauseGas)
	assert.Error(t, err, "unbound address")

	require.NoError(t, se.Bind(st, engine, setypes.AUCTION_MODULE_ID))
	out, left, err := se.HandleScriptData(newEnv(st, meter.ZeroAddress, engine), data, meter.ClauseGas)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), left)
	require.Len(t, out.GetEvents(), 1)
	assert.Equal(t, auction.EventKind, out.GetEvents()[0].Kind)
	assert.NotNil(t, auction.GetConfig(st, engine))

	// custody body sent to the engine address
	data, err = script.EncodeScriptData(custody.NewMintBody("token", "uri"))
	require.NoError(t, err)
	_, _, err = se.HandleScriptData(newEnv(st, meter.ZeroAddress, engine), data, meter.ClauseGas)
	assert.Error(t, err)

	_, _, err = se.HandleScriptData(newEnv(st, meter.ZeroAddress, engine), []byte{1, 2, 3}, meter.ClauseGas)
	assert.Error(t, err)

	_, err = script.EncodeScriptData("body")
	assert.Error(t, err)
}

func TestInstantiate(t *testing.T) {
	se := script.NewScriptEngine()
	st := newState(t)
	addr := meter.CreateAddress(meter.AuctionModuleAddr, 0)

	init, err := (&custody.CustodyInit{Name: "collection", Symbol: "NFT"}).Encode()
	require.NoError(t, err)

	_, _, err = se.Instantiate(newEnv(st, meter.ZeroAddress, addr), setypes.AUCTION_MODULE_ID, init, meter.ClauseGas)
	assert.Error(t, err, "engine has no init")

	out, _, err := se.Instantiate(newEnv(st, meter.ZeroAddress, addr), setypes.CUSTODY_MODULE_ID, init, meter.ClauseGas)
	require.NoError(t, err)
	assert.Equal(t, setypes.CUSTODY_MODULE_ID, st.GetModuleID(addr))

	events := out.GetEvents()
	require.NotEmpty(t, events)
	ev := events[len(events)-1]
	assert.Equal(t, setypes.InstantiateEventKind, ev.Kind)
	v, ok := ev.Attribute(setypes.ContractAddressAttrKey)
	assert.True(t, ok)
	assert.Equal(t, addr.String(), v)
	v, _ = ev.Attribute(setypes.CodeIDAttrKey)
	assert.Equal(t, "1003", v)

	_, _, err = se.Instantiate(newEnv(st, meter.ZeroAddress, addr), setypes.CUSTODY_MODULE_ID, init, meter.ClauseGas)
	assert.Error(t, err, "address in use")
}

func TestHandleReply(t *testing.T) {
	se := script.NewScriptEngine()
	st := newState(t)
	ledger := meter.CreateAddress(meter.AuctionModuleAddr, 0)

	init, err := (&custody.CustodyInit{Name: "collection", Symbol: "NFT"}).Encode()
	require.NoError(t, err)
	_, _, err = se.Instantiate(newEnv(st, meter.ZeroAddress, ledger), setypes.CUSTODY_MODULE_ID, init, meter.ClauseGas)
	require.NoError(t, err)

	_, _, err = se.HandleReply(newEnv(st, meter.RuntimeAddr, ledger), 1, &setypes.ReplyOutcome{}, meter.ClauseGas)
	assert.Error(t, err, "custody takes no replies")

	_, _, err = se.HandleReply(newEnv(st, meter.RuntimeAddr, meter.AuctionModuleAddr), 1, &setypes.ReplyOutcome{}, meter.ClauseGas)
	assert.Error(t, err, "unbound address")
}
