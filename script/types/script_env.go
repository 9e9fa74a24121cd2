// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
)

// ScriptEnv is the view a module handler has of one invocation.
type ScriptEnv struct {
	state    *state.State
	blockCtx *xenv.BlockContext
	txCtx    *xenv.TransactionContext
	caller   meter.Address // tx origin for clauses, emitting module for messages
	toAddr   meter.Address
	funds    []meter.Coin

	returnData []byte
	events     []*tx.Event
	messages   []*Message
}

func NewScriptEnv(state *state.State, blockCtx *xenv.BlockContext, txCtx *xenv.TransactionContext, caller, to meter.Address, funds []meter.Coin) *ScriptEnv {
	return &ScriptEnv{
		state:      state,
		blockCtx:   blockCtx,
		txCtx:      txCtx,
		caller:     caller,
		toAddr:     to,
		funds:      funds,
		returnData: make([]byte, 0),
		events:     make([]*tx.Event, 0),
		messages:   make([]*Message, 0),
	}
}

func (env *ScriptEnv) GetState() *state.State             { return env.state }
func (env *ScriptEnv) GetBlockCtx() *xenv.BlockContext    { return env.blockCtx }
func (env *ScriptEnv) GetTxCtx() *xenv.TransactionContext { return env.txCtx }
func (env *ScriptEnv) GetBlockNum() uint32                { return env.blockCtx.Number }
func (env *ScriptEnv) GetTxOrigin() meter.Address         { return env.txCtx.Origin }
func (env *ScriptEnv) GetTxHash() meter.Bytes32           { return env.txCtx.ID }
func (env *ScriptEnv) GetCaller() meter.Address           { return env.caller }
func (env *ScriptEnv) GetToAddr() meter.Address           { return env.toAddr }
func (env *ScriptEnv) GetFunds() []meter.Coin             { return env.funds }

func (env *ScriptEnv) SetReturnData(data []byte) {
	env.returnData = data
}

func (env *ScriptEnv) GetReturnData() []byte {
	if len(env.returnData) == 0 {
		return nil
	}
	return env.returnData
}

// AddEvent records an event emitted by the module at toAddr.
func (env *ScriptEnv) AddEvent(kind string, attrs ...tx.Attribute) {
	env.events = append(env.events, &tx.Event{
		Address:    env.toAddr,
		Kind:       kind,
		Attributes: attrs,
	})
}

// AddMessage queues an outgoing call.
func (env *ScriptEnv) AddMessage(msg *Message) {
	env.messages = append(env.messages, msg)
}

func (env *ScriptEnv) GetEvents() tx.Events {
	return env.events
}

func (env *ScriptEnv) GetMessages() []*Message {
	return env.messages
}

func (env *ScriptEnv) GetOutput() *ScriptEngineOutput {
	return &ScriptEngineOutput{
		data:     env.GetReturnData(),
		events:   env.events,
		messages: env.messages,
	}
}
