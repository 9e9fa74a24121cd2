// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
)

var (
	errModuleMismatch  = errors.New("script module does not match the target address")
	errNoReplyHandler  = errors.New("module does not accept replies")
	errNotInstantiable = errors.New("module can not be instantiated")
	errAddressInUse    = errors.New("instance address already bound")
)

// ScriptEngine dispatches script data to the modules bound to addresses.
type ScriptEngine struct {
	logger *slog.Logger
	modReg Registry
}

func NewScriptEngine() *ScriptEngine {
	se := &ScriptEngine{
		logger: slog.Default().With("pkg", "se"),
	}

	// start all sub modules
	se.StartAllModules()
	return se
}

func (se *ScriptEngine) StartAllModules() {
	ModuleAuctionInit(se)
	ModuleCustodyInit(se)
}

func (se *ScriptEngine) findModule(modID uint32) (*Module, error) {
	mod, find := se.modReg.Find(modID)
	if !find {
		return nil, fmt.Errorf("could not address module %v", modID)
	}
	return mod, nil
}

// Bind binds module modID to addr, for addresses set up outside of instantiate.
func (se *ScriptEngine) Bind(st *state.State, addr meter.Address, modID uint32) error {
	if _, err := se.findModule(modID); err != nil {
		return err
	}
	if bound := st.GetModuleID(addr); bound != 0 && bound != modID {
		return errAddressInUse
	}
	st.SetModuleID(addr, modID)
	return nil
}

// HandleScriptData runs clause data against the module bound to the env's address.
func (se *ScriptEngine) HandleScriptData(senv *setypes.ScriptEnv, data []byte, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	script, err := setypes.DecodeScriptData(data)
	if err != nil {
		se.logger.Error("Decode script message failed", "err", err)
		return nil, gas, err
	}

	header := script.Header
	mod, err := se.findModule(header.GetModID())
	if err != nil {
		se.logger.Info("unknown module", "header", header.ToString())
		return nil, gas, err
	}

	to := senv.GetToAddr()
	if bound := senv.GetState().GetModuleID(to); bound != header.GetModID() {
		se.logger.Info("module mismatch", "to", to, "bound", bound, "header", header.ToString())
		return nil, gas, errModuleMismatch
	}

	//module handler
	seOutput, leftOverGas, err = mod.modHandler(senv, script.Payload, gas)
	return
}

// HandleReply delivers an instantiate outcome to the module at the env's address.
func (se *ScriptEngine) HandleReply(senv *setypes.ScriptEnv, replyID uint64, outcome *setypes.ReplyOutcome, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	mod, err := se.findModule(senv.GetState().GetModuleID(senv.GetToAddr()))
	if err != nil {
		return nil, gas, err
	}
	if mod.replyHandler == nil {
		return nil, gas, errNoReplyHandler
	}
	return mod.replyHandler(senv, replyID, outcome, gas)
}

// Instantiate binds module codeID to the env's address and runs its init.
// On success it emits the instantiate event carrying the new address.
func (se *ScriptEngine) Instantiate(senv *setypes.ScriptEnv, codeID uint32, init []byte, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	mod, err := se.findModule(codeID)
	if err != nil {
		return nil, gas, err
	}
	if mod.initHandler == nil {
		return nil, gas, errNotInstantiable
	}

	st := senv.GetState()
	addr := senv.GetToAddr()
	if st.GetModuleID(addr) != 0 {
		return nil, gas, errAddressInUse
	}
	st.SetModuleID(addr, codeID)

	if _, leftOverGas, err = mod.initHandler(senv, init, gas); err != nil {
		return
	}
	senv.AddEvent(setypes.InstantiateEventKind,
		tx.Attribute{Key: setypes.ContractAddressAttrKey, Value: addr.String()},
		tx.Attribute{Key: setypes.CodeIDAttrKey, Value: strconv.FormatUint(uint64(codeID), 10)},
	)
	se.logger.Info("module instantiated", "module", mod.modName, "address", addr)
	seOutput = senv.GetOutput()
	return
}

// EncodeScriptData encodes a module body as clause data.
func EncodeScriptData(body interface{}) ([]byte, error) {
	var modID uint32
	switch body.(type) {
	case auction.AuctionBody, *auction.AuctionBody:
		modID = setypes.AUCTION_MODULE_ID
	case custody.CustodyBody, *custody.CustodyBody:
		modID = setypes.CUSTODY_MODULE_ID
	default:
		return []byte{}, errors.New("unrecognized body")
	}
	return setypes.EncodeScriptData(modID, body)
}
