// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"strconv"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
)

const custodyLabel = "auction custody ledger"

// HandleBootstrap writes the engine config. When a custody request is
// attached the companion ledger is instantiated and bound on reply.
func (a *Auction) HandleBootstrap(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	engine := env.GetToAddr()
	if GetConfig(st, engine) != nil {
		err = ErrAlreadyBootstrapped
		return
	}
	if ab.BiddingWindow == 0 || ab.BiddingWindow > MaxBiddingWindow {
		err = ErrInvalidWindow
		return
	}
	SetConfig(st, engine, &Config{BiddingWindow: ab.BiddingWindow})

	if req := ab.Custody; req != nil {
		var init []byte
		init, err = (&custody.CustodyInit{Name: req.Name, Symbol: req.Symbol}).Encode()
		if err != nil {
			return
		}
		codeID := req.CodeID
		if codeID == 0 {
			codeID = setypes.CUSTODY_MODULE_ID
		}
		pending := append(GetPendingReplies(st, engine), &PendingReply{ID: BootstrapReplyID, Purpose: PurposeBindCustody})
		SetPendingReplies(st, engine, pending)
		env.AddMessage(setypes.NewInstantiateMsg(codeID, init, custodyLabel, BootstrapReplyID))
	}

	a.logger.Info("auction engine bootstrapped", "engine", engine, "window", ab.BiddingWindow, "custody", ab.Custody != nil)
	env.AddEvent(EventKind,
		attr("action", "bootstrap"),
		attr("bidding_window", strconv.FormatUint(ab.BiddingWindow, 10)),
	)
	return
}

// HandleReply completes bootstrap by binding the instantiated ledger.
func (a *Auction) HandleReply(senv *setypes.ScriptEnv, replyID uint64, outcome *setypes.ReplyOutcome, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	defer func() {
		if err != nil {
			senv.SetReturnData([]byte(err.Error()))
		}
	}()
	leftOverGas = chargeGas(gas)

	st := senv.GetState()
	engine := senv.GetToAddr()

	pending := GetPendingReplies(st, engine)
	var entry *PendingReply
	for i, p := range pending {
		if p.ID == replyID {
			entry = p
			pending = append(pending[:i], pending[i+1:]...)
			break
		}
	}
	if entry == nil || entry.Purpose != PurposeBindCustody {
		log.Info("reply without pending request", "id", replyID)
		err = ErrUnknownReply
		return
	}
	SetPendingReplies(st, engine, pending)

	if !outcome.IsOk() {
		a.logger.Error("custody ledger instantiation failed", "reason", outcome.Err)
		err = ErrInstantiateFailed
		return
	}

	var raw string
	found := false
	for _, ev := range outcome.Events {
		if ev.Kind != setypes.InstantiateEventKind {
			continue
		}
		if raw, found = ev.Attribute(setypes.ContractAddressAttrKey); found {
			break
		}
	}
	if !found {
		err = ErrMissingInstantiateEvent
		return
	}
	ledger, perr := meter.ParseAddress(raw)
	if perr != nil {
		err = ErrInvalidAddress
		return
	}

	cfg := GetConfig(st, engine)
	if cfg == nil {
		err = ErrNotBootstrapped
		return
	}
	cfg.CustodyLedger = &ledger
	SetConfig(st, engine, cfg)

	a.logger.Info("custody ledger bound", "engine", engine, "ledger", ledger)
	senv.AddEvent(EventKind,
		attr("action", "bind_custody"),
		attr("custody_ledger", ledger.String()),
	)
	seOutput = senv.GetOutput()
	return
}
