// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"log/slog"
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidFunds      = errors.New("invalid funds")
	ErrInvalidOrigin     = errors.New("invalid transaction origin")

	errCallDepth      = errors.New("max call depth exceeded")
	errOutOfGas       = errors.New("out of gas")
	errNotScriptData  = errors.New("clause data is not script data")
	errUnknownMessage = errors.New("unknown message kind")
	errNoClauses      = errors.New("transaction has no clauses")
)

// Output output of clause execution.
type Output struct {
	Data            []byte
	Events          tx.Events
	Transfers       tx.Transfers
	LeftOverGas     uint64
	VMErr           error          // error of the failed handler or message, the clause is reverted
	ContractAddress *meter.Address // if the clause instantiated a module, or is nil.
}

type TransactionExecutor struct {
	HasNextClause func() bool
	NextClause    func() (gasUsed uint64, output *Output, err error)
	Finalize      func() (*tx.Receipt, error)
}

// Runtime executes clauses against the script engine modules.
type Runtime struct {
	se     *script.ScriptEngine
	state  *state.State
	ctx    *xenv.BlockContext
	logger *slog.Logger
}

// New create a Runtime object.
func New(se *script.ScriptEngine, state *state.State, ctx *xenv.BlockContext) *Runtime {
	return &Runtime{
		se:     se,
		state:  state,
		ctx:    ctx,
		logger: slog.Default().With("pkg", "rt"),
	}
}

func (rt *Runtime) State() *state.State         { return rt.state }
func (rt *Runtime) Context() *xenv.BlockContext { return rt.ctx }

// ExecuteClause executes single clause. Every state write of the clause,
// including those of emitted messages, is reverted when it fails.
func (rt *Runtime) ExecuteClause(
	clause *tx.Clause,
	clauseIndex uint32,
	gas uint64,
	txCtx *xenv.TransactionContext,
) *Output {
	checkpoint := rt.state.NewCheckpoint()

	ctx := *txCtx
	ctx.ClauseIndex = clauseIndex
	x := &executor{rt: rt, txCtx: &ctx, gas: gas}

	var (
		output = &Output{}
		err    error
	)
	if clause.IsCreatingContract() {
		var addr meter.Address
		if addr, err = x.createFromScript(ctx.Origin, clause.Data(), clause.Funds()); err == nil {
			output.ContractAddress = &addr
		}
	} else {
		output.Data, err = x.call(ctx.Origin, *clause.To(), clause.Funds(), clause.Data(), 0)
	}
	output.LeftOverGas = x.gas

	if err != nil {
		rt.state.RevertTo(checkpoint)
		rt.logger.Debug("clause reverted", "tx", ctx.ID, "clause", clauseIndex, "err", err)
		output.Data = nil
		output.ContractAddress = nil
		output.VMErr = err
		return output
	}
	output.Events = x.events
	output.Transfers = x.transfers
	return output
}

// ExecuteTransaction executes a transaction.
// If some clause failed, receipt.Outputs will be nil and the receipt carries the revert reason.
func (rt *Runtime) ExecuteTransaction(t *tx.Transaction) (receipt *tx.Receipt, err error) {
	executor, err := rt.PrepareTransaction(t)
	if err != nil {
		return nil, err
	}

	for executor.HasNextClause() {
		if _, _, err := executor.NextClause(); err != nil {
			return nil, err
		}
	}
	return executor.Finalize()
}

// PrepareTransaction prepare to execute tx.
func (rt *Runtime) PrepareTransaction(t *tx.Transaction) (*TransactionExecutor, error) {
	clauses := t.Clauses()
	if len(clauses) == 0 {
		return nil, errNoClauses
	}
	if err := rt.checkOrigin(t.Origin()); err != nil {
		return nil, err
	}
	leftOverGas := meter.InitialGasLimit - meter.TxGas

	// checkpoint to be reverted when clause failure.
	checkpoint := rt.state.NewCheckpoint()

	txCtx := &xenv.TransactionContext{ID: t.ID(), Origin: t.Origin(), Nonce: t.Nonce()}

	txOutputs := make([]*tx.Output, 0, len(clauses))
	reverted := false
	reason := ""
	finalized := false

	hasNext := func() bool {
		return !reverted && len(txOutputs) < len(clauses)
	}

	return &TransactionExecutor{
		HasNextClause: hasNext,
		NextClause: func() (gasUsed uint64, output *Output, err error) {
			if !hasNext() {
				return 0, nil, errors.New("no more clause")
			}
			nextClauseIndex := uint32(len(txOutputs))
			output = rt.ExecuteClause(clauses[nextClauseIndex], nextClauseIndex, leftOverGas, txCtx)
			gasUsed = leftOverGas - output.LeftOverGas
			leftOverGas = output.LeftOverGas

			if output.VMErr != nil {
				// revert all executed clauses
				rt.state.RevertTo(checkpoint)
				rt.logger.Info("transaction reverted", "tx", txCtx.ID, "clause", nextClauseIndex, "reason", output.VMErr)
				clausesCounter.WithLabelValues("reverted").Inc()
				reverted = true
				reason = output.VMErr.Error()
				txOutputs = nil
				return
			}
			clausesCounter.WithLabelValues("ok").Inc()
			txOutputs = append(txOutputs, &tx.Output{Events: output.Events, Transfers: output.Transfers})
			return
		},
		Finalize: func() (*tx.Receipt, error) {
			if hasNext() {
				return nil, errors.New("not all clauses processed")
			}
			if finalized {
				return nil, errors.New("already finalized")
			}
			finalized = true

			if !reverted {
				observe(txOutputs)
			}
			return &tx.Receipt{
				TxID:     txCtx.ID,
				Origin:   txCtx.Origin,
				GasUsed:  meter.InitialGasLimit - leftOverGas,
				Reverted: reverted,
				Reason:   reason,
				Outputs:  txOutputs,
			}, nil
		},
	}, nil
}

// checkOrigin rejects origins that no key controls. Module instances and the
// runtime only act through messages, and the zero origin is reserved for the
// genesis block.
func (rt *Runtime) checkOrigin(origin meter.Address) error {
	switch {
	case origin == meter.RuntimeAddr:
		return errors.WithMessage(ErrInvalidOrigin, "runtime address")
	case rt.state.GetModuleID(origin) != 0:
		return errors.WithMessage(ErrInvalidOrigin, "module address "+origin.String())
	case origin.IsZero() && rt.ctx.Number != 0:
		return errors.WithMessage(ErrInvalidOrigin, "zero address after genesis")
	}
	return nil
}

// Query runs the clause data against to and discards every state change.
func (rt *Runtime) Query(caller, to meter.Address, data []byte) *Output {
	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)

	clause := tx.NewClause(&to).WithData(data)
	return rt.ExecuteClause(clause, 0, meter.InitialGasLimit, &xenv.TransactionContext{Origin: caller})
}

func observe(outputs []*tx.Output) {
	for _, o := range outputs {
		for _, ev := range o.Events {
			if ev.Kind != auction.EventKind {
				continue
			}
			action, _ := ev.Attribute("action")
			auctionActionsCounter.WithLabelValues(action).Inc()
			if action != "withdraw" {
				continue
			}
			if _, sold := ev.Attribute("listing_sold"); sold {
				listingsSettledCounter.WithLabelValues("sold").Inc()
			} else {
				listingsSettledCounter.WithLabelValues("unsold").Inc()
			}
		}
	}
}

// executor carries the accumulated output of one clause while its
// messages are executed depth first.
type executor struct {
	rt        *Runtime
	txCtx     *xenv.TransactionContext
	gas       uint64
	events    tx.Events
	transfers tx.Transfers
}

func (x *executor) env(caller, to meter.Address, funds []meter.Coin) *setypes.ScriptEnv {
	return setypes.NewScriptEnv(x.rt.state, x.rt.ctx, x.txCtx, caller, to, funds)
}

// call moves funds to the callee then runs data against the module bound to it.
func (x *executor) call(caller, to meter.Address, funds []meter.Coin, data []byte, depth int) ([]byte, error) {
	if depth > meter.MaxCallDepth {
		return nil, errCallDepth
	}
	if err := x.send(caller, to, funds); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	if !setypes.IsScriptData(data) {
		return nil, errNotScriptData
	}
	if x.gas < meter.ClauseGas {
		return nil, errOutOfGas
	}

	out, leftOverGas, err := x.rt.se.HandleScriptData(x.env(caller, to, funds), data, x.gas)
	x.gas = leftOverGas
	if err != nil {
		return nil, errors.WithMessage(err, "execute "+to.String())
	}
	if err := x.handleOutput(to, out, depth); err != nil {
		return nil, err
	}
	return out.GetData(), nil
}

func (x *executor) createFromScript(creator meter.Address, data []byte, funds []meter.Coin) (meter.Address, error) {
	sd, err := setypes.DecodeScriptData(data)
	if err != nil {
		return meter.Address{}, err
	}
	return x.create(creator, sd.Header.GetModID(), sd.Payload, funds, 0)
}

// create instantiates module codeID at an address derived from creator.
func (x *executor) create(creator meter.Address, codeID uint32, init []byte, funds []meter.Coin, depth int) (meter.Address, error) {
	if depth > meter.MaxCallDepth {
		return meter.Address{}, errCallDepth
	}
	if x.gas < meter.ClauseGas {
		return meter.Address{}, errOutOfGas
	}
	st := x.rt.state
	addr := meter.CreateAddress(creator, st.NextInstanceSequence(creator))
	if err := x.send(creator, addr, funds); err != nil {
		return meter.Address{}, err
	}

	out, leftOverGas, err := x.rt.se.Instantiate(x.env(creator, addr, funds), codeID, init, x.gas)
	x.gas = leftOverGas
	if err != nil {
		return meter.Address{}, errors.WithMessage(err, "instantiate")
	}
	return addr, x.handleOutput(addr, out, depth)
}

// instantiate runs an instantiate message under its own checkpoint and
// delivers the outcome to the emitter. A failed instantiation is not an
// error by itself, the emitter decides through its reply handler.
func (x *executor) instantiate(sender meter.Address, msg *setypes.Message, depth int) error {
	st := x.rt.state
	checkpoint := st.NewCheckpoint()
	nEvents, nTransfers := len(x.events), len(x.transfers)

	outcome := &setypes.ReplyOutcome{}
	if _, err := x.create(sender, msg.CodeID, msg.Data, msg.Funds, depth); err != nil {
		st.RevertTo(checkpoint)
		x.events, x.transfers = x.events[:nEvents], x.transfers[:nTransfers]
		x.rt.logger.Info("instantiate failed", "code", msg.CodeID, "label", msg.Label, "err", err)
		outcome.Err = err.Error()
	} else {
		outcome.Events = append(tx.Events(nil), x.events[nEvents:]...)
	}

	if x.gas < meter.ClauseGas {
		return errOutOfGas
	}
	out, leftOverGas, err := x.rt.se.HandleReply(x.env(meter.RuntimeAddr, sender, nil), msg.ReplyID, outcome, x.gas)
	x.gas = leftOverGas
	if err != nil {
		return errors.WithMessage(err, "reply")
	}
	return x.handleOutput(sender, out, depth)
}

func (x *executor) handleOutput(emitter meter.Address, out *setypes.ScriptEngineOutput, depth int) error {
	if out == nil {
		return nil
	}
	x.events = append(x.events, out.GetEvents()...)
	for _, msg := range out.GetMessages() {
		if err := x.dispatch(emitter, msg, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (x *executor) dispatch(sender meter.Address, msg *setypes.Message, depth int) error {
	x.rt.logger.Debug("dispatch message", "sender", sender, "msg", msg.String(), "depth", depth)
	switch msg.Kind {
	case setypes.MSG_EXECUTE:
		_, err := x.call(sender, msg.To, msg.Funds, msg.Data, depth)
		return err
	case setypes.MSG_BANK_SEND:
		return x.send(sender, msg.To, msg.Funds)
	case setypes.MSG_INSTANTIATE:
		if depth > meter.MaxCallDepth {
			return errCallDepth
		}
		return x.instantiate(sender, msg, depth)
	default:
		return errUnknownMessage
	}
}

// send is the value transfer collaborator: it moves native balances and
// records each move.
func (x *executor) send(from, to meter.Address, coins []meter.Coin) error {
	st := x.rt.state
	for _, c := range coins {
		if !c.IsValid() {
			return ErrInvalidFunds
		}
		if c.Amount.Sign() == 0 {
			continue
		}
		if !st.SubBalance(from, c.Denom, c.Amount) {
			return errors.WithMessage(ErrInsufficientFunds, from.String()+" "+c.String())
		}
		st.AddBalance(to, c.Denom, c.Amount)
		x.transfers = append(x.transfers, &tx.Transfer{
			Sender:    from,
			Recipient: to,
			Denom:     c.Denom,
			Amount:    new(big.Int).Set(c.Amount),
		})
	}
	return nil
}
