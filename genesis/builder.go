// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller meter.Address
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contrct call.
func (b *Builder) Call(clause *tx.Clause, caller meter.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (meter.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return meter.Bytes32{}, err
	}
	defer db.Close()

	blk, _, err := b.Build(state.NewCreator(db), script.NewScriptEngine())
	if err != nil {
		return meter.Bytes32{}, err
	}
	return blk.Header().ID(), nil
}

// Build build genesis block according to presets.
func (b *Builder) Build(stateCreator *state.Creator, se *script.ScriptEngine) (blk *block.Block, receipts tx.Receipts, err error) {
	st := stateCreator.NewState()

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(se, st, &xenv.BlockContext{
		Number: 0,
		Time:   b.timestamp,
	})

	var (
		txs     tx.Transactions
		gasUsed uint64
	)
	for i, call := range b.calls {
		trx := new(tx.Builder).Origin(call.caller).Nonce(uint64(i)).Clause(call.clause).Build()
		receipt, err := rt.ExecuteTransaction(trx)
		if err != nil {
			return nil, nil, errors.Wrap(err, "genesis call")
		}
		if receipt.Reverted {
			return nil, nil, errors.New("genesis call reverted: " + receipt.Reason)
		}
		txs = append(txs, trx)
		receipts = append(receipts, receipt)
		gasUsed += receipt.GasUsed
	}

	stage := st.Stage()
	stateRoot, err := stage.Hash()
	if err != nil {
		return nil, nil, errors.Wrap(err, "hash state")
	}
	if err := stage.Commit(); err != nil {
		return nil, nil, errors.Wrap(err, "commit state")
	}

	builder := new(block.Builder).
		ParentID(block.GenesisParentID()).
		Timestamp(b.timestamp).
		GasUsed(gasUsed).
		StateRoot(stateRoot).
		ReceiptsRoot(receipts.RootHash())
	for _, trx := range txs {
		builder.Transaction(trx)
	}
	log.Debug("genesis built", "txs", len(txs), "root", stateRoot)
	return builder.Build(), receipts, nil
}
