// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

// ReceiptEvent is posted for every committed transaction.
type ReceiptEvent struct {
	Header  *block.Header
	Receipt *tx.Receipt
}

// Solo packs every submitted transaction into its own block on top of the
// best block. It is the only writer of state.
type Solo struct {
	mu           sync.RWMutex
	feedMu       sync.Mutex // taken before mu is released so receipts go out in block order
	stateCreator *state.Creator
	se           *script.ScriptEngine
	logDB        *logdb.LogDB
	genesisID    meter.Bytes32
	best         *block.Header

	receiptFeed event.Feed
	scope       event.SubscriptionScope
	logger      *slog.Logger
}

// New opens the chain kept in stateCreator, building gene first if the store is empty.
func New(stateCreator *state.Creator, se *script.ScriptEngine, logDB *logdb.LogDB, gene *genesis.Genesis) (*Solo, error) {
	s := &Solo{
		stateCreator: stateCreator,
		se:           se,
		logDB:        logDB,
		genesisID:    gene.ID(),
		logger:       slog.Default().With("pkg", "solo"),
	}

	if best := loadBest(stateCreator.NewState()); best != nil {
		s.best = best
		s.logger.Info("loaded best block", "num", best.Number(), "id", best.ID())
		return s, nil
	}

	blk, receipts, err := gene.Build(stateCreator, se)
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	if err := s.indexLogs(blk.Header(), blk.Transactions(), receipts); err != nil {
		return nil, err
	}
	st := stateCreator.NewState()
	saveBest(st, blk.Header())
	if err := st.Stage().Commit(); err != nil {
		return nil, errors.Wrap(err, "commit best block")
	}
	s.best = blk.Header()
	s.logger.Info("genesis built", "name", gene.Name(), "id", blk.Header().ID())
	return s, nil
}

func loadBest(st *state.State) (header *block.Header) {
	st.DecodeStorage(meter.RuntimeAddr, meter.KeyBestBlock, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		h := &block.Header{}
		if err := rlp.DecodeBytes(raw, h); err != nil {
			return err
		}
		header = h
		return nil
	})
	return
}

func saveBest(st *state.State, header *block.Header) {
	st.EncodeStorage(meter.RuntimeAddr, meter.KeyBestBlock, func() ([]byte, error) {
		return rlp.EncodeToBytes(header)
	})
}

func (s *Solo) GenesisID() meter.Bytes32 {
	return s.genesisID
}

// BestBlock returns the header of the last committed block.
func (s *Solo) BestBlock() *block.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.best
}

// NewState returns a state on top of the best block.
func (s *Solo) NewState() (*state.State, *block.Header) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateCreator.NewState(), s.best
}

// Query runs clause data read-only on top of the best block.
func (s *Solo) Query(caller, to meter.Address, data []byte) *runtime.Output {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt := runtime.New(s.se, s.stateCreator.NewState(), &xenv.BlockContext{
		Number: s.best.Number(),
		Time:   s.best.Timestamp(),
	})
	return rt.Query(caller, to, data)
}

// Submit executes trx in a new block and commits it. A reverted
// transaction is still packed, with its receipt marked reverted.
func (s *Solo) Submit(trx *tx.Transaction) (*tx.Receipt, *block.Header, error) {
	s.mu.Lock()
	receipt, header, err := s.pack(trx)
	s.feedMu.Lock()
	s.mu.Unlock()
	defer s.feedMu.Unlock()
	if err != nil {
		return nil, nil, err
	}
	s.receiptFeed.Send(&ReceiptEvent{Header: header, Receipt: receipt})
	return receipt, header, nil
}

func (s *Solo) pack(trx *tx.Transaction) (*tx.Receipt, *block.Header, error) {
	start := time.Now()
	parent := s.best
	st := s.stateCreator.NewState()
	rt := runtime.New(s.se, st, &xenv.BlockContext{
		Number: parent.Number() + 1,
		Time:   parent.Timestamp() + meter.BlockInterval,
	})

	receipt, err := rt.ExecuteTransaction(trx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "execute transaction")
	}
	stateRoot, err := st.Stage().Hash()
	if err != nil {
		return nil, nil, errors.Wrap(err, "hash state")
	}

	blk := new(block.Builder).
		ParentID(parent.ID()).
		Timestamp(parent.Timestamp() + meter.BlockInterval).
		GasUsed(receipt.GasUsed).
		StateRoot(stateRoot).
		ReceiptsRoot(tx.Receipts{receipt}.RootHash()).
		Transaction(trx).
		Build()
	header := blk.Header()

	saveBest(st, header)
	if err := st.Stage().Commit(); err != nil {
		return nil, nil, errors.Wrap(err, "commit state")
	}
	if err := s.indexLogs(header, blk.Transactions(), tx.Receipts{receipt}); err != nil {
		return nil, nil, err
	}
	s.best = header

	s.logger.Info("packed block", "num", header.Number(), "id", header.ID(), "tx", trx.ID(), "reverted", receipt.Reverted, "elapsed", time.Since(start))
	return receipt, header, nil
}

func (s *Solo) indexLogs(header *block.Header, txs tx.Transactions, receipts tx.Receipts) error {
	if s.logDB == nil || len(txs) == 0 {
		return nil
	}
	batch := s.logDB.Prepare(header)
	for i, trx := range txs {
		txBatch := batch.ForTransaction(trx.ID(), trx.Origin())
		for _, output := range receipts[i].Outputs {
			txBatch.Insert(output.Events, output.Transfers)
		}
	}
	return errors.Wrap(batch.Commit(), "commit logs")
}

// SubscribeReceipts receivers will receive every committed receipt.
func (s *Solo) SubscribeReceipts(ch chan *ReceiptEvent) event.Subscription {
	return s.scope.Track(s.receiptFeed.Subscribe(ch))
}

// Close ends all subscriptions.
func (s *Solo) Close() {
	s.scope.Close()
	s.logger.Debug("closed")
}
