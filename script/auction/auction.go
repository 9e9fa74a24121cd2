// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"errors"
	"log/slog"
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/tx"
)

const EventKind = "auction"

// MaxBiddingWindow keeps every deadline within uint64 since block numbers are uint32.
const MaxBiddingWindow = uint64(math.MaxUint32)

var (
	log = slog.Default().With("pkg", "auction")

	ErrAlreadyBootstrapped     = errors.New("auction engine already bootstrapped")
	ErrInvalidWindow           = errors.New("bidding window out of range")
	ErrInvalidAddress          = errors.New("invalid address")
	ErrNoCustodyLedger         = errors.New("no custody ledger configured")
	ErrNotBootstrapped         = errors.New("auction engine not bootstrapped")
	ErrInvalidAssetID          = errors.New("invalid asset id")
	ErrInvalidMinimumBid       = errors.New("invalid minimum bid")
	ErrListingExists           = errors.New("listing already exists")
	ErrUnknownListing          = errors.New("unknown listing")
	ErrAuctionEnded            = errors.New("auction ended")
	ErrInvalidBid              = errors.New("invalid bid")
	ErrAuctionNotEnded         = errors.New("auction not ended")
	ErrUnknownReply            = errors.New("unknown reply id")
	ErrInstantiateFailed       = errors.New("custody ledger instantiation failed")
	ErrMissingInstantiateEvent = errors.New("instantiate event missing contract address")

	errNotFromGenesis = errors.New("bootstrap is only allowed from genesis")
	errUnknownOpcode  = errors.New("unknown auction opcode")
)

// Auction escrows custody assets while bids are collected and settles them
// once the deadline has passed.
type Auction struct {
	logger *slog.Logger
}

func NewAuction() *Auction {
	return &Auction{
		logger: slog.Default().With("pkg", "auction"),
	}
}

func (a *Auction) Handler(senv *setypes.ScriptEnv, payload []byte, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	ab, err := DecodeFromBytes(payload)
	if err != nil {
		log.Error("Decode script message failed", "error", err)
		return nil, gas, err
	}

	if senv == nil {
		panic("create auction enviroment failed")
	}

	log.Debug("received auction", "body", ab.ToString())
	log.Debug("Entering auction handler "+ab.GetOpName(ab.Opcode), "tx", senv.GetTxHash())
	switch ab.Opcode {
	case OP_BOOTSTRAP:
		if !senv.GetTxOrigin().IsZero() {
			log.Info("bootstrap from non-genesis origin", "origin", senv.GetTxOrigin())
			return nil, gas, errNotFromGenesis
		}
		leftOverGas, err = a.HandleBootstrap(senv, ab, gas)
	case OP_LIST:
		leftOverGas, err = a.HandleList(senv, ab, gas)
	case OP_BID:
		leftOverGas, err = a.HandleBid(senv, ab, gas)
	case OP_WITHDRAW:
		leftOverGas, err = a.HandleWithdraw(senv, ab, gas)
	case OP_QUERY_LISTING, OP_QUERY_CONFIG:
		leftOverGas, err = a.HandleQuery(senv, ab, gas)
	default:
		log.Error("unknown Opcode", "Opcode", ab.Opcode)
		return nil, gas, errUnknownOpcode
	}
	log.Debug("Leaving script handler for operation", "op", ab.GetOpName(ab.Opcode))

	seOutput = senv.GetOutput()
	return
}

func chargeGas(gas uint64) uint64 {
	if gas < meter.ClauseGas {
		return 0
	}
	return gas - meter.ClauseGas
}

func attr(key, value string) tx.Attribute {
	return tx.Attribute{Key: key, Value: value}
}

func encodeResult(val interface{}) ([]byte, error) {
	return rlp.EncodeToBytes(val)
}
