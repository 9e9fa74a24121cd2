// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"errors"
	"log/slog"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/tx"
)

const EventKind = "custody"

var (
	log = slog.Default().With("pkg", "custody")

	ErrNoLedger        = errors.New("no custody ledger at address")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrNotOwner        = errors.New("not the asset owner")
	ErrNotApproved     = errors.New("not approved for asset")
	ErrCannotApprove   = errors.New("can not approve")
	ErrInvalidOperator = errors.New("operator must differ from sender")
	ErrInvalidName     = errors.New("invalid name format")
	ErrInvalidSymbol   = errors.New("invalid symbol format")
	ErrInvalidAssetID  = errors.New("invalid asset id")

	errAlreadyInitialized = errors.New("custody ledger already initialized")
	errUnknownOpcode      = errors.New("unknown custody opcode")
)

// Custody is the reference non-fungible ledger. Every instance keeps its
// records under its own address.
type Custody struct {
	logger *slog.Logger
}

func NewCustody() *Custody {
	return &Custody{
		logger: slog.Default().With("pkg", "custody"),
	}
}

func (c *Custody) Handler(senv *setypes.ScriptEnv, payload []byte, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	cb, err := DecodeFromBytes(payload)
	if err != nil {
		log.Error("Decode script message failed", "error", err)
		return nil, gas, err
	}

	if senv == nil {
		panic("create custody enviroment failed")
	}

	log.Debug("received custody", "body", cb.ToString())
	log.Debug("Entering custody handler "+cb.GetOpName(cb.Opcode), "tx", senv.GetTxHash())
	switch cb.Opcode {
	case OP_TRANSFER:
		leftOverGas, err = c.HandleTransfer(senv, cb, gas)
	case OP_TRANSFER_FROM:
		leftOverGas, err = c.HandleTransferFrom(senv, cb, gas)
	case OP_APPROVE:
		leftOverGas, err = c.HandleApprove(senv, cb, gas)
	case OP_APPROVE_ALL:
		leftOverGas, err = c.HandleApproveAll(senv, cb, gas)
	case OP_MINT:
		leftOverGas, err = c.HandleMint(senv, cb, gas)
	case OP_QUERY_OWNER, OP_QUERY_APPROVAL, OP_QUERY_BALANCE, OP_QUERY_ASSET, OP_QUERY_INFO:
		leftOverGas, err = c.HandleQuery(senv, cb, gas)
	default:
		log.Error("unknown Opcode", "Opcode", cb.Opcode)
		return nil, gas, errUnknownOpcode
	}
	log.Debug("Leaving script handler for operation", "op", cb.GetOpName(cb.Opcode))

	seOutput = senv.GetOutput()
	return
}

// InitHandler sets up a fresh instance at the env's address.
func (c *Custody) InitHandler(senv *setypes.ScriptEnv, payload []byte, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	defer func() {
		if err != nil {
			senv.SetReturnData([]byte(err.Error()))
		}
	}()
	leftOverGas = chargeGas(gas)

	ci, err := DecodeInitFromBytes(payload)
	if err != nil {
		log.Error("Decode custody init failed", "error", err)
		return
	}
	if n := utf8.RuneCountInString(ci.Name); n < 3 || n > 30 {
		err = ErrInvalidName
		return
	}
	if n := utf8.RuneCountInString(ci.Symbol); n < 3 || n > 30 {
		err = ErrInvalidSymbol
		return
	}

	st := senv.GetState()
	addr := senv.GetToAddr()
	if GetInfo(st, addr) != nil {
		err = errAlreadyInitialized
		return
	}
	SetInfo(st, addr, &Info{Name: ci.Name, Symbol: ci.Symbol, Minted: new(big.Int)})
	c.logger.Info("custody ledger initialized", "address", addr, "name", ci.Name, "symbol", ci.Symbol)

	seOutput = senv.GetOutput()
	return
}

func chargeGas(gas uint64) uint64 {
	if gas < meter.ClauseGas {
		return 0
	}
	return gas - meter.ClauseGas
}

func addCustodyEvent(senv *setypes.ScriptEnv, action string, sender, recipient meter.Address, asset *Asset) {
	senv.AddEvent(EventKind,
		attr("action", action),
		attr("sender", sender.String()),
		attr("recipient", recipient.String()),
		attr("asset_id", asset.ID.String()),
	)
}

func attr(key, value string) tx.Attribute {
	return tx.Attribute{Key: key, Value: value}
}

func encodeResult(val interface{}) ([]byte, error) {
	return rlp.EncodeToBytes(val)
}
