// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

const (
	OP_TRANSFER      = uint32(1)
	OP_TRANSFER_FROM = uint32(2)
	OP_APPROVE       = uint32(3)
	OP_APPROVE_ALL   = uint32(4)
	OP_MINT          = uint32(5)

	OP_QUERY_OWNER    = uint32(101)
	OP_QUERY_APPROVAL = uint32(102)
	OP_QUERY_BALANCE  = uint32(103)
	OP_QUERY_ASSET    = uint32(104)
	OP_QUERY_INFO     = uint32(105)
)

// CustodyBody is the payload of every call to a ledger instance.
type CustodyBody struct {
	Opcode    uint32
	Version   uint32
	Owner     meter.Address
	Recipient meter.Address
	Spender   meter.Address
	Approved  bool
	AssetID   *big.Int
	Name      string
	URI       string
}

// CustodyInit is the payload of an instantiate message.
type CustodyInit struct {
	Name   string
	Symbol string
}

func (cb *CustodyBody) ToString() string {
	return fmt.Sprintf("CustodyBody: Opcode=%v, Version=%v, Owner=%v, Recipient=%v, Spender=%v, Approved=%v, AssetID=%v, Name=%v, URI=%v",
		cb.Opcode, cb.Version, cb.Owner, cb.Recipient, cb.Spender, cb.Approved, cb.AssetID, cb.Name, cb.URI)
}

func (cb *CustodyBody) GetOpName(op uint32) string {
	switch op {
	case OP_TRANSFER:
		return "Transfer"
	case OP_TRANSFER_FROM:
		return "TransferFrom"
	case OP_APPROVE:
		return "Approve"
	case OP_APPROVE_ALL:
		return "ApproveAll"
	case OP_MINT:
		return "Mint"
	case OP_QUERY_OWNER:
		return "QueryOwner"
	case OP_QUERY_APPROVAL:
		return "QueryApproval"
	case OP_QUERY_BALANCE:
		return "QueryBalance"
	case OP_QUERY_ASSET:
		return "QueryAsset"
	case OP_QUERY_INFO:
		return "QueryInfo"
	default:
		return "Unknown"
	}
}

func NewTransferBody(recipient meter.Address, id *big.Int) *CustodyBody {
	return &CustodyBody{Opcode: OP_TRANSFER, Recipient: recipient, AssetID: id}
}

func NewTransferFromBody(owner, recipient meter.Address, id *big.Int) *CustodyBody {
	return &CustodyBody{Opcode: OP_TRANSFER_FROM, Owner: owner, Recipient: recipient, AssetID: id}
}

func NewApproveBody(spender meter.Address, id *big.Int) *CustodyBody {
	return &CustodyBody{Opcode: OP_APPROVE, Spender: spender, AssetID: id}
}

func NewApproveAllBody(operator meter.Address, approved bool) *CustodyBody {
	return &CustodyBody{Opcode: OP_APPROVE_ALL, Spender: operator, Approved: approved}
}

func NewMintBody(name, uri string) *CustodyBody {
	return &CustodyBody{Opcode: OP_MINT, Name: name, URI: uri}
}

func NewQueryBody(op uint32, owner meter.Address, id *big.Int) *CustodyBody {
	return &CustodyBody{Opcode: op, Owner: owner, AssetID: id}
}

// Encode returns clause data addressed to a ledger instance.
func (cb *CustodyBody) Encode() ([]byte, error) {
	return setypes.EncodeScriptData(setypes.CUSTODY_MODULE_ID, cb)
}

// Encode returns the init data of an instantiate message.
func (ci *CustodyInit) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(ci)
}

func DecodeFromBytes(bytes []byte) (*CustodyBody, error) {
	cb := CustodyBody{}
	err := rlp.DecodeBytes(bytes, &cb)
	return &cb, err
}

func DecodeInitFromBytes(bytes []byte) (*CustodyInit, error) {
	ci := CustodyInit{}
	err := rlp.DecodeBytes(bytes, &ci)
	return &ci, err
}
