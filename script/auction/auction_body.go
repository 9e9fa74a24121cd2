// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

const (
	OP_BOOTSTRAP = uint32(1)
	OP_LIST      = uint32(2)
	OP_BID       = uint32(3)
	OP_WITHDRAW  = uint32(4)

	OP_QUERY_LISTING = uint32(101)
	OP_QUERY_CONFIG  = uint32(102)
)

// CustodyRequest asks bootstrap to instantiate a companion custody ledger.
type CustodyRequest struct {
	CodeID uint32
	Name   string
	Symbol string
}

// AuctionBody is the payload of every call to the auction engine.
type AuctionBody struct {
	Opcode  uint32
	Version uint32

	// bootstrap
	BiddingWindow uint64
	Custody       *CustodyRequest `rlp:"nil"`

	// list
	CustodyLedger string // empty selects the bootstrapped ledger
	AssetID       *big.Int
	MinimumBid    meter.Coin

	// bid, withdraw, query
	ListingID string
}

func (ab *AuctionBody) ToString() string {
	custody := "none"
	if ab.Custody != nil {
		custody = fmt.Sprintf("{code:%v name:%v symbol:%v}", ab.Custody.CodeID, ab.Custody.Name, ab.Custody.Symbol)
	}
	return fmt.Sprintf("AuctionBody: Opcode=%v, Version=%v, BiddingWindow=%v, Custody=%v, CustodyLedger=%v, AssetID=%v, MinimumBid=%v, ListingID=%v",
		ab.Opcode, ab.Version, ab.BiddingWindow, custody, ab.CustodyLedger, ab.AssetID, ab.MinimumBid, ab.ListingID)
}

func (ab *AuctionBody) GetOpName(op uint32) string {
	switch op {
	case OP_BOOTSTRAP:
		return "Bootstrap"
	case OP_LIST:
		return "List"
	case OP_BID:
		return "Bid"
	case OP_WITHDRAW:
		return "Withdraw"
	case OP_QUERY_LISTING:
		return "QueryListing"
	case OP_QUERY_CONFIG:
		return "QueryConfig"
	default:
		return "Unknown"
	}
}

func NewBootstrapBody(window uint64, custody *CustodyRequest) *AuctionBody {
	return &AuctionBody{Opcode: OP_BOOTSTRAP, BiddingWindow: window, Custody: custody}
}

func NewListBody(ledger string, assetID *big.Int, minimum meter.Coin) *AuctionBody {
	return &AuctionBody{Opcode: OP_LIST, CustodyLedger: ledger, AssetID: assetID, MinimumBid: minimum}
}

func NewBidBody(listingID string) *AuctionBody {
	return &AuctionBody{Opcode: OP_BID, ListingID: listingID}
}

func NewWithdrawBody(listingID string) *AuctionBody {
	return &AuctionBody{Opcode: OP_WITHDRAW, ListingID: listingID}
}

func NewQueryListingBody(listingID string) *AuctionBody {
	return &AuctionBody{Opcode: OP_QUERY_LISTING, ListingID: listingID}
}

func NewQueryConfigBody() *AuctionBody {
	return &AuctionBody{Opcode: OP_QUERY_CONFIG}
}

// Encode returns clause data addressed to an auction engine.
func (ab *AuctionBody) Encode() ([]byte, error) {
	return setypes.EncodeScriptData(setypes.AUCTION_MODULE_ID, ab)
}

func DecodeFromBytes(bytes []byte) (*AuctionBody, error) {
	ab := AuctionBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}
