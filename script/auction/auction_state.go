// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

const (
	// reply id of the companion ledger instantiation issued by bootstrap
	BootstrapReplyID = uint64(1)

	PurposeBindCustody = uint32(1)
)

// Config is the engine-wide singleton written by bootstrap.
type Config struct {
	BiddingWindow uint64
	CustodyLedger *meter.Address `rlp:"nil"` // set by bootstrap completion
}

// Listing is the state of one live auction.
type Listing struct {
	ListingID      string
	AssetID        *big.Int
	CustodyLedger  meter.Address
	Seller         meter.Address
	CurrentBid     meter.Coin
	CurrentBidder  *meter.Address `rlp:"nil"` // nil until the first accepted bid
	DeadlineHeight uint64
}

func (l *Listing) String() string {
	bidder := "none"
	if l.CurrentBidder != nil {
		bidder = l.CurrentBidder.String()
	}
	return fmt.Sprintf("Listing(%v asset:%v ledger:%v seller:%v bid:%v bidder:%v deadline:%v)",
		l.ListingID, l.AssetID, l.CustodyLedger, l.Seller, l.CurrentBid, bidder, l.DeadlineHeight)
}

// View reports the listing the way it is observed externally,
// the engine address standing for "no bidder yet".
func (l *Listing) View(engine meter.Address) *ListingView {
	bidder := engine
	if l.CurrentBidder != nil {
		bidder = *l.CurrentBidder
	}
	return &ListingView{
		ListingID:      l.ListingID,
		AssetID:        l.AssetID,
		CustodyLedger:  l.CustodyLedger,
		Seller:         l.Seller,
		CurrentBid:     l.CurrentBid,
		CurrentBidder:  bidder,
		DeadlineHeight: l.DeadlineHeight,
	}
}

// ListingView is the result of OP_QUERY_LISTING.
type ListingView struct {
	ListingID      string
	AssetID        *big.Int
	CustodyLedger  meter.Address
	Seller         meter.Address
	CurrentBid     meter.Coin
	CurrentBidder  meter.Address
	DeadlineHeight uint64
}

// PendingReply is an instantiate request awaiting completion.
type PendingReply struct {
	ID      uint64
	Purpose uint32
}

// ListingID derives the id of the listing of asset id on ledger.
func ListingID(ledger meter.Address, id *big.Int) string {
	return meter.Blake2b([]byte("listing"), ledger.Bytes(), meter.BytesToBytes32(id.Bytes()).Bytes()).String()
}

func listingKey(id string) meter.Bytes32 {
	return meter.Blake2b(meter.AuctionListingPrefix, []byte(id))
}

// GetConfig returns nil before bootstrap.
func GetConfig(st *state.State, engine meter.Address) (result *Config) {
	st.DecodeStorage(engine, meter.AuctionConfigKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		cfg := &Config{}
		if err := rlp.DecodeBytes(raw, cfg); err != nil {
			log.Error("Error during decoding auction config", "err", err)
			return err
		}
		result = cfg
		return nil
	})
	return
}

func SetConfig(st *state.State, engine meter.Address, cfg *Config) {
	st.EncodeStorage(engine, meter.AuctionConfigKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(cfg)
	})
}

// GetListing returns nil for unknown or finalized listings.
func GetListing(st *state.State, engine meter.Address, id string) (result *Listing) {
	st.DecodeStorage(engine, listingKey(id), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		listing := &Listing{}
		if err := rlp.DecodeBytes(raw, listing); err != nil {
			log.Error("Error during decoding listing", "id", id, "err", err)
			return err
		}
		result = listing
		return nil
	})
	return
}

func SetListing(st *state.State, engine meter.Address, listing *Listing) {
	st.EncodeStorage(engine, listingKey(listing.ListingID), func() ([]byte, error) {
		return rlp.EncodeToBytes(listing)
	})
}

func DeleteListing(st *state.State, engine meter.Address, id string) {
	st.SetRawStorage(engine, listingKey(id), nil)
}

func GetPendingReplies(st *state.State, engine meter.Address) (result []*PendingReply) {
	st.DecodeStorage(engine, meter.AuctionPendingKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		if err := rlp.DecodeBytes(raw, &result); err != nil {
			log.Error("Error during decoding pending replies", "err", err)
			return err
		}
		return nil
	})
	return
}

func SetPendingReplies(st *state.State, engine meter.Address, pending []*PendingReply) {
	if len(pending) == 0 {
		st.SetRawStorage(engine, meter.AuctionPendingKey, nil)
		return
	}
	st.EncodeStorage(engine, meter.AuctionPendingKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(pending)
	})
}
