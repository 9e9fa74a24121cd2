// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
)

type Config struct {
	BiddingWindow uint64         `json:"biddingWindow"`
	CustodyLedger *meter.Address `json:"custodyLedger"`
}

type Listing struct {
	ListingID      string            `json:"listingID"`
	AssetID        string            `json:"assetID"`
	CustodyLedger  meter.Address     `json:"custodyLedger"`
	Seller         meter.Address     `json:"seller"`
	CurrentBid     transactions.Coin `json:"currentBid"`
	CurrentBidder  meter.Address     `json:"currentBidder"`
	DeadlineHeight uint64            `json:"deadlineHeight"`
}

func convertConfig(c *auction.Config) *Config {
	return &Config{
		BiddingWindow: c.BiddingWindow,
		CustodyLedger: c.CustodyLedger,
	}
}

func convertListing(v *auction.ListingView) *Listing {
	return &Listing{
		ListingID:      v.ListingID,
		AssetID:        v.AssetID.String(),
		CustodyLedger:  v.CustodyLedger,
		Seller:         v.Seller,
		CurrentBid:     transactions.ConvertCoin(v.CurrentBid),
		CurrentBidder:  v.CurrentBidder,
		DeadlineHeight: v.DeadlineHeight,
	}
}
