// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	setypes "github.com/meterio/meter-auction/script/types"
)

// HandleBid replaces the current bid with the attached funds and refunds
// the previous bidder.
func (a *Auction) HandleBid(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
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
	bidder := env.GetCaller()

	listing := GetListing(st, engine, ab.ListingID)
	if listing == nil {
		err = ErrUnknownListing
		return
	}
	now := uint64(env.GetBlockNum())
	if listing.DeadlineHeight < now {
		err = ErrAuctionEnded
		return
	}

	funds := env.GetFunds()
	if len(funds) != 1 {
		err = ErrInvalidBid
		return
	}
	bid := funds[0]
	if bid.Denom != listing.CurrentBid.Denom || bid.Amount == nil || bid.Amount.Cmp(listing.CurrentBid.Amount) <= 0 {
		a.logger.Info("bid rejected", "listing", listing.ListingID, "bid", bid, "current", listing.CurrentBid)
		err = ErrInvalidBid
		return
	}

	previous := listing.CurrentBid
	previousBidder := listing.CurrentBidder
	listing.CurrentBid.Amount = new(big.Int).Set(bid.Amount)
	listing.CurrentBidder = &bidder
	SetListing(st, engine, listing)

	if previousBidder != nil {
		env.AddMessage(setypes.NewBankSendMsg(*previousBidder, previous))
	}

	a.logger.Info("bid accepted", "listing", listing.ListingID, "bidder", bidder, "amount", bid.Amount)
	env.AddEvent(EventKind,
		attr("action", "bid"),
		attr("bid", listing.ListingID),
		attr("bidder", bidder.String()),
		attr("amount", bid.Amount.String()),
	)
	return
}
