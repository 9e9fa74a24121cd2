// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
)

// HandleWithdraw finalizes an ended listing. Anyone may call it.
func (a *Auction) HandleWithdraw(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
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

	listing := GetListing(st, engine, ab.ListingID)
	if listing == nil {
		err = ErrUnknownListing
		return
	}
	if listing.DeadlineHeight >= uint64(env.GetBlockNum()) {
		err = ErrAuctionNotEnded
		return
	}
	DeleteListing(st, engine, listing.ListingID)

	recipient := listing.Seller
	if listing.CurrentBidder != nil {
		recipient = *listing.CurrentBidder
	}
	release, err := custody.NewTransferBody(recipient, listing.AssetID).Encode()
	if err != nil {
		return
	}
	env.AddMessage(setypes.NewExecuteMsg(listing.CustodyLedger, release))

	if listing.CurrentBidder == nil {
		a.logger.Info("listing unsold", "listing", listing.ListingID, "seller", listing.Seller)
		env.AddEvent(EventKind,
			attr("action", "withdraw"),
			attr("listing_unsold", listing.ListingID),
		)
		return
	}

	env.AddMessage(setypes.NewBankSendMsg(listing.Seller, listing.CurrentBid))
	a.logger.Info("listing sold", "listing", listing.ListingID, "winner", recipient, "price", listing.CurrentBid)
	env.AddEvent(EventKind,
		attr("action", "withdraw"),
		attr("listing_sold", listing.ListingID),
		attr("winner", recipient.String()),
		attr("price", listing.CurrentBid.String()),
	)
	return
}
