// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
)

// HandleList opens a listing and pulls the asset into escrow.
func (a *Auction) HandleList(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
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
	seller := env.GetCaller()

	var ledger meter.Address
	explicit := strings.TrimSpace(ab.CustodyLedger) != ""
	if explicit {
		if ledger, err = meter.ParseAddress(strings.TrimSpace(ab.CustodyLedger)); err != nil {
			err = ErrInvalidAddress
			return
		}
	}
	cfg := GetConfig(st, engine)
	if cfg == nil {
		err = ErrNotBootstrapped
		return
	}
	if !explicit {
		if cfg.CustodyLedger == nil {
			err = ErrNoCustodyLedger
			return
		}
		ledger = *cfg.CustodyLedger
	}

	if ab.AssetID == nil || ab.AssetID.Sign() < 0 || ab.AssetID.BitLen() > 256 {
		err = ErrInvalidAssetID
		return
	}
	if ab.MinimumBid.Denom == "" || !ab.MinimumBid.IsValid() {
		err = ErrInvalidMinimumBid
		return
	}

	id := ListingID(ledger, ab.AssetID)
	if GetListing(st, engine, id) != nil {
		err = ErrListingExists
		return
	}

	approve, err := custody.NewApproveBody(engine, ab.AssetID).Encode()
	if err != nil {
		return
	}
	pull, err := custody.NewTransferFromBody(seller, engine, ab.AssetID).Encode()
	if err != nil {
		return
	}

	listing := &Listing{
		ListingID:      id,
		AssetID:        new(big.Int).Set(ab.AssetID),
		CustodyLedger:  ledger,
		Seller:         seller,
		CurrentBid:     meter.Coin{Denom: ab.MinimumBid.Denom, Amount: new(big.Int).Set(ab.MinimumBid.Amount)},
		DeadlineHeight: uint64(env.GetBlockNum()) + cfg.BiddingWindow,
	}
	SetListing(st, engine, listing)

	env.AddMessage(setypes.NewExecuteMsg(ledger, approve))
	env.AddMessage(setypes.NewExecuteMsg(ledger, pull))

	a.logger.Info("listing created", "listing", listing.String())
	env.AddEvent(EventKind,
		attr("action", "list"),
		attr("listing", id),
		attr("seller", seller.String()),
		attr("deadline", strconv.FormatUint(listing.DeadlineHeight, 10)),
	)
	ret = []byte(id)
	return
}
