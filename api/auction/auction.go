// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/solo"
	"github.com/pkg/errors"
)

type Auction struct {
	solo *solo.Solo
}

func New(solo *solo.Solo) *Auction {
	return &Auction{solo}
}

// query runs body against the engine and decodes the result into val.
func (a *Auction) query(body *auction.AuctionBody, val interface{}) error {
	data, err := body.Encode()
	if err != nil {
		return err
	}
	out := a.solo.Query(meter.ZeroAddress, meter.AuctionModuleAddr, data)
	if out.VMErr != nil {
		switch {
		case errors.Is(out.VMErr, auction.ErrUnknownListing), errors.Is(out.VMErr, auction.ErrNotBootstrapped):
			return utils.NotFound(out.VMErr)
		default:
			return errors.WithMessage(out.VMErr, "query")
		}
	}
	return rlp.DecodeBytes(out.Data, val)
}

func (a *Auction) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	var cfg auction.Config
	if err := a.query(auction.NewQueryConfigBody(), &cfg); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertConfig(&cfg))
}

func (a *Auction) writeListing(w http.ResponseWriter, listingID string) error {
	var view auction.ListingView
	if err := a.query(auction.NewQueryListingBody(listingID), &view); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertListing(&view))
}

func (a *Auction) handleGetListing(w http.ResponseWriter, req *http.Request) error {
	return a.writeListing(w, mux.Vars(req)["id"])
}

// handleGetListingByAsset resolves the listing id of an asset held in a ledger.
func (a *Auction) handleGetListingByAsset(w http.ResponseWriter, req *http.Request) error {
	ledger, err := meter.ParseAddress(mux.Vars(req)["ledger"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "ledger"))
	}
	id, ok := new(big.Int).SetString(mux.Vars(req)["asset"], 0)
	if !ok || id.Sign() < 0 || id.BitLen() > 256 {
		return utils.BadRequest(errors.New("asset: invalid id"))
	}
	return a.writeListing(w, auction.ListingID(ledger, id))
}

func (a *Auction) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetConfig))
	sub.Path("/listings/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetListing))
	sub.Path("/ledgers/{ledger}/assets/{asset}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetListingByAsset))
}
