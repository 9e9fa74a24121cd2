// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/solo"
	"github.com/pkg/errors"
)

type Custody struct {
	solo *solo.Solo
}

func New(solo *solo.Solo) *Custody {
	return &Custody{solo}
}

// query fails with not found unless ledger is bound to the custody module.
func (c *Custody) query(ledger meter.Address, body *custody.CustodyBody, val interface{}) error {
	st, _ := c.solo.NewState()
	if st.GetModuleID(ledger) != setypes.CUSTODY_MODULE_ID {
		return utils.NotFound(custody.ErrNoLedger)
	}
	data, err := body.Encode()
	if err != nil {
		return err
	}
	out := c.solo.Query(meter.ZeroAddress, ledger, data)
	if out.VMErr != nil {
		if errors.Is(out.VMErr, custody.ErrNoLedger) || errors.Is(out.VMErr, custody.ErrAssetNotFound) {
			return utils.NotFound(out.VMErr)
		}
		return errors.WithMessage(out.VMErr, "query")
	}
	return rlp.DecodeBytes(out.Data, val)
}

func parseLedger(req *http.Request) (meter.Address, error) {
	ledger, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return meter.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return ledger, nil
}

func (c *Custody) handleGetInfo(w http.ResponseWriter, req *http.Request) error {
	ledger, err := parseLedger(req)
	if err != nil {
		return err
	}
	var info custody.Info
	if err := c.query(ledger, custody.NewQueryBody(custody.OP_QUERY_INFO, meter.Address{}, nil), &info); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertInfo(ledger, &info))
}

func (c *Custody) handleGetAsset(w http.ResponseWriter, req *http.Request) error {
	ledger, err := parseLedger(req)
	if err != nil {
		return err
	}
	id, ok := new(big.Int).SetString(mux.Vars(req)["id"], 0)
	if !ok || id.Sign() < 0 || id.BitLen() > 256 {
		return utils.BadRequest(errors.New("id: invalid asset id"))
	}
	var asset custody.Asset
	if err := c.query(ledger, custody.NewQueryBody(custody.OP_QUERY_ASSET, meter.Address{}, id), &asset); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAsset(&asset))
}

func (c *Custody) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	ledger, err := parseLedger(req)
	if err != nil {
		return err
	}
	owner, err := meter.ParseAddress(mux.Vars(req)["owner"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "owner"))
	}
	var count uint64
	if err := c.query(ledger, custody.NewQueryBody(custody.OP_QUERY_BALANCE, owner, nil), &count); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Owner: owner, Count: count})
}

func (c *Custody) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(c.handleGetInfo))
	sub.Path("/{address}/assets/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(c.handleGetAsset))
	sub.Path("/{address}/owners/{owner}/balance").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(c.handleGetBalance))
}
