// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/solo"
	"github.com/pkg/errors"
)

type Accounts struct {
	solo *solo.Solo
}

func New(solo *solo.Solo) *Accounts {
	return &Accounts{solo}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	st, _ := a.solo.NewState()
	modID := st.GetModuleID(addr)
	if err := st.Err(); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Address: addr, ModuleID: modID})
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	denom := mux.Vars(req)["denom"]
	if strings.TrimSpace(denom) == "" {
		return utils.BadRequest(errors.New("denom: empty"))
	}
	st, _ := a.solo.NewState()
	balance := st.GetBalance(addr, denom)
	if err := st.Err(); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Address: addr, Denom: denom, Amount: balance.String()})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/balances/{denom}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
}
