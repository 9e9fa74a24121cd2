// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/solo"
	"github.com/pkg/errors"
)

var log = slog.Default().With("api", "tx")

type Transactions struct {
	solo *solo.Solo
}

func New(solo *solo.Solo) *Transactions {
	return &Transactions{solo}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var body SendTransaction
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Clauses) == 0 {
		return utils.BadRequest(errors.New("body: no clauses"))
	}
	trx, err := body.transaction()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, header, err := t.solo.Submit(trx)
	if err != nil {
		if errors.Is(err, runtime.ErrInvalidOrigin) {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		return err
	}
	log.Debug("tx packed", "id", trx.ID(), "block", header.Number(), "reverted", receipt.Reverted)
	return utils.WriteJSON(w, ConvertReceipt(receipt, header))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
}
