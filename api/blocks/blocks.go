// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/solo"
)

type Blocks struct {
	solo *solo.Solo
}

func New(solo *solo.Solo) *Blocks {
	return &Blocks{solo}
}

func (b *Blocks) handleGetBest(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, convertBlockSummary(b.solo.BestBlock()))
}

func (b *Blocks) handleGetGenesisID(w http.ResponseWriter, req *http.Request) error {
	id := b.solo.GenesisID()
	return utils.WriteJSON(w, map[string]string{"id": id.String()})
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/best").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(b.handleGetBest))
	sub.Path("/genesis").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(b.handleGetGenesisID))
}
