// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/api/blocks"
	"github.com/meterio/meter-auction/api/custody"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/solo"
)

// New return api router
func New(solo *solo.Solo, logDB *logdb.LogDB, allowedOrigins string) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(allowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(solo).
		Mount(router, "/accounts")
	auction.New(solo).
		Mount(router, "/auction")
	custody.New(solo).
		Mount(router, "/custody")
	blocks.New(solo).
		Mount(router, "/blocks")
	transactions.New(solo).
		Mount(router, "/transactions")
	events.New(logDB).
		Mount(router, "/logs/event")
	transfers.New(logDB).
		Mount(router, "/logs/transfer")

	subs := subscriptions.New(solo, origins)
	subs.Mount(router, "/subscriptions")

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}))(router).ServeHTTP,
		subs.Close
}
