// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/prometheus/client_golang/prometheus"

var (
	clausesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clauses_executed_total",
		Help: "Counter of executed clauses by result",
	}, []string{"result"})
	auctionActionsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_actions_total",
		Help: "Counter of committed auction actions",
	}, []string{"action"})
	listingsSettledCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_listings_settled_total",
		Help: "Counter of finalized listings by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(clausesCounter)
	prometheus.MustRegister(auctionActionsCounter)
	prometheus.MustRegister(listingsSettledCounter)
}
