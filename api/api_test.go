// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/api"
	auctionapi "github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/custody"
	"github.com/meterio/meter-auction/solo"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encoder interface {
	Encode() ([]byte, error)
}

type client struct {
	t   *testing.T
	url string
}

func (c *client) do(method, path string, body, result interface{}) int {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(c.t, err)
	}
	req, err := http.NewRequest(method, c.url+path, bytes.NewReader(data))
	require.NoError(c.t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK && result != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(result))
	}
	return res.StatusCode
}

func (c *client) send(origin, to meter.Address, body encoder, funds ...transactions.Coin) *transactions.Receipt {
	data, err := body.Encode()
	require.NoError(c.t, err)
	var receipt transactions.Receipt
	status := c.do("POST", "/transactions", &transactions.SendTransaction{
		Origin:  origin,
		Clauses: []transactions.Clause{{To: &to, Funds: funds, Data: hexutil.Encode(data)}},
	}, &receipt)
	require.Equal(c.t, http.StatusOK, status)
	return &receipt
}

// tick packs an empty block by a self transfer.
func (c *client) tick(origin meter.Address) {
	status := c.do("POST", "/transactions", &transactions.SendTransaction{
		Origin:  origin,
		Clauses: []transactions.Clause{{To: &origin, Funds: []transactions.Coin{{Denom: genesis.DevDenom, Amount: "1"}}}},
	}, nil)
	require.Equal(c.t, http.StatusOK, status)
}

func newClient(t *testing.T) *client {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	s, err := solo.New(state.NewCreator(db), script.NewScriptEngine(), logDB, genesis.NewDevnet())
	require.NoError(t, err)

	handler, closeAPI := api.New(s, logDB, "*")
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		ts.Close()
		closeAPI()
		s.Close()
		logDB.Close()
		db.Close()
	})
	return &client{t, ts.URL}
}

// TestAuctionFlow lists an asset, outbids once and settles after the window.
func TestAuctionFlow(t *testing.T) {
	c := newClient(t)
	accounts := genesis.DevAccounts()
	seller, alice, bob := accounts[0], accounts[1], accounts[2]
	ledger := meter.CreateAddress(meter.AuctionModuleAddr, 0)
	engine := meter.AuctionModuleAddr

	require.False(t, c.send(seller, ledger, custody.NewMintBody("token", "ipfs://token")).Reverted)
	require.False(t, c.send(seller, ledger, custody.NewApproveAllBody(engine, true)).Reverted)
	r := c.send(seller, engine, auction.NewListBody(ledger.String(), big.NewInt(0), meter.NewCoin(genesis.DevDenom, 1000)))
	require.False(t, r.Reverted, r.Reason)
	listingID := auction.ListingID(ledger, big.NewInt(0))

	r = c.send(alice, engine, auction.NewBidBody(listingID), transactions.Coin{Denom: genesis.DevDenom, Amount: "1000"})
	assert.True(t, r.Reverted, "a bid must exceed the current bid")
	r = c.send(alice, engine, auction.NewBidBody(listingID), transactions.Coin{Denom: genesis.DevDenom, Amount: "1001"})
	require.False(t, r.Reverted, r.Reason)
	r = c.send(bob, engine, auction.NewBidBody(listingID), transactions.Coin{Denom: genesis.DevDenom, Amount: "1500"})
	require.False(t, r.Reverted, r.Reason)

	var listing auctionapi.Listing
	require.Equal(t, http.StatusOK, c.do("GET", "/auction/listings/"+listingID, nil, &listing))
	assert.Equal(t, bob, listing.CurrentBidder)
	assert.Equal(t, "1500", listing.CurrentBid.Amount)

	r = c.send(seller, engine, auction.NewWithdrawBody(listingID))
	assert.True(t, r.Reverted, "the window is still open")

	// each transaction is a block, advance past the deadline
	for i := 0; i < 50; i++ {
		c.tick(alice)
	}
	r = c.send(alice, engine, auction.NewWithdrawBody(listingID))
	require.False(t, r.Reverted, r.Reason)
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/auction/listings/"+listingID, nil, nil))

	var fes []*events.FilteredEvent
	require.Equal(t, http.StatusOK, c.do("POST", "/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{
			Address:    &engine,
			Kind:       auction.EventKind,
			Attributes: []transactions.Attribute{{Key: "listing_sold", Value: listingID}},
		}},
	}, &fes))
	require.Len(t, fes, 1)

	var tLogs []*transfers.FilteredTransfer
	require.Equal(t, http.StatusOK, c.do("POST", "/logs/transfer", &transfers.TransferFilter{
		CriteriaSet: []*transfers.TransferCriteria{{Sender: &engine, Denom: genesis.DevDenom}},
	}, &tLogs))
	require.Len(t, tLogs, 2, "refund of alice and payout to the seller")
	assert.Equal(t, alice, tLogs[0].Recipient)
	assert.Equal(t, "1001", tLogs[0].Amount)
	assert.Equal(t, seller, tLogs[1].Recipient)
	assert.Equal(t, "1500", tLogs[1].Amount)
}

func TestCORS(t *testing.T) {
	c := newClient(t)
	req, err := http.NewRequest("OPTIONS", c.url+"/auction/config", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
