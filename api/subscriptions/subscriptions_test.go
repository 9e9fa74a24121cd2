// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/solo"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferTx(from, to meter.Address, nonce uint64) *tx.Transaction {
	return new(tx.Builder).Origin(from).Nonce(nonce).
		Clause(tx.NewClause(&to).WithFunds(meter.NewCoin(genesis.DevDenom, 10))).
		Build()
}

func TestReceiptSubscription(t *testing.T) {
	defer leaktest.Check(t)()

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	s, err := solo.New(state.NewCreator(db), script.NewScriptEngine(), nil, genesis.NewDevnet())
	require.NoError(t, err)
	defer s.Close()

	subs := subscriptions.New(s, []string{"*"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()
	defer subs.Close()

	accounts := genesis.DevAccounts()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/receipt?origin=" + accounts[1].String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the subscription is registered after the upgrade, give it a moment
	time.Sleep(100 * time.Millisecond)

	_, _, err = s.Submit(transferTx(accounts[0], accounts[2], 1))
	require.NoError(t, err)
	_, header, err := s.Submit(transferTx(accounts[1], accounts[2], 2))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var receipt transactions.Receipt
	require.NoError(t, conn.ReadJSON(&receipt))
	assert.Equal(t, accounts[1], receipt.Origin, "receipts of other origins are filtered")
	assert.Equal(t, header.Number(), receipt.Meta.BlockNumber)
	assert.False(t, receipt.Reverted)
}

func TestReceiptSubscriptionBadOrigin(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	s, err := solo.New(state.NewCreator(db), script.NewScriptEngine(), nil, genesis.NewDevnet())
	require.NoError(t, err)
	defer s.Close()

	subs := subscriptions.New(s, nil)
	defer subs.Close()
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/receipt?origin=0x12"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	header := http.Header{"Origin": []string{"http://elsewhere.example"}}
	_, res, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/subscriptions/receipt", header)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
