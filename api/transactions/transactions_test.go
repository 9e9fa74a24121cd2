// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/custody"
	"github.com/meterio/meter-auction/solo"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ledger = meter.CreateAddress(meter.AuctionModuleAddr, 0)

func initServer(t *testing.T) *httptest.Server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	s, err := solo.New(state.NewCreator(db), script.NewScriptEngine(), nil, genesis.NewDevnet())
	require.NoError(t, err)

	router := mux.NewRouter()
	transactions.New(s).Mount(router, "/transactions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		s.Close()
		db.Close()
	})
	return ts
}

func post(t *testing.T, url string, body interface{}) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, r
}

func TestSendTransaction(t *testing.T) {
	ts := initServer(t)
	owner := genesis.DevAccounts()[0]
	data, err := custody.NewMintBody("token", "ipfs://token").Encode()
	require.NoError(t, err)

	status, res := post(t, ts.URL+"/transactions", &transactions.SendTransaction{
		Origin:  owner,
		Nonce:   1,
		Clauses: []transactions.Clause{{To: &ledger, Data: hexutil.Encode(data)}},
	})
	require.Equal(t, http.StatusOK, status, string(res))

	var receipt transactions.Receipt
	require.NoError(t, json.Unmarshal(res, &receipt))
	assert.False(t, receipt.Reverted, receipt.Reason)
	assert.Equal(t, owner, receipt.Origin)
	assert.Equal(t, uint32(1), receipt.Meta.BlockNumber)
	require.Len(t, receipt.Outputs, 1)
	require.Len(t, receipt.Outputs[0].Events, 1)
	assert.Equal(t, ledger, receipt.Outputs[0].Events[0].Address)
}

func TestSendTransfer(t *testing.T) {
	ts := initServer(t)
	accounts := genesis.DevAccounts()

	status, res := post(t, ts.URL+"/transactions", &transactions.SendTransaction{
		Origin: accounts[0],
		Clauses: []transactions.Clause{{
			To:    &accounts[1],
			Funds: []transactions.Coin{{Denom: genesis.DevDenom, Amount: "0x64"}},
		}},
	})
	require.Equal(t, http.StatusOK, status, string(res))

	var receipt transactions.Receipt
	require.NoError(t, json.Unmarshal(res, &receipt))
	require.False(t, receipt.Reverted, receipt.Reason)
	require.Len(t, receipt.Outputs[0].Transfers, 1)
	assert.Equal(t, "100", receipt.Outputs[0].Transfers[0].Amount)
	assert.Equal(t, accounts[1], receipt.Outputs[0].Transfers[0].Recipient)
}

func TestSendTransactionRejected(t *testing.T) {
	ts := initServer(t)
	accounts := genesis.DevAccounts()
	owner := accounts[0]

	status, _ := post(t, ts.URL+"/transactions", &transactions.SendTransaction{Origin: owner})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = post(t, ts.URL+"/transactions", &transactions.SendTransaction{
		Origin:  owner,
		Clauses: []transactions.Clause{{To: &ledger, Data: "zz"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = post(t, ts.URL+"/transactions", &transactions.SendTransaction{
		Origin:  owner,
		Clauses: []transactions.Clause{{To: &ledger, Funds: []transactions.Coin{{Denom: "umtr", Amount: "-1"}}}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	for _, origin := range []meter.Address{meter.AuctionModuleAddr, ledger, meter.ZeroAddress} {
		status, _ = post(t, ts.URL+"/transactions", &transactions.SendTransaction{
			Origin:  origin,
			Clauses: []transactions.Clause{{To: &accounts[0], Funds: []transactions.Coin{{Denom: genesis.DevDenom, Amount: "1"}}}},
		})
		assert.Equal(t, http.StatusBadRequest, status, origin.String())
	}

	status, _ = post(t, ts.URL+"/transactions", map[string]string{"unknown": "field"})
	assert.Equal(t, http.StatusBadRequest, status)
}
