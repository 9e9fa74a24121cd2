// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineAddr = meter.BytesToAddress([]byte("engine"))

func TestEvents(t *testing.T) {
	ts := initEventServer(t)
	defer ts.Close()

	limit := 5
	filter := &events.EventFilter{
		Range:   &events.Range{From: 0, To: 10},
		Options: &events.Options{Offset: 0, Limit: uint64(limit)},
		CriteriaSet: []*events.EventCriteria{
			{Address: &engineAddr, Kind: "auction"},
		},
	}
	status, res := httpPost(t, ts.URL+"/logs/event", filter)
	require.Equal(t, http.StatusOK, status, string(res))
	var logs []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(res, &logs))
	assert.Equal(t, limit, len(logs), "should be `limit` logs")
	assert.Equal(t, "auction", logs[0].Kind)
	assert.Equal(t, uint32(1), logs[0].Meta.BlockNumber)
}

func TestEventsByAttribute(t *testing.T) {
	ts := initEventServer(t)
	defer ts.Close()

	filter := &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{
			{Kind: "auction", Attributes: []transactions.Attribute{{Key: "listing", Value: "7"}}},
			{Kind: "auction", Attributes: []transactions.Attribute{{Key: "listing", Value: "42"}}},
		},
		Order: logdb.DESC,
	}
	status, res := httpPost(t, ts.URL+"/logs/event", filter)
	require.Equal(t, http.StatusOK, status, string(res))
	var logs []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(res, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, uint32(43), logs[0].Meta.BlockNumber)
	assert.Equal(t, []transactions.Attribute{{Key: "action", Value: "list"}, {Key: "listing", Value: "42"}}, logs[0].Attributes)
}

func TestEventsBadFilter(t *testing.T) {
	ts := initEventServer(t)
	defer ts.Close()

	status, _ := httpPost(t, ts.URL+"/logs/event", &events.EventFilter{Order: "sideways"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func initEventServer(t *testing.T) *httptest.Server {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	header := new(block.Builder).Build().Header()
	for i := 0; i < 100; i++ {
		txEv := &tx.Event{
			Address: engineAddr,
			Kind:    "auction",
			Attributes: []tx.Attribute{
				{Key: "action", Value: "list"},
				{Key: "listing", Value: strconv.Itoa(i)},
			},
		}
		require.NoError(t, db.Prepare(header).
			ForTransaction(meter.BytesToBytes32([]byte("txID")), meter.BytesToAddress([]byte("txOrigin"))).
			Insert(tx.Events{txEv}, nil).Commit())
		header = new(block.Builder).ParentID(header.ID()).Build().Header()
	}

	router := mux.NewRouter()
	events.New(db).Mount(router, "/logs/event")
	return httptest.NewServer(router)
}

func httpPost(t *testing.T, url string, obj interface{}) (int, []byte) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, r
}
