// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/blocks"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/solo"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestBlock(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	s, err := solo.New(state.NewCreator(db), script.NewScriptEngine(), nil, genesis.NewDevnet())
	require.NoError(t, err)
	defer s.Close()

	router := mux.NewRouter()
	blocks.New(s).Mount(router, "/blocks")
	ts := httptest.NewServer(router)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/blocks/best")
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))

	var summary blocks.JSONBlockSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, uint32(0), summary.Number)
	assert.Equal(t, s.GenesisID(), summary.ID)

	res2, err := http.Get(ts.URL + "/blocks/genesis")
	require.NoError(t, err)
	defer res2.Body.Close()
	var genesisID map[string]meter.Bytes32
	require.NoError(t, json.NewDecoder(res2.Body).Decode(&genesisID))
	assert.Equal(t, s.GenesisID(), genesisID["id"])
}
