// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/meterio/meter-auction/kv"
)

const storageCacheSize = 4096

// Creator state creator to cut-off kv dependency.
type Creator struct {
	kv    kv.Store
	cache *lru.Cache
}

// NewCreator create a new state creator.
func NewCreator(kv kv.Store) *Creator {
	cache, err := lru.New(storageCacheSize)
	if err != nil {
		// only fails on non-positive size
		panic(err)
	}
	return &Creator{kv, cache}
}

// NewState create a new state object.
func (c *Creator) NewState() *State {
	return New(c.kv, c.cache)
}
