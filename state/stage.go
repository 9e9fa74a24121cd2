// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"log/slog"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
)

var log = slog.Default().With("pkg", "state")

// Stage abstracts changes on the storage.
type Stage struct {
	err error

	kv      kv.Store
	cache   *lru.Cache
	keys    []storageKey
	changes map[storageKey]rlp.RawValue
}

func newStage(kv kv.Store, cache *lru.Cache, changes map[storageKey]rlp.RawValue) *Stage {
	keys := make([]storageKey, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].dbKey(), keys[j].dbKey()) < 0
	})
	return &Stage{
		kv:      kv,
		cache:   cache,
		keys:    keys,
		changes: changes,
	}
}

// Len returns count of changed keys.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Hash computes hash of the changes in key order.
func (s *Stage) Hash() (meter.Bytes32, error) {
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	hw := meter.NewBlake2b()
	for _, k := range s.keys {
		hw.Write(k.dbKey())
		rlp.Encode(hw, []byte(s.changes[k]))
	}
	var h meter.Bytes32
	hw.Sum(h[:0])
	return h, nil
}

// Commit writes all changes into the kv store.
func (s *Stage) Commit() error {
	if s.err != nil {
		return s.err
	}
	start := time.Now()
	batch := s.kv.NewBatch()
	for _, k := range s.keys {
		v := s.changes[k]
		if len(v) == 0 {
			if err := batch.Delete(k.dbKey()); err != nil {
				return err
			}
		} else if err := batch.Put(k.dbKey(), v); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	if s.cache != nil {
		for _, k := range s.keys {
			s.cache.Add(k, s.changes[k])
		}
	}
	log.Debug("committed stage", "keys", len(s.keys), "elapsed", time.Since(start))
	return nil
}
