// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/stackedmap"
)

var storagePrefix = []byte("s")

// State manages per-address storage of the ledger.
// Balances and module bindings are storage values under well-known keys.
type State struct {
	kv       kv.Store
	cache    *lru.Cache // committed values, shared by states of one creator
	sm       *stackedmap.StackedMap
	err      error
	setError func(err error)
}

// New create an state object.
// cache may be nil.
func New(kv kv.Store, cache *lru.Cache) *State {
	state := State{
		kv:    kv,
		cache: cache,
	}
	state.setError = func(err error) {
		if state.err == nil {
			state.err = err
		}
	}
	state.sm = stackedmap.New(func(key interface{}) (value interface{}, exist bool) {
		return state.cacheGetter(key)
	})
	return &state
}

// implements stackedmap.MapGetter
func (s *State) cacheGetter(key interface{}) (value interface{}, exist bool) {
	switch k := key.(type) {
	case storageKey:
		return s.loadStorage(k), true
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) loadStorage(key storageKey) rlp.RawValue {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(rlp.RawValue)
		}
	}
	raw, err := s.kv.Get(key.dbKey())
	if err != nil {
		if !s.kv.IsNotFound(err) {
			s.setError(err)
			return rlp.RawValue(nil)
		}
		raw = nil
	}
	if s.cache != nil {
		s.cache.Add(key, rlp.RawValue(raw))
	}
	return rlp.RawValue(raw)
}

// build changes via journal of stackedMap, the last write of a key wins.
func (s *State) changes() map[storageKey]rlp.RawValue {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v interface{}) bool {
		if key, ok := k.(storageKey); ok {
			changes[key] = v.(rlp.RawValue)
		}
		return s.err == nil
	})
	return changes
}

// Err returns first occurred error.
func (s *State) Err() error {
	return s.err
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr meter.Address, key meter.Bytes32) rlp.RawValue {
	data, _ := s.sm.Get(storageKey{addr, key})
	return data.(rlp.RawValue)
}

// SetRawStorage set storage value in rlp raw.
// An empty value deletes the key on commit.
func (s *State) SetRawStorage(addr meter.Address, key meter.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr meter.Address, key meter.Bytes32, enc func() ([]byte, error)) {
	raw, err := enc()
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, raw)
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr meter.Address, key meter.Bytes32, dec func([]byte) error) {
	raw := s.GetRawStorage(addr, key)
	if err := dec(raw); err != nil {
		s.setError(err)
	}
}

// GetBalance returns balance of denom for the given address.
func (s *State) GetBalance(addr meter.Address, denom string) *big.Int {
	balance := new(big.Int)
	s.DecodeStorage(addr, meter.BalanceKey(denom), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, balance)
	})
	return balance
}

// SetBalance set balance of denom for the given address.
func (s *State) SetBalance(addr meter.Address, denom string, balance *big.Int) {
	if balance == nil || balance.Sign() == 0 {
		s.SetRawStorage(addr, meter.BalanceKey(denom), nil)
		return
	}
	s.EncodeStorage(addr, meter.BalanceKey(denom), func() ([]byte, error) {
		return rlp.EncodeToBytes(balance)
	})
}

// AddBalance stub.
func (s *State) AddBalance(addr meter.Address, denom string, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	balance := s.GetBalance(addr, denom)
	s.SetBalance(addr, denom, new(big.Int).Add(balance, amount))
}

// SubBalance stub.
func (s *State) SubBalance(addr meter.Address, denom string, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}
	balance := s.GetBalance(addr, denom)
	if balance.Cmp(amount) < 0 {
		return false
	}
	s.SetBalance(addr, denom, new(big.Int).Sub(balance, amount))
	return true
}

// GetModuleID returns the script module bound to addr, 0 if none.
func (s *State) GetModuleID(addr meter.Address) (modID uint32) {
	s.DecodeStorage(addr, meter.KeyModuleID, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &modID)
	})
	return
}

// SetModuleID binds a script module to addr.
func (s *State) SetModuleID(addr meter.Address, modID uint32) {
	s.EncodeStorage(addr, meter.KeyModuleID, func() ([]byte, error) {
		return rlp.EncodeToBytes(modID)
	})
}

// NextInstanceSequence returns and bumps the instance sequence of creator.
func (s *State) NextInstanceSequence(creator meter.Address) (seq uint64) {
	s.DecodeStorage(creator, meter.KeyInstanceSequence, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &seq)
	})
	s.EncodeStorage(creator, meter.KeyInstanceSequence, func() ([]byte, error) {
		return rlp.EncodeToBytes(seq + 1)
	})
	return
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to compute hash of changes or commit them.
func (s *State) Stage() *Stage {
	if s.err != nil {
		return &Stage{err: s.err}
	}
	changes := s.changes()
	if s.err != nil {
		return &Stage{err: s.err}
	}
	return newStage(s.kv, s.cache, changes)
}

type storageKey struct {
	addr meter.Address
	key  meter.Bytes32
}

func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, len(storagePrefix)+meter.AddressLength+32)
	b = append(b, storagePrefix...)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}
