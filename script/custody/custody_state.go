// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

var (
	InfoKey        = meter.Blake2b([]byte("custody-info-key"))
	assetPrefix    = []byte("custody-asset")
	balancePrefix  = []byte("custody-balance")
	operatorPrefix = []byte("custody-operator")
)

// Info is the per-instance ledger record.
type Info struct {
	Name   string
	Symbol string
	Minted *big.Int // also the id of the next minted asset
}

// Asset is one uniquely identified asset.
type Asset struct {
	ID       *big.Int
	Name     string
	URI      string
	Owner    meter.Address
	Approved *meter.Address `rlp:"nil"` // cleared on transfer
}

func (a *Asset) String() string {
	approved := "none"
	if a.Approved != nil {
		approved = a.Approved.String()
	}
	return fmt.Sprintf("Asset(%v %v owner:%v approved:%v)", a.ID, a.Name, a.Owner, approved)
}

func assetKey(id *big.Int) meter.Bytes32 {
	return meter.Blake2b(assetPrefix, meter.BytesToBytes32(id.Bytes()).Bytes())
}

func balanceKey(owner meter.Address) meter.Bytes32 {
	return meter.Blake2b(balancePrefix, owner.Bytes())
}

func operatorKey(owner, operator meter.Address) meter.Bytes32 {
	return meter.Blake2b(operatorPrefix, owner.Bytes(), operator.Bytes())
}

// GetInfo returns nil if addr holds no ledger.
func GetInfo(st *state.State, addr meter.Address) (result *Info) {
	st.DecodeStorage(addr, InfoKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		info := &Info{}
		if err := rlp.DecodeBytes(raw, info); err != nil {
			log.Error("Error during decoding custody info", "err", err)
			return err
		}
		result = info
		return nil
	})
	return
}

func SetInfo(st *state.State, addr meter.Address, info *Info) {
	st.EncodeStorage(addr, InfoKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(info)
	})
}

// GetAsset returns nil if the asset was never minted.
func GetAsset(st *state.State, addr meter.Address, id *big.Int) (result *Asset) {
	st.DecodeStorage(addr, assetKey(id), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		asset := &Asset{}
		if err := rlp.DecodeBytes(raw, asset); err != nil {
			log.Error("Error during decoding asset", "id", id, "err", err)
			return err
		}
		result = asset
		return nil
	})
	return
}

func SetAsset(st *state.State, addr meter.Address, asset *Asset) {
	st.EncodeStorage(addr, assetKey(asset.ID), func() ([]byte, error) {
		return rlp.EncodeToBytes(asset)
	})
}

// GetBalance returns the count of assets held by owner.
func GetBalance(st *state.State, addr, owner meter.Address) (count uint64) {
	st.DecodeStorage(addr, balanceKey(owner), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &count)
	})
	return
}

func setBalance(st *state.State, addr, owner meter.Address, count uint64) {
	if count == 0 {
		st.SetRawStorage(addr, balanceKey(owner), nil)
		return
	}
	st.EncodeStorage(addr, balanceKey(owner), func() ([]byte, error) {
		return rlp.EncodeToBytes(count)
	})
}

// IsOperator reports whether operator may act on every asset of owner.
func IsOperator(st *state.State, addr, owner, operator meter.Address) bool {
	return len(st.GetRawStorage(addr, operatorKey(owner, operator))) > 0
}

func setOperator(st *state.State, addr, owner, operator meter.Address, approved bool) {
	if !approved {
		st.SetRawStorage(addr, operatorKey(owner, operator), nil)
		return
	}
	st.EncodeStorage(addr, operatorKey(owner, operator), func() ([]byte, error) {
		return rlp.EncodeToBytes(uint8(1))
	})
}

// moveAsset changes the owner and clears the approval.
func moveAsset(st *state.State, addr meter.Address, asset *Asset, to meter.Address) {
	from := asset.Owner
	if from != to {
		if n := GetBalance(st, addr, from); n > 0 {
			setBalance(st, addr, from, n-1)
		}
		setBalance(st, addr, to, GetBalance(st, addr, to)+1)
	}
	asset.Owner = to
	asset.Approved = nil
	SetAsset(st, addr, asset)
}
