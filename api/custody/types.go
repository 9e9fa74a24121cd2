// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/custody"
)

type Info struct {
	Address meter.Address `json:"address"`
	Name    string        `json:"name"`
	Symbol  string        `json:"symbol"`
	Minted  string        `json:"minted"`
}

type Asset struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	URI      string         `json:"uri"`
	Owner    meter.Address  `json:"owner"`
	Approved *meter.Address `json:"approved"`
}

type Balance struct {
	Owner meter.Address `json:"owner"`
	Count uint64        `json:"count"`
}

func convertInfo(addr meter.Address, info *custody.Info) *Info {
	return &Info{
		Address: addr,
		Name:    info.Name,
		Symbol:  info.Symbol,
		Minted:  info.Minted.String(),
	}
}

func convertAsset(a *custody.Asset) *Asset {
	return &Asset{
		ID:       a.ID.String(),
		Name:     a.Name,
		URI:      a.URI,
		Owner:    a.Owner,
		Approved: a.Approved,
	}
}
