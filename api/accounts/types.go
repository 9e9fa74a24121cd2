// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import "github.com/meterio/meter-auction/meter"

// Balance of one denomination.
type Balance struct {
	Address meter.Address `json:"address"`
	Denom   string        `json:"denom"`
	Amount  string        `json:"amount"`
}

// Account is the binding of an address. ModuleID is zero for a plain account.
type Account struct {
	Address  meter.Address `json:"address"`
	ModuleID uint32        `json:"moduleID"`
}
