// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/meterio/meter-auction/meter"
)

const DevDenom = "umtr"

var devAddresses = []string{
	"0x0205c2D862cA051010698b69b54278cbAf945C0b",
	"0x8A88c59bF15451F9Deb1d62f7734FeCe2002668E",
	"0x1de8ca2f973d026300af89041b0ecb1c0803a7e6",
	"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed",
	"0x435933c8064b4ae76be665428e0307ef2ccfbd68",
}

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []meter.Address {
	accs := make([]meter.Address, 0, len(devAddresses))
	for _, s := range devAddresses {
		accs = append(accs, meter.MustParseAddress(s))
	}
	return accs
}

// DevConfig is the genesis config of solo mode.
func DevConfig() *Config {
	cfg := &Config{
		Name:          "devnet",
		Timestamp:     1526400000, // 'Wed May 16 2018 00:00:00 GMT+0800 (CST)'
		BiddingWindow: 50,
		Custody:       &CustodyConfig{Name: "Meter Collectibles", Symbol: "MNFT"},
	}
	for _, addr := range DevAccounts() {
		cfg.Accounts = append(cfg.Accounts, AccountConfig{
			Address:  addr.String(),
			Balances: map[string]string{DevDenom: "1000000000000000000000"},
		})
	}
	return cfg
}

// NewDevnet create genesis for solo mode.
func NewDevnet() *Genesis {
	gene, err := NewGenesis(DevConfig())
	if err != nil {
		panic(err)
	}
	gene.name = "devnet"
	return gene
}
