// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the yaml genesis file.
//
//	name: devnet
//	timestamp: 1526400000
//	biddingWindow: 50
//	custody:
//	  name: Meter Collectibles
//	  symbol: MNFT
//	accounts:
//	  - address: "0x0205c2d862ca051010698b69b54278cbaf945c0b"
//	    balances:
//	      umtr: "1000000000"
type Config struct {
	Name          string          `yaml:"name"`
	Timestamp     uint64          `yaml:"timestamp"`
	BiddingWindow uint64          `yaml:"biddingWindow"`
	Custody       *CustodyConfig  `yaml:"custody"`
	Accounts      []AccountConfig `yaml:"accounts"`
}

// CustodyConfig requests a companion custody ledger at bootstrap.
type CustodyConfig struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

type AccountConfig struct {
	Address  string            `yaml:"address"`
	Balances map[string]string `yaml:"balances"` // denom -> decimal or 0x hex amount
}

// LoadConfig reads a yaml genesis file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse genesis file")
	}
	if cfg.BiddingWindow == 0 || cfg.BiddingWindow > auction.MaxBiddingWindow {
		return nil, errors.Errorf("biddingWindow must be in [1, %d]", auction.MaxBiddingWindow)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = "custom"
	}
	return &cfg, nil
}

type allocation struct {
	addr    meter.Address
	denom   string
	balance *big.Int
}

func (c *Config) allocations() ([]allocation, error) {
	var allocs []allocation
	for _, acc := range c.Accounts {
		addr, err := meter.ParseAddress(acc.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "account %q", acc.Address)
		}
		for denom, amount := range acc.Balances {
			bal, ok := new(big.Int).SetString(amount, 0)
			if !ok || bal.Sign() < 0 {
				return nil, errors.Errorf("account %v: invalid %v balance %q", addr, denom, amount)
			}
			allocs = append(allocs, allocation{addr, denom, bal})
		}
	}
	// map iteration order must not leak into the state
	sort.Slice(allocs, func(i, j int) bool {
		if allocs[i].addr != allocs[j].addr {
			return strings.Compare(allocs[i].addr.String(), allocs[j].addr.String()) < 0
		}
		return allocs[i].denom < allocs[j].denom
	})
	return allocs, nil
}

// NewGenesis creates the genesis described by cfg. The auction engine is bound
// at its well-known address and bootstrapped from the zero origin.
func NewGenesis(cfg *Config) (*Genesis, error) {
	allocs, err := cfg.allocations()
	if err != nil {
		return nil, err
	}

	var custody *auction.CustodyRequest
	if cfg.Custody != nil {
		custody = &auction.CustodyRequest{
			CodeID: setypes.CUSTODY_MODULE_ID,
			Name:   cfg.Custody.Name,
			Symbol: cfg.Custody.Symbol,
		}
	}
	data, err := auction.NewBootstrapBody(cfg.BiddingWindow, custody).Encode()
	if err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(cfg.Timestamp).
		State(func(state *state.State) error {
			state.SetModuleID(meter.AuctionModuleAddr, setypes.AUCTION_MODULE_ID)
			for _, a := range allocs {
				state.SetBalance(a.addr, a.denom, a.balance)
			}
			return nil
		}).
		Call(tx.NewClause(&meter.AuctionModuleAddr).WithData(data), meter.ZeroAddress)

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, cfg.Name}, nil
}
