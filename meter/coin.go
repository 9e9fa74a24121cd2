// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
	"math/big"
	"strings"
)

// Coin is an amount of one native denomination.
type Coin struct {
	Denom  string
	Amount *big.Int
}

func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: big.NewInt(amount)}
}

func (c Coin) String() string {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return amount + c.Denom
}

// IsValid reports whether the coin has a denomination and a non-negative amount.
func (c Coin) IsValid() bool {
	return strings.TrimSpace(c.Denom) != "" && c.Amount != nil && c.Amount.Sign() >= 0
}

// Coins is a list of coins attached to a clause or a bank send.
type Coins []Coin

func (cs Coins) String() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ","))
}
