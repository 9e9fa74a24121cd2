// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Clause is the basic execution unit of a transaction.
type Clause struct {
	body clauseBody
}

type clauseBody struct {
	To    *meter.Address `rlp:"nil"`
	Funds []meter.Coin
	Data  []byte
}

// NewClause create a new clause instance.
func NewClause(to *meter.Address) *Clause {
	if to != nil {
		// make a copy of 'to'
		cpy := *to
		to = &cpy
	}
	return &Clause{
		clauseBody{
			To:    to,
			Funds: nil,
			Data:  nil,
		},
	}
}

// WithFunds attaches coins to the clause. A copy of clause returned.
func (c *Clause) WithFunds(funds ...meter.Coin) *Clause {
	newClause := *c
	newClause.body.Funds = append([]meter.Coin(nil), funds...)
	return &newClause
}

// WithData create a new clause with data set. A copy of clause returned.
func (c *Clause) WithData(data []byte) *Clause {
	newClause := *c
	newClause.body.Data = append([]byte(nil), data...)
	return &newClause
}

// To returns 'To' address.
func (c *Clause) To() *meter.Address {
	if c.body.To == nil {
		return nil
	}
	cpy := *c.body.To
	return &cpy
}

// Funds returns attached coins.
func (c *Clause) Funds() []meter.Coin {
	return append([]meter.Coin(nil), c.body.Funds...)
}

// Data returns 'Data'.
func (c *Clause) Data() []byte {
	return append([]byte(nil), c.body.Data...)
}

// IsCreatingContract return if this clause is going to create a contract.
func (c *Clause) IsCreatingContract() bool {
	return c.body.To == nil
}

// EncodeRLP implements rlp.Encoder
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Clause{body}
	return nil
}

func (c *Clause) String() string {
	var to string
	if c.body.To == nil {
		to = "nil"
	} else {
		to = c.body.To.String()
	}
	return fmt.Sprintf(`
		(To:	%v
		 Funds:	%v
		 Data:	0x%x)`, to, meter.Coins(c.body.Funds), c.body.Data)
}
