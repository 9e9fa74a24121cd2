// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// Coin is the json form of meter.Coin. Amount is rendered in decimal and parsed with any Go integer prefix.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

func ConvertCoin(c meter.Coin) Coin {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return Coin{Denom: c.Denom, Amount: amount}
}

// Coin parses the amount, accepting decimal or 0x prefixed hex.
func (c Coin) Coin() (meter.Coin, error) {
	amount, ok := new(big.Int).SetString(c.Amount, 0)
	if !ok {
		return meter.Coin{}, fmt.Errorf("invalid amount %q", c.Amount)
	}
	coin := meter.Coin{Denom: c.Denom, Amount: amount}
	if !coin.IsValid() {
		return meter.Coin{}, fmt.Errorf("invalid coin %v", coin)
	}
	return coin, nil
}

// Clause for json marshal. A nil To instantiates a module.
type Clause struct {
	To    *meter.Address `json:"to"`
	Funds []Coin         `json:"funds"`
	Data  string         `json:"data"`
}

func (c *Clause) clause() (*tx.Clause, error) {
	funds := make([]meter.Coin, 0, len(c.Funds))
	for _, f := range c.Funds {
		coin, err := f.Coin()
		if err != nil {
			return nil, err
		}
		funds = append(funds, coin)
	}
	var data []byte
	if c.Data != "" {
		var err error
		if data, err = hexutil.Decode(c.Data); err != nil {
			return nil, errors.WithMessage(err, "data")
		}
	}
	return tx.NewClause(c.To).WithFunds(funds...).WithData(data), nil
}

// SendTransaction is the body of a dev mode submission. It is packed
// immediately without signature checks.
type SendTransaction struct {
	Origin  meter.Address `json:"origin"`
	Nonce   uint64        `json:"nonce"`
	Clauses []Clause      `json:"clauses"`
}

func (s *SendTransaction) transaction() (*tx.Transaction, error) {
	b := new(tx.Builder).Origin(s.Origin).Nonce(s.Nonce)
	for i := range s.Clauses {
		c, err := s.Clauses[i].clause()
		if err != nil {
			return nil, errors.WithMessagef(err, "clause #%d", i)
		}
		b.Clause(c)
	}
	return b.Build(), nil
}

// LogMeta is the block and tx a log belongs to.
type LogMeta struct {
	BlockID        meter.Bytes32 `json:"blockID"`
	BlockNumber    uint32        `json:"blockNumber"`
	BlockTimestamp uint64        `json:"blockTimestamp"`
	TxID           meter.Bytes32 `json:"txID"`
	TxOrigin       meter.Address `json:"txOrigin"`
}

type ReceiptMeta struct {
	BlockID        meter.Bytes32 `json:"blockID"`
	BlockNumber    uint32        `json:"blockNumber"`
	BlockTimestamp uint64        `json:"blockTimestamp"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event event.
type Event struct {
	Address    meter.Address `json:"address"`
	Kind       string        `json:"kind"`
	Attributes []Attribute   `json:"attributes"`
}

// Transfer transfer.
type Transfer struct {
	Sender    meter.Address `json:"sender"`
	Recipient meter.Address `json:"recipient"`
	Coin
}

// Output of a clause.
type Output struct {
	Events    []*Event    `json:"events"`
	Transfers []*Transfer `json:"transfers"`
}

// Receipt for json marshal.
type Receipt struct {
	TxID     meter.Bytes32 `json:"txID"`
	Origin   meter.Address `json:"origin"`
	GasUsed  uint64        `json:"gasUsed"`
	Reverted bool          `json:"reverted"`
	Reason   string        `json:"reason,omitempty"`
	Meta     ReceiptMeta   `json:"meta"`
	Outputs  []*Output     `json:"outputs"`
}

func ConvertAttributes(attrs []tx.Attribute) []Attribute {
	result := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		result = append(result, Attribute{Key: a.Key, Value: a.Value})
	}
	return result
}

// ConvertReceipt convert a raw receipt into a json format receipt.
func ConvertReceipt(receipt *tx.Receipt, header *block.Header) *Receipt {
	r := &Receipt{
		TxID:     receipt.TxID,
		Origin:   receipt.Origin,
		GasUsed:  receipt.GasUsed,
		Reverted: receipt.Reverted,
		Reason:   receipt.Reason,
		Meta: ReceiptMeta{
			BlockID:        header.ID(),
			BlockNumber:    header.Number(),
			BlockTimestamp: header.Timestamp(),
		},
		Outputs: make([]*Output, 0, len(receipt.Outputs)),
	}
	for _, output := range receipt.Outputs {
		otp := &Output{
			Events:    make([]*Event, 0, len(output.Events)),
			Transfers: make([]*Transfer, 0, len(output.Transfers)),
		}
		for _, e := range output.Events {
			otp.Events = append(otp.Events, &Event{
				Address:    e.Address,
				Kind:       e.Kind,
				Attributes: ConvertAttributes(e.Attributes),
			})
		}
		for _, t := range output.Transfers {
			otp.Transfers = append(otp.Transfers, &Transfer{
				Sender:    t.Sender,
				Recipient: t.Recipient,
				Coin:      ConvertCoin(meter.Coin{Denom: t.Denom, Amount: t.Amount}),
			})
		}
		r.Outputs = append(r.Outputs, otp)
	}
	return r
}
