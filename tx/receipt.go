// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Attribute is one key/value pair of an event.
type Attribute struct {
	Key   string
	Value string
}

// Event an event emitted by a script module.
type Event struct {
	// address of the module that emitted the event
	Address    meter.Address
	Kind       string
	Attributes []Attribute
}

// Attribute returns the first value under key.
func (e *Event) Attribute(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Event) String() string {
	attrs := make([]string, 0, len(e.Attributes))
	for _, a := range e.Attributes {
		attrs = append(attrs, a.Key+"="+a.Value)
	}
	return fmt.Sprintf("Event(%v %v [%v])", e.Address, e.Kind, strings.Join(attrs, " "))
}

// Events slisce of event logs.
type Events []*Event

// Transfer token transfer log.
type Transfer struct {
	Sender    meter.Address
	Recipient meter.Address
	Denom     string
	Amount    *big.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer

// Output output of clause execution.
type Output struct {
	// events produced by the clause
	Events Events
	// transfer occurred in clause
	Transfers Transfers
}

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID    meter.Bytes32
	Origin  meter.Address
	GasUsed uint64
	// if the tx reverted
	Reverted bool
	// reason of the revert, error text of the failed clause
	Reason string
	// outputs of clauses in tx
	Outputs []*Output
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes hash of the rlp encoded receipts.
func (rs Receipts) RootHash() meter.Bytes32 {
	hw := meter.NewBlake2b()
	for _, r := range rs {
		rlp.Encode(hw, r)
	}
	var h meter.Bytes32
	hw.Sum(h[:0])
	return h
}
