// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Transaction is an immutable tx type.
// Authentication is left to the host, the origin is carried in clear.
type Transaction struct {
	body body

	cache struct {
		id atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	Origin  meter.Address
	Clauses []*Clause
	Nonce   uint64
}

// ID returns id of tx.
// ID = hash(rlp(body)).
func (t *Transaction) ID() (id meter.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	hw := meter.NewBlake2b()
	rlp.Encode(hw, &t.body)
	hw.Sum(id[:0])
	return
}

// Origin returns the address the tx is executed on behalf of.
func (t *Transaction) Origin() meter.Address {
	return t.body.Origin
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Clauses returns caluses in tx.
func (t *Transaction) Clauses() []*Clause {
	return append([]*Clause(nil), t.body.Clauses...)
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`
	Tx(%v)
	Origin:		%v
	Clauses:	%v
	Nonce:		%v`, t.ID(), t.body.Origin, t.body.Clauses, t.body.Nonce)
}

// Transactions a slice of transactions.
type Transactions []*Transaction

// RootHash computes hash of the ordered tx ids.
func (txs Transactions) RootHash() meter.Bytes32 {
	hw := meter.NewBlake2b()
	for _, t := range txs {
		id := t.ID()
		hw.Write(id[:])
	}
	var h meter.Bytes32
	hw.Sum(h[:0])
	return h
}

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// Origin set origin.
func (b *Builder) Origin(addr meter.Address) *Builder {
	b.body.Origin = addr
	return b
}

// Clause add a clause.
func (b *Builder) Clause(c *Clause) *Builder {
	b.body.Clauses = append(b.body.Clauses, c)
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	return &tx
}
