// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"

	"github.com/meterio/meter-auction/meter"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

func (ctx *BlockContext) String() string {
	return fmt.Sprintf("blockCtx{Number:%d Time:%d}", ctx.Number, ctx.Time)
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID          meter.Bytes32
	Origin      meter.Address
	Nonce       uint64
	ClauseIndex uint32
}

func (ctx *TransactionContext) String() string {
	return fmt.Sprintf("txCtx{ID:%s Origin:%s Nonce:%d Clause:%d}", ctx.ID.String(), ctx.Origin.String(), ctx.Nonce, ctx.ClauseIndex)
}
