// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"log/slog"

	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
)

var log = slog.Default().With("pkg", "genesis")

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	id      meter.Bytes32
	name    string
}

// Build build the genesis block and commits its state.
func (g *Genesis) Build(stateCreator *state.Creator, se *script.ScriptEngine) (*block.Block, tx.Receipts, error) {
	blk, receipts, err := g.builder.Build(stateCreator, se)
	if err != nil {
		return nil, nil, err
	}
	if blk.Header().ID() != g.id {
		panic("built genesis ID incorrect")
	}
	return blk, receipts, nil
}

// ID returns genesis block ID.
func (g *Genesis) ID() meter.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}
