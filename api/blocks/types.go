// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
)

type JSONBlockSummary struct {
	Number       uint32        `json:"number"`
	ID           meter.Bytes32 `json:"id"`
	ParentID     meter.Bytes32 `json:"parentID"`
	Timestamp    uint64        `json:"timestamp"`
	GasUsed      uint64        `json:"gasUsed"`
	TxsRoot      meter.Bytes32 `json:"txsRoot"`
	StateRoot    meter.Bytes32 `json:"stateRoot"`
	ReceiptsRoot meter.Bytes32 `json:"receiptsRoot"`
}

func convertBlockSummary(h *block.Header) *JSONBlockSummary {
	return &JSONBlockSummary{
		Number:       h.Number(),
		ID:           h.ID(),
		ParentID:     h.ParentID(),
		Timestamp:    h.Timestamp(),
		GasUsed:      h.GasUsed(),
		TxsRoot:      h.TxsRoot(),
		StateRoot:    h.StateRoot(),
		ReceiptsRoot: h.ReceiptsRoot(),
	}
}
