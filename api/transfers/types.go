// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
)

type FilteredTransfer struct {
	Sender    meter.Address        `json:"sender"`
	Recipient meter.Address        `json:"recipient"`
	Denom     string               `json:"denom"`
	Amount    string               `json:"amount"`
	Meta      transactions.LogMeta `json:"meta"`
}

func convertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	coin := transactions.ConvertCoin(meter.Coin{Denom: transfer.Denom, Amount: transfer.Amount})
	return &FilteredTransfer{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Denom:     coin.Denom,
		Amount:    coin.Amount,
		Meta: transactions.LogMeta{
			BlockID:        transfer.BlockID,
			BlockNumber:    transfer.BlockNumber,
			BlockTimestamp: transfer.BlockTime,
			TxID:           transfer.TxID,
			TxOrigin:       transfer.TxOrigin,
		},
	}
}

type TransferCriteria struct {
	TxOrigin  *meter.Address `json:"txOrigin"`
	Sender    *meter.Address `json:"sender"`
	Recipient *meter.Address `json:"recipient"`
	Denom     string         `json:"denom"`
}

type TransferFilter struct {
	TxID        *meter.Bytes32      `json:"txID"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *events.Range       `json:"range"`
	Options     *events.Options     `json:"options"`
	Order       logdb.Order         `json:"order"`
}

func convertTransferFilter(f *TransferFilter) *logdb.TransferFilter {
	cs := make([]*logdb.TransferCriteria, 0, len(f.CriteriaSet))
	for _, c := range f.CriteriaSet {
		cs = append(cs, &logdb.TransferCriteria{
			TxOrigin:  c.TxOrigin,
			Sender:    c.Sender,
			Recipient: c.Recipient,
			Denom:     c.Denom,
		})
	}
	return &logdb.TransferFilter{
		TxID:        f.TxID,
		CriteriaSet: cs,
		Range:       events.ConvertRange(f.Range),
		Options:     events.ConvertOptions(f.Options),
		Order:       f.Order,
	}
}
