// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// FilteredEvent only comes from one module instance
type FilteredEvent struct {
	Address    meter.Address            `json:"address"`
	Kind       string                   `json:"kind"`
	Attributes []transactions.Attribute `json:"attributes"`
	Meta       transactions.LogMeta     `json:"meta"`
}

// convert a logdb.Event into a json format Event
func convertEvent(event *logdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Address:    event.Address,
		Kind:       event.Kind,
		Attributes: transactions.ConvertAttributes(event.Attributes),
		Meta: transactions.LogMeta{
			BlockID:        event.BlockID,
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.BlockTime,
			TxID:           event.TxID,
			TxOrigin:       event.TxOrigin,
		},
	}
}

type EventCriteria struct {
	Address    *meter.Address           `json:"address"`
	Kind       string                   `json:"kind"`
	Attributes []transactions.Attribute `json:"attributes"`
}

type Range struct {
	Unit logdb.RangeType `json:"unit"`
	From uint64          `json:"from"`
	To   uint64          `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func ConvertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	return &logdb.Range{Unit: r.Unit, From: r.From, To: r.To}
}

func ConvertOptions(o *Options) *logdb.Options {
	if o == nil {
		return nil
	}
	return &logdb.Options{Offset: o.Offset, Limit: o.Limit}
}

func convertEventFilter(f *EventFilter) *logdb.EventFilter {
	cs := make([]*logdb.EventCriteria, 0, len(f.CriteriaSet))
	for _, c := range f.CriteriaSet {
		attrs := make([]tx.Attribute, 0, len(c.Attributes))
		for _, a := range c.Attributes {
			attrs = append(attrs, tx.Attribute{Key: a.Key, Value: a.Value})
		}
		cs = append(cs, &logdb.EventCriteria{
			Address:    c.Address,
			Kind:       c.Kind,
			Attributes: attrs,
		})
	}
	return &logdb.EventFilter{
		CriteriaSet: cs,
		Range:       ConvertRange(f.Range),
		Options:     ConvertOptions(f.Options),
		Order:       f.Order,
	}
}
