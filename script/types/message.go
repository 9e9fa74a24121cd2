// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"fmt"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// instantiate event, emitted by the engine for every new instance
const (
	InstantiateEventKind   = "instantiate"
	ContractAddressAttrKey = "_contract_address"
	CodeIDAttrKey          = "code_id"
)

type MessageKind uint32

const (
	MSG_EXECUTE     = MessageKind(1)
	MSG_BANK_SEND   = MessageKind(2)
	MSG_INSTANTIATE = MessageKind(3)
)

func (k MessageKind) String() string {
	switch k {
	case MSG_EXECUTE:
		return "Execute"
	case MSG_BANK_SEND:
		return "BankSend"
	case MSG_INSTANTIATE:
		return "Instantiate"
	default:
		return "Unknown"
	}
}

// Message is an outgoing call emitted by a module.
// The runtime executes it on behalf of the emitting module after the handler returns.
type Message struct {
	Kind  MessageKind
	To    meter.Address
	Funds []meter.Coin
	Data  []byte

	// instantiate only
	CodeID  uint32
	Label   string
	ReplyID uint64
}

func NewExecuteMsg(to meter.Address, data []byte, funds ...meter.Coin) *Message {
	return &Message{Kind: MSG_EXECUTE, To: to, Data: data, Funds: funds}
}

func NewBankSendMsg(to meter.Address, funds ...meter.Coin) *Message {
	return &Message{Kind: MSG_BANK_SEND, To: to, Funds: funds}
}

// NewInstantiateMsg requests a new module instance. The outcome is delivered
// to the emitter as a reply correlated by replyID.
func NewInstantiateMsg(codeID uint32, init []byte, label string, replyID uint64) *Message {
	return &Message{Kind: MSG_INSTANTIATE, CodeID: codeID, Data: init, Label: label, ReplyID: replyID}
}

func (m *Message) String() string {
	switch m.Kind {
	case MSG_INSTANTIATE:
		return fmt.Sprintf("Message(%v code:%v label:%v reply:%v)", m.Kind, m.CodeID, m.Label, m.ReplyID)
	default:
		return fmt.Sprintf("Message(%v to:%v funds:%v)", m.Kind, m.To, meter.Coins(m.Funds))
	}
}

// ReplyOutcome is the result of an instantiate message delivered back to its emitter.
type ReplyOutcome struct {
	Err    string
	Events tx.Events
}

func (o *ReplyOutcome) IsOk() bool {
	return o.Err == ""
}
