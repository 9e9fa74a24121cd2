// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/solo"
	"github.com/pkg/errors"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

var log = slog.Default().With("api", "subs")

type Subscriptions struct {
	solo     *solo.Solo
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(solo *solo.Solo, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		solo: solo,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// handleReceiptSubscription streams every committed receipt, optionally
// only those of one tx origin.
func (s *Subscriptions) handleReceiptSubscription(w http.ResponseWriter, req *http.Request) error {
	var origin *meter.Address
	if o := req.URL.Query().Get("origin"); o != "" {
		addr, err := meter.ParseAddress(o)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "origin"))
		}
		origin = &addr
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already replied
		log.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := s.pipe(conn, origin); err != nil {
		log.Debug("subscription closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, origin *meter.Address) error {
	ch := make(chan *solo.ReceiptEvent, 16)
	sub := s.solo.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev := <-ch:
			if origin != nil && ev.Receipt.Origin != *origin {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(transactions.ConvertReceipt(ev.Receipt, ev.Header)); err != nil {
				return err
			}
		case err := <-sub.Err():
			return err
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		}
	}
}

// Close ends every open subscription and waits for the handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(s.handleReceiptSubscription))
}
