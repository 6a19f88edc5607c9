// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/engine"
	"github.com/fetch-ld/ldengine/pubsub"
)

// allActions keys connections that subscribed without a filter.
const allActions = ""

var _ engine.Listener = (*WebSocketServer)(nil)

// SubscribeRequest is sent by a client to receive results for [Actions].
// An empty list subscribes to every action.
type SubscribeRequest struct {
	Actions []string `json:"actions"`
}

// Message is sent by the server. Exactly one field is set.
type Message struct {
	Subscribed []string `json:"subscribed,omitempty"`
	Result     *Result  `json:"result,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// WebSocketServer streams committed actions to subscribed connections.
type WebSocketServer struct {
	log logging.Logger
	s   *pubsub.Server

	l    sync.Mutex
	subs map[string]*pubsub.Connections
}

func NewWebSocketServer(log logging.Logger, config pubsub.ServerConfig) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{
		log:  log,
		subs: map[string]*pubsub.Connections{},
	}
	w.s = pubsub.New(log, config, w.subscribe)
	return w, w.s
}

func (w *WebSocketServer) subscribe(msg []byte, c *pubsub.Connection) {
	var req SubscribeRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		w.log.Debug("unable to parse subscription", zap.Error(err))
		w.reply(c, &Message{Error: err.Error()})
		return
	}
	keys := req.Actions
	if len(keys) == 0 {
		keys = []string{allActions}
	}
	for _, name := range keys {
		if name != allActions && !actions.Registered(name) {
			w.reply(c, &Message{Error: actions.ErrUnknownAction.Error() + ": " + name})
			return
		}
	}

	w.l.Lock()
	for _, name := range keys {
		conns, ok := w.subs[name]
		if !ok {
			conns = pubsub.NewConnections()
			w.subs[name] = conns
		}
		conns.Add(c)
	}
	w.l.Unlock()

	w.reply(c, &Message{Subscribed: req.Actions})
}

func (w *WebSocketServer) reply(c *pubsub.Connection, m *Message) {
	b, err := json.Marshal(m)
	if err != nil {
		w.log.Error("unable to marshal message", zap.Error(err))
		return
	}
	c.Send(b)
}

// Accepted publishes [r] to connections subscribed to its action.
func (w *WebSocketServer) Accepted(_ context.Context, r *engine.Result) {
	result, err := newResult(r)
	if err != nil {
		w.log.Error("unable to encode result",
			zap.String("action", r.Action),
			zap.Error(err),
		)
		return
	}
	b, err := json.Marshal(&Message{Result: result})
	if err != nil {
		w.log.Error("unable to marshal message", zap.Error(err))
		return
	}

	w.l.Lock()
	defer w.l.Unlock()

	// A connection subscribed to both lists only receives the message once.
	to := pubsub.NewConnections()
	for _, name := range []string{allActions, r.Action} {
		conns, ok := w.subs[name]
		if !ok {
			continue
		}
		to.Add(conns.Conns()...)
	}
	inactive := w.s.Publish(b, to)
	for _, c := range inactive {
		for name, conns := range w.subs {
			if conns.Remove(c) {
				delete(w.subs, name)
			}
		}
	}
}
