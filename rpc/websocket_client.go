// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

var ErrSubscriptionRejected = errors.New("subscription rejected")

// WebSocketClient reads committed actions from a [WebSocketServer]. It is
// not safe for concurrent readers.
type WebSocketClient struct {
	conn *websocket.Conn

	wl sync.Mutex

	// results read while waiting for a subscription reply
	pending []*Result
}

// NewWebSocketClient dials [uri], which may use the http or ws scheme.
func NewWebSocketClient(ctx context.Context, uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http://", "ws://", 1)
	uri = strings.Replace(uri, "https://", "wss://", 1)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, uri+WebSocketEndpoint, nil)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return &WebSocketClient{conn: conn}, nil
}

// Subscribe asks for results of [names], or of every action when empty,
// and waits for the server to confirm.
func (c *WebSocketClient) Subscribe(names ...string) error {
	b, err := json.Marshal(&SubscribeRequest{Actions: names})
	if err != nil {
		return err
	}
	c.wl.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, b)
	c.wl.Unlock()
	if err != nil {
		return err
	}
	for {
		m, err := c.read()
		if err != nil {
			return err
		}
		switch {
		case m.Result != nil:
			c.pending = append(c.pending, m.Result)
		case len(m.Error) > 0:
			return fmt.Errorf("%w: %s", ErrSubscriptionRejected, m.Error)
		default:
			return nil
		}
	}
}

// Listen blocks until the next result arrives.
func (c *WebSocketClient) Listen() (*Result, error) {
	if len(c.pending) > 0 {
		r := c.pending[0]
		c.pending = c.pending[1:]
		return r, nil
	}
	for {
		m, err := c.read()
		if err != nil {
			return nil, err
		}
		if m.Result != nil {
			return m.Result, nil
		}
	}
}

func (c *WebSocketClient) read() (*Message, error) {
	_, b, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *WebSocketClient) Close() error {
	c.wl.Lock()
	defer c.wl.Unlock()
	return c.conn.Close()
}
