// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	uri := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return conn
}

func TestServerPublish(t *testing.T) {
	require := require.New(t)

	received := make(chan []byte, 1)
	s := New(logging.NoLog{}, NewDefaultServerConfig(), func(msg []byte, c *Connection) {
		received <- msg
		c.Send([]byte("ack"))
	})
	srv := httptest.NewServer(s)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	select {
	case msg := <-received:
		require.Equal([]byte("hello"), msg)
	case <-time.After(5 * time.Second):
		require.FailNow("callback not called")
	}
	_, msg, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("ack"), msg)

	require.Eventually(func() bool { return s.conns.Len() == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Empty(s.Publish([]byte("broadcast"), s.conns))
	_, msg, err = conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("broadcast"), msg)

	// closed connections are dropped from the server
	require.NoError(conn.Close())
	require.Eventually(func() bool { return s.conns.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}
