// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestFilterInvalidHosts(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	tests := []struct {
		name    string
		allowed []string
		host    string
		status  int
	}{
		{name: "wildcard", allowed: []string{"*"}, host: "example.com", status: http.StatusOK},
		{name: "listed", allowed: []string{"localhost"}, host: "LocalHost:9650", status: http.StatusOK},
		{name: "ip", allowed: nil, host: "127.0.0.1:9650", status: http.StatusOK},
		{name: "unlisted", allowed: []string{"localhost"}, host: "evil.com", status: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Host = tt.host
			w := httptest.NewRecorder()
			filterInvalidHosts(ok, tt.allowed).ServeHTTP(w, r)
			require.Equal(t, tt.status, w.Code)
		})
	}
}

func TestServerRoutes(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	s := New(logging.NoLog{}, listener, NewDefaultHTTPConfig(), []string{"*"}, []string{"*"}, time.Second)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	require.NoError(s.AddRoute(handler, "/ping"))
	require.ErrorIs(s.AddRoute(handler, "/ping"), ErrDuplicateRoute)

	done := make(chan error, 1)
	go func() { done <- s.Dispatch() }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/ping")
	require.NoError(err)
	require.Equal(http.StatusOK, resp.StatusCode)
	require.NoError(resp.Body.Close())

	require.NoError(s.Shutdown())
	require.NoError(<-done)
}
