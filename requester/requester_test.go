// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package requester

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/require"
)

type EchoArgs struct {
	Message string `json:"message"`
}

type EchoReply struct {
	Message string `json:"message"`
}

type echo struct{}

func (*echo) Echo(_ *http.Request, args *EchoArgs, reply *EchoReply) error {
	reply.Message = args.Message
	return nil
}

func newServer(t *testing.T) *httptest.Server {
	s := rpc.NewServer()
	s.RegisterCodec(json2.NewCodec(), "application/json")
	require.NoError(t, s.RegisterService(&echo{}, "test"))
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func TestSendRequest(t *testing.T) {
	require := require.New(t)
	ts := newServer(t)

	r := New(ts.URL, "test")
	reply := new(EchoReply)
	require.NoError(r.SendRequest(context.Background(), "Echo", &EchoArgs{Message: "hello"}, reply))
	require.Equal("hello", reply.Message)
}

func TestSendRequestUnknownMethod(t *testing.T) {
	require := require.New(t)
	ts := newServer(t)

	r := New(ts.URL, "test")
	require.Error(r.SendRequest(context.Background(), "Missing", &EchoArgs{}, new(EchoReply)))
}

func TestSendRequestBadStatus(t *testing.T) {
	require := require.New(t)
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	r := New(ts.URL, "test")
	err := r.SendRequest(context.Background(), "Echo", &EchoArgs{}, new(EchoReply))
	require.ErrorContains(err, "received status code: 404")
}
