// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/engine"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/oracle"
	"github.com/fetch-ld/ldengine/pubsub"
	"github.com/fetch-ld/ldengine/server"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/utils"
)

func tenths(n uint64) *uint256.Int {
	v := utils.Units(n)
	return v.Div(v, uint256.NewInt(10))
}

func newTestServer(t *testing.T) (*engine.Engine, *genesis.Deployment, string) {
	require := require.New(t)

	clock := &mockable.Clock{}
	clock.Set(time.UnixMilli(1_700_000_000_000))
	e, err := engine.New(logging.NoLog{}, trace.Noop, memdb.New(), prometheus.NewRegistry(), clock)
	require.NoError(err)
	d, err := e.Initialize(context.Background(), genesis.DefaultPlan())
	require.NoError(err)

	handler, err := server.NewHandler(NewJSONRPCServer(e), Name)
	require.NoError(err)
	ws, pubsubServer := NewWebSocketServer(logging.NoLog{}, pubsub.NewDefaultServerConfig())
	e.AddListener(ws)

	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	mux.Handle(WebSocketEndpoint, pubsubServer)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return e, d, ts.URL
}

func TestPingAndDeployment(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	_, d, uri := newTestServer(t)

	cli := NewJSONRPCClient(uri)
	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	loaded, err := cli.Deployment(ctx)
	require.NoError(err)
	require.Equal(d, loaded)
}

func TestBalanceAndRate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, d, uri := newTestServer(t)
	cli := NewJSONRPCClient(uri)

	b, err := cli.Balance(ctx, storage.NativeAsset, d.Accounts["alice"])
	require.NoError(err)
	require.Equal(utils.Units(100), b)

	var expected *oracle.Rate
	require.NoError(e.Read(ctx, func(ctx context.Context, im state.Immutable) (err error) {
		expected, err = oracle.New(d.Router, d.Token, d.Stable).Rate(ctx, im)
		return err
	}))
	rate, err := cli.Rate(ctx)
	require.NoError(err)
	require.Equal(expected, rate)
}

func TestQuoteDoesNotCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	_, d, uri := newTestServer(t)
	cli := NewJSONRPCClient(uri)

	alice := d.Accounts["alice"]
	receipt, err := cli.Quote(ctx, alice, tenths(7))
	require.NoError(err)
	require.Equal(tenths(7), receipt.AmountIn)
	require.NotNil(receipt.Position)

	b, err := cli.Balance(ctx, storage.NativeAsset, alice)
	require.NoError(err)
	require.Equal(utils.Units(100), b)

	positions, _, err := cli.Positions(ctx)
	require.NoError(err)
	require.Empty(positions)
}

func TestSubmit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, d, uri := newTestServer(t)
	cli := NewJSONRPCClient(uri)

	alice := d.Accounts["alice"]
	r, err := cli.Submit(ctx, alice, "deposit", &actions.Deposit{Gateway: d.Gateway, Value: tenths(7)})
	require.NoError(err)
	require.Equal("deposit", r.Action)
	require.Equal(alice, r.Actor)
	require.Equal(e.Now(), r.Timestamp)

	var result actions.DepositResult
	require.NoError(r.Decode(&result))
	require.NotNil(result.Position)
	require.Zero(result.Position.ID)

	positions, now, err := cli.Positions(ctx)
	require.NoError(err)
	require.Equal(e.Now(), now)
	require.Len(positions, 1)
	require.Equal(result.Position.UnlockAt, positions[0].UnlockAt)

	_, err = cli.Submit(ctx, alice, "deposit", &actions.Deposit{Gateway: d.Gateway, Value: utils.Units(1_000)})
	require.Error(err)
	_, err = cli.Submit(ctx, alice, "unknown", nil)
	require.ErrorContains(err, actions.ErrUnknownAction.Error())
}

func TestSimulate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	_, d, uri := newTestServer(t)
	cli := NewJSONRPCClient(uri)

	reply, err := cli.Simulate(ctx, d.Owner, "updateCutStatus", map[string]any{
		"gateway": d.Gateway,
		"active":  false,
	})
	require.NoError(err)
	require.NotEmpty(reply.Keys)
}

func TestWebSocketStreamsResults(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, d, uri := newTestServer(t)

	all, err := NewWebSocketClient(ctx, uri)
	require.NoError(err)
	defer all.Close()
	require.NoError(all.Subscribe())

	transfers, err := NewWebSocketClient(ctx, uri)
	require.NoError(err)
	defer transfers.Close()
	require.NoError(transfers.Subscribe("transfer"))

	alice := d.Accounts["alice"]
	_, err = e.Execute(ctx, alice, &actions.Deposit{Gateway: d.Gateway, Value: tenths(7)})
	require.NoError(err)
	_, err = e.Execute(ctx, alice, &actions.Transfer{Asset: storage.NativeAsset, To: d.Accounts["bob"], Value: utils.Units(1)})
	require.NoError(err)

	r, err := all.Listen()
	require.NoError(err)
	require.Equal("deposit", r.Action)
	r, err = all.Listen()
	require.NoError(err)
	require.Equal("transfer", r.Action)

	r, err = transfers.Listen()
	require.NoError(err)
	require.Equal("transfer", r.Action)
	require.Equal(alice, r.Actor)
}

func TestWebSocketRejectsUnknownAction(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	_, _, uri := newTestServer(t)

	c, err := NewWebSocketClient(ctx, uri)
	require.NoError(err)
	defer c.Close()
	require.ErrorIs(c.Subscribe("mint"), ErrSubscriptionRejected)
}
