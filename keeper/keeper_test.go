// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keeper

import (
	"context"
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
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/config"
	"github.com/fetch-ld/ldengine/engine"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
	"github.com/fetch-ld/ldengine/utils"
)

const start = int64(1_700_000_000_000)

type env struct {
	e     *engine.Engine
	clock *mockable.Clock
	d     *genesis.Deployment
}

func newEnv(t *testing.T) *env {
	clock := &mockable.Clock{}
	clock.Set(time.UnixMilli(start))
	e, err := engine.New(logging.NoLog{}, trace.Noop, memdb.New(), prometheus.NewRegistry(), clock)
	require.NoError(t, err)
	d, err := e.Initialize(context.Background(), genesis.DefaultPlan())
	require.NoError(t, err)
	return &env{e: e, clock: clock, d: d}
}

// deposit adds a position through the gateway at [at].
func (v *env) deposit(t *testing.T, at int64) *ldmanager.Position {
	v.clock.Set(time.UnixMilli(at))
	value := utils.Units(7)
	value.Div(value, uint256.NewInt(10))
	r, err := v.e.Execute(context.Background(), v.d.Accounts["alice"], &actions.Deposit{Gateway: v.d.Gateway, Value: value})
	require.NoError(t, err)
	p := r.Output.(*actions.DepositResult).Position
	require.NotNil(t, p)
	return p
}

func (v *env) balance(t *testing.T, asset, account codec.Address) *uint256.Int {
	var b *uint256.Int
	require.NoError(t, v.e.Read(context.Background(), func(ctx context.Context, im state.Immutable) error {
		var err error
		b, err = token.BalanceOf(ctx, im, asset, account)
		return err
	}))
	return b
}

func (v *env) pending(t *testing.T) []*ldmanager.Position {
	var pending []*ldmanager.Position
	require.NoError(t, v.e.Read(context.Background(), func(ctx context.Context, im state.Immutable) error {
		var err error
		pending, err = ldmanager.Pending(ctx, im, v.d.LDManager)
		return err
	}))
	return pending
}

func TestNewRejectsMode(t *testing.T) {
	_, err := New(logging.NoLog{}, nil, codec.EmptyAddress, codec.EmptyAddress, "burn")
	require.ErrorIs(t, err, config.ErrInvalidKeeperMode)
}

func TestScheduleRejectsSpec(t *testing.T) {
	k, err := New(logging.NoLog{}, nil, codec.EmptyAddress, codec.EmptyAddress, config.ReleaseMode)
	require.NoError(t, err)
	require.ErrorIs(t, k.Schedule(context.Background(), "every tuesday"), config.ErrInvalidSchedule)
	require.NoError(t, k.Schedule(context.Background(), "*/30 * * * * *"))
}

func TestSettleRelease(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	v := newEnv(t)

	first := v.deposit(t, start)
	second := v.deposit(t, start+time.Hour.Milliseconds())

	k, err := New(logging.NoLog{}, v.e, v.d.LDManager, v.d.Owner, config.ReleaseMode)
	require.NoError(err)

	settled, err := k.Settle(ctx)
	require.NoError(err)
	require.Zero(settled)
	require.Len(v.pending(t), 2)

	before := v.balance(t, v.d.TokenPair, v.d.Owner)
	v.clock.Set(time.UnixMilli(first.UnlockAt))
	settled, err = k.Settle(ctx)
	require.NoError(err)
	require.Equal(1, settled)
	gained := new(uint256.Int).Sub(v.balance(t, v.d.TokenPair, v.d.Owner), before)
	require.Equal(first.Liquidity, gained)

	pending := v.pending(t)
	require.Len(pending, 1)
	require.Equal(second.ID, pending[0].ID)

	v.clock.Set(time.UnixMilli(second.UnlockAt))
	settled, err = k.Settle(ctx)
	require.NoError(err)
	require.Equal(1, settled)
	require.Empty(v.pending(t))
}

func TestSettleRebalance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	v := newEnv(t)

	p := v.deposit(t, start)
	before := v.balance(t, storage.NativeAsset, v.d.Owner)
	lpBefore := v.balance(t, v.d.TokenPair, v.d.Owner)

	k, err := New(logging.NoLog{}, v.e, v.d.LDManager, v.d.Owner, config.RebalanceMode)
	require.NoError(err)
	v.clock.Set(time.UnixMilli(p.UnlockAt))
	settled, err := k.Settle(ctx)
	require.NoError(err)
	require.Equal(1, settled)

	require.Equal(1, v.balance(t, storage.NativeAsset, v.d.Owner).Cmp(before))
	require.Equal(lpBefore, v.balance(t, v.d.TokenPair, v.d.Owner))
	require.Empty(v.pending(t))
}

func TestSettleSkipsUnauthorized(t *testing.T) {
	require := require.New(t)
	v := newEnv(t)

	p := v.deposit(t, start)
	k, err := New(logging.NoLog{}, v.e, v.d.LDManager, v.d.Accounts["bob"], config.ReleaseMode)
	require.NoError(err)
	v.clock.Set(time.UnixMilli(p.UnlockAt))
	settled, err := k.Settle(context.Background())
	require.NoError(err)
	require.Zero(settled)
	require.Len(v.pending(t), 1)
}
