// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/engine"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/state"
)

type Engine interface {
	Deployment() (*genesis.Deployment, error)
	Execute(ctx context.Context, actor codec.Address, a actions.Action) (*engine.Result, error)
	Simulate(ctx context.Context, actor codec.Address, a actions.Action) (codec.Typed, state.Keys, error)
	Read(ctx context.Context, f func(context.Context, state.Immutable) error) error
	Now() int64
}
