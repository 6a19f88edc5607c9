// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package recorder

import (
	"context"

	"github.com/fetch-ld/ldengine/engine"
)

var _ Recorder = (*Noop)(nil)

// Noop is used when no archive path is configured.
type Noop struct{}

func (Noop) Accepted(context.Context, *engine.Result) {}

func (Noop) Deposits(context.Context, string) ([]*Deposit, error) { return nil, nil }

func (Noop) Releases(context.Context) ([]*Release, error) { return nil, nil }

func (Noop) Close() error { return nil }
