// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)
	cfg := NewDefaultConfig()
	tr, err := New(&cfg)
	require.NoError(err)

	_, span := tr.Start(context.Background(), "Engine.Execute")
	span.End()
	require.False(span.SpanContext().IsValid())
	require.NoError(tr.Close())
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)
	cfg := NewDefaultConfig()
	cfg.Enabled = true

	cfg.Endpoint = ""
	_, err := New(&cfg)
	require.ErrorIs(err, ErrMissingEndpoint)

	// nothing is exported until a span ends and the batcher flushes
	cfg.Endpoint = DefaultEndpoint
	tr, err := New(&cfg)
	require.NoError(err)
	require.NoError(tr.Close())
}
