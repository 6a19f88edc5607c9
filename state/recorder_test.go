// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func TestRecorderPermissions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	base := ImmutableStorage{"existing": []byte{1}}
	r := NewRecorder(base)

	v, err := r.GetValue(ctx, []byte("existing"))
	require.NoError(err)
	require.Equal([]byte{1}, v)
	require.Equal(Read, r.GetStateKeys()["existing"])

	require.NoError(r.Insert(ctx, []byte("existing"), []byte{2}))
	require.Equal(Write, r.GetStateKeys()["existing"])

	require.NoError(r.Insert(ctx, []byte("new"), []byte{3}))
	require.Equal(Allocate|Write, r.GetStateKeys()["new"])

	_, err = r.GetValue(ctx, []byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)
	require.Equal(Read, r.GetStateKeys()["missing"])
}

func TestRecorderBuffersWrites(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	base := ImmutableStorage{"k": []byte{1}}
	r := NewRecorder(base)

	require.NoError(r.Insert(ctx, []byte("k"), []byte{9}))
	v, err := r.GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte{9}, v)
	require.Equal([]byte{1}, base["k"])

	require.NoError(r.Remove(ctx, []byte("k")))
	_, err = r.GetValue(ctx, []byte("k"))
	require.ErrorIs(err, database.ErrNotFound)
	require.Len(base, 1)
}

func TestKeys(t *testing.T) {
	require := require.New(t)
	k := Keys{}
	k.Add("b", Read)
	k.Add("b", Write)
	k.Add("a", Allocate)
	require.True(k["b"].Has(Write))
	require.False(k["b"].Has(Allocate))

	o := Keys{"a": Write, "c": Read}
	k.Union(o)
	require.Equal([]string{"a", "b", "c"}, k.Sorted())
	require.Equal(All, k["a"])
	require.Equal("all", k["a"].String())
}

func TestScopes(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	d := NewDefaultScope(Keys{"k": Read}, map[string][]byte{"k": {1}})
	require.True(d.Has([]byte("k"), Read))
	require.False(d.Has([]byte("k"), Write))
	require.False(d.Has([]byte("other"), Read))

	s := NewSimulatedScope(Keys{}, ImmutableStorage{"k": {1}})
	require.True(s.Has([]byte("x"), Write))
	v, err := s.GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte{1}, v)
	require.Equal(Write, s.StateKeys()["x"])

	storage, err := Fetch(ctx, ImmutableStorage{"k": {1}}, Keys{"k": Read, "missing": Read})
	require.NoError(err)
	require.Equal(map[string][]byte{"k": {1}}, storage)
}
