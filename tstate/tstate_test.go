// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"

	"github.com/fetch-ld/ldengine/keys"
	"github.com/fetch-ld/ldengine/state"
)

var (
	testVal = []byte("value")

	key1    = keys.EncodeChunks([]byte("key1"), 1)
	key1str = string(key1)
	key2    = keys.EncodeChunks([]byte("key2"), 2)
	key2str = string(key2)
	key3    = keys.EncodeChunks([]byte("key3"), 3)
	key3str = string(key3)
)

func allKeys() state.Keys {
	return state.Keys{key1str: state.All, key2str: state.All, key3str: state.All}
}

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ts := New(10)

	tsv := ts.NewView(state.NewDefaultScope(state.Keys{key1str: state.Read}, map[string][]byte{key1str: testVal}))
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)

	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, ErrKeyNotSpecified)
}

func TestGetValueMissing(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	tsv := ts.NewView(state.NewDefaultScope(allKeys(), nil))
	_, err := tsv.GetValue(context.Background(), key1)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertPermissions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ts := New(10)

	tsv := ts.NewView(state.NewDefaultScope(
		state.Keys{key1str: state.Write, key2str: state.Read},
		map[string][]byte{key1str: testVal},
	))
	require.NoError(tsv.Insert(ctx, key1, []byte("new")))
	require.ErrorIs(tsv.Insert(ctx, key2, testVal), ErrKeyNotSpecified)

	// Write without Allocate cannot create a key
	tsv = ts.NewView(state.NewDefaultScope(state.Keys{key3str: state.Write}, nil))
	require.ErrorIs(tsv.Insert(ctx, key3, testVal), ErrKeyNotSpecified)
}

func TestInsertInvalidValue(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	tsv := ts.NewView(state.NewDefaultScope(allKeys(), nil))
	require.ErrorIs(tsv.Insert(context.Background(), key1, make([]byte, keys.ChunkSize*2)), ErrInvalidKeyValue)
}

func TestDisableAllocation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ts := New(10)
	tsv := ts.NewView(state.NewDefaultScope(allKeys(), map[string][]byte{key1str: testVal}))
	tsv.DisableAllocation()

	require.NoError(tsv.Insert(ctx, key1, []byte("x")))
	require.ErrorIs(tsv.Insert(ctx, key2, testVal), ErrAllocationDisabled)
	tsv.EnableAllocation()
	require.NoError(tsv.Insert(ctx, key2, testVal))
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ts := New(10)
	tsv := ts.NewView(state.NewDefaultScope(allKeys(), map[string][]byte{key1str: testVal}))

	require.NoError(tsv.Insert(ctx, key2, []byte("two")))
	checkpoint := tsv.OpIndex()
	require.Equal(1, checkpoint)

	require.NoError(tsv.Insert(ctx, key1, []byte("changed")))
	require.NoError(tsv.Insert(ctx, key3, []byte("three")))
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(4, tsv.OpIndex())

	tsv.Rollback(ctx, checkpoint)
	require.Equal(checkpoint, tsv.OpIndex())

	v, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, v)
	v, err = tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal([]byte("two"), v)
	_, err = tsv.GetValue(ctx, key3)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.PendingChanges())
}

func TestRollbackOverCommitted(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ts := New(10)

	first := ts.NewView(state.NewDefaultScope(allKeys(), nil))
	require.NoError(first.Insert(ctx, key1, []byte("first")))
	first.Commit()

	second := ts.NewView(state.NewDefaultScope(allKeys(), nil))
	require.NoError(second.Remove(ctx, key1))
	require.NoError(second.Insert(ctx, key1, []byte("second")))
	second.Rollback(ctx, 1)
	_, err := second.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)

	second.Rollback(ctx, 0)
	v, err := second.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("first"), v)
}

func TestRemoveMissingKey(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	tsv := ts.NewView(state.NewDefaultScope(allKeys(), nil))
	require.NoError(tsv.Remove(context.Background(), key1))
	require.Zero(tsv.OpIndex())
}

func TestCommitAndWriteTo(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := memdb.New()
	require.NoError(db.Put(key3, []byte("stale")))

	ts := New(10)
	storage, err := state.Fetch(ctx, state.DatabaseReader{DB: db}, allKeys())
	require.NoError(err)
	tsv := ts.NewView(state.NewDefaultScope(allKeys(), storage))
	require.NoError(tsv.Insert(ctx, key1, testVal))
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.NoError(tsv.Remove(ctx, key3))
	tsv.Commit()
	require.Equal(3, ts.OpIndex())

	batch := db.NewBatch()
	n, err := ts.WriteTo(ctx, trace.Noop, batch)
	require.NoError(err)
	require.Equal(3, n)

	has, err := db.Has(key1)
	require.NoError(err)
	require.False(has)

	require.NoError(batch.Write())
	v, err := db.Get(key1)
	require.NoError(err)
	require.Equal(testVal, v)
	_, err = db.Get(key3)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestSimulatedScopeRecordsKeys(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	recorded := state.Keys{}
	ts := New(10)
	tsv := ts.NewView(state.NewSimulatedScope(recorded, state.ImmutableStorage{key1str: testVal}))

	_, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.True(recorded[key1str].Has(state.Read))
	require.True(recorded[key2str].Has(state.Allocate | state.Write))
}
