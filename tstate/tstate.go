// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/fetch-ld/ldengine/keys"
)

// TState collects the committed changes of one or more views until they
// are flushed to a database.
type TState struct {
	l           sync.RWMutex
	ops         int
	changedKeys map[string]maybe.Maybe[[]byte]
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(changedSize int) *TState {
	return &TState{
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// Insert should only be called when seeding state outside of a view.
func (ts *TState) Insert(_ context.Context, key, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[string(key)] = maybe.Some(value)
	ts.ops++
	return nil
}

// OpIndex returns the number of operations committed into ts.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys changed since the last flush.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// WriteTo stages every change in [batch] and returns how many keys were
// written. [batch] is not written; the caller decides when to persist it.
func (ts *TState) WriteTo(
	ctx context.Context,
	t trace.Tracer, //nolint:interfacer
	batch database.KeyValueWriterDeleter,
) (int, error) {
	_, span := t.Start(ctx, "TState.WriteTo")
	defer span.End()

	ts.l.RLock()
	defer ts.l.RUnlock()

	for k, v := range ts.changedKeys {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return 0, err
		}
	}
	return len(ts.changedKeys), nil
}
