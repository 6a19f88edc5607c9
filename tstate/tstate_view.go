// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/fetch-ld/ldengine/keys"
	"github.com/fetch-ld/ldengine/state"
)

const defaultOps = 8

var (
	_ state.Mutable      = (*TStateView)(nil)
	_ state.Checkpointer = (*TStateView)(nil)
)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// TStateView is the scoped state a single action executes against. Every
// write is logged so the view can be rolled back to any earlier op index.
type TStateView struct {
	ts                 *TState
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	ops []*op

	scope state.Scope

	canAllocate bool
	allocations map[string]uint16
	writes      map[string]uint16
}

func (ts *TState) NewView(scope state.Scope) *TStateView {
	return &TStateView{
		ts:                 ts,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], scope.Len()),

		ops: make([]*op, 0, defaultOps),

		scope: scope,

		canAllocate: true,
		allocations: make(map[string]uint16, scope.Len()),
		writes:      make(map[string]uint16, scope.Len()),
	}
}

// Rollback restores the view to the state it had after [restorePoint] ops.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]

		// Key was untouched before this op in this view and in the parent.
		if !op.pastChanged {
			delete(ts.allocations, op.k)
			delete(ts.writes, op.k)
			delete(ts.pendingChangedKeys, op.k)
			continue
		}

		// Key was deleted earlier in the view or parent.
		if !op.pastExists {
			delete(ts.allocations, op.k)
			ts.writes[op.k] = 0
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}

		// MaxChunks/NumChunks were checked when the op was logged.
		keyChunks, _ := keys.MaxChunks([]byte(op.k))
		valueChunks, _ := keys.NumChunks(op.pastV)
		ts.allocations[op.k] = keyChunks
		ts.writes[op.k] = valueChunks
		ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// DisableAllocation causes [Insert] to return an error if it would create a
// new key.
func (ts *TStateView) DisableAllocation() {
	ts.canAllocate = false
}

func (ts *TStateView) EnableAllocation() {
	ts.canAllocate = true
}

// KeyOperations returns the chunks allocated and written per key.
func (ts *TStateView) KeyOperations() (map[string]uint16, map[string]uint16) {
	return ts.allocations, ts.writes
}

// GetValue returns the value of [key] as seen by this view.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if !ts.scope.Has(key, state.Read) {
		return nil, ErrKeyNotSpecified
	}
	v, _, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	if v, changed, exists := ts.ts.getChangedValue(ctx, key); changed {
		return v, true, exists, nil
	}
	v, err := ts.scope.GetValue(ctx, []byte(key))
	switch {
	case err == nil:
		return v, false, true, nil
	case errors.Is(err, database.ErrNotFound):
		return nil, false, false, nil
	default:
		return nil, false, false, err
	}
}

// Insert sets [key] to [value]. The view takes ownership of [value].
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	valueChunks, ok := keys.NumChunks(value)
	if !ok {
		return ErrInvalidKeyValue
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if exists {
		if !ts.scope.Has(key, state.Write) {
			return ErrKeyNotSpecified
		}
		ts.writes[k] = valueChunks
	} else {
		if !ts.scope.Has(key, state.Allocate|state.Write) {
			return ErrKeyNotSpecified
		}
		if !ts.canAllocate {
			return ErrAllocationDisabled
		}
		keyChunks, _ := keys.MaxChunks(key)
		ts.allocations[k] = keyChunks
		ts.writes[k] = valueChunks
	}
	ts.pendingChangedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	if !ts.scope.Has(key, state.Write) {
		return ErrKeyNotSpecified
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	delete(ts.allocations, k)
	ts.writes[k] = 0
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// PendingChanges returns the number of keys this view changed.
func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit moves every pending change into the parent [TState].
func (ts *TStateView) Commit() {
	ts.ts.l.Lock()
	defer ts.ts.l.Unlock()

	for k, v := range ts.pendingChangedKeys {
		ts.ts.changedKeys[k] = v
	}
	ts.ts.ops += len(ts.ops)
}
