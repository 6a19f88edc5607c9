// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "context"

// Immutable is a read-only view of contract state. A missing key returns
// [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

// Mutable is the state every contract call executes against.
type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Checkpointer is implemented by state that can undo every operation
// performed after a given op index.
type Checkpointer interface {
	OpIndex() int
	Rollback(ctx context.Context, restorePoint int)
}
