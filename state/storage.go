// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = MutableStorage(nil)

// ImmutableStorage implements [Immutable] by wrapping a key-value map
type ImmutableStorage map[string][]byte

func (i ImmutableStorage) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	if v, has := i[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

// MutableStorage implements [Mutable] by wrapping a key-value map.
type MutableStorage map[string][]byte

func (m MutableStorage) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	if v, has := m[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

func (m MutableStorage) Insert(_ context.Context, key []byte, value []byte) error {
	m[string(key)] = value
	return nil
}

func (m MutableStorage) Remove(_ context.Context, key []byte) error {
	delete(m, string(key))
	return nil
}

// DatabaseReader adapts an avalanchego key-value reader to [Immutable].
type DatabaseReader struct {
	DB database.KeyValueReader
}

func (r DatabaseReader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.DB.Get(key)
}

// Fetch reads the current value of every key in [keys] from [im]. Missing
// keys are omitted from the result.
func Fetch(ctx context.Context, im Immutable, keys Keys) (map[string][]byte, error) {
	storage := make(map[string][]byte, len(keys))
	for k := range keys {
		v, err := im.GetValue(ctx, []byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		storage[k] = v
	}
	return storage, nil
}
