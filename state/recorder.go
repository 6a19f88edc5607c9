// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*Recorder)(nil)

// Recorder wraps an [Immutable] state and records which keys a call touches
// and the permissions it needs on each. Writes are buffered and never reach
// the wrapped state.
type Recorder struct {
	state Immutable

	// base caches what [state] held for every key seen, nil when missing
	base    map[string][]byte
	changed map[string][]byte
	keys    Keys
}

func NewRecorder(im Immutable) *Recorder {
	return &Recorder{
		state:   im,
		base:    map[string][]byte{},
		changed: map[string][]byte{},
		keys:    Keys{},
	}
}

func (r *Recorder) checkState(ctx context.Context, key []byte) ([]byte, error) {
	if val, has := r.base[string(key)]; has {
		return val, nil
	}
	value, err := r.state.GetValue(ctx, key)
	if err == nil {
		r.base[string(key)] = value
		return value, nil
	}
	if errors.Is(err, database.ErrNotFound) {
		r.base[string(key)] = nil
		err = nil
	}
	return nil, err
}

func (r *Recorder) Insert(ctx context.Context, key []byte, value []byte) error {
	k := string(key)
	baseVal, err := r.checkState(ctx, key)
	if err != nil {
		return err
	}
	if baseVal != nil {
		r.keys[k] |= Write
	} else {
		r.keys[k] |= Allocate | Write
	}
	r.changed[k] = value
	return nil
}

func (r *Recorder) Remove(_ context.Context, key []byte) error {
	k := string(key)
	r.keys[k] |= Write
	r.changed[k] = nil
	return nil
}

func (r *Recorder) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	k := string(key)
	baseVal, err := r.checkState(ctx, key)
	if err != nil {
		return nil, err
	}
	r.keys[k] |= Read
	if value, ok := r.changed[k]; ok {
		if value == nil {
			return nil, database.ErrNotFound
		}
		return value, nil
	}
	if baseVal == nil {
		return nil, database.ErrNotFound
	}
	return baseVal, nil
}

// GetStateKeys returns every key touched so far.
func (r *Recorder) GetStateKeys() Keys {
	return r.keys
}
