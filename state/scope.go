// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Scope = (*DefaultScope)(nil)
	_ Scope = (*SimulatedScope)(nil)
)

// Scope decides which keys an action may touch and what they held before
// it ran.
type Scope interface {
	Has(key []byte, perm Permissions) bool
	GetValue(ctx context.Context, key []byte) ([]byte, error)
	Len() int
}

// DefaultScope admits only the keys recorded for an action and serves the
// values fetched for them before execution.
type DefaultScope struct {
	keys   Keys
	values map[string][]byte
}

func NewDefaultScope(keys Keys, values map[string][]byte) *DefaultScope {
	return &DefaultScope{keys: keys, values: values}
}

func (s *DefaultScope) Has(key []byte, perm Permissions) bool {
	return s.keys[string(key)].Has(perm)
}

func (s *DefaultScope) GetValue(_ context.Context, key []byte) ([]byte, error) {
	v, ok := s.values[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (s *DefaultScope) Len() int { return len(s.keys) }

// SimulatedScope admits every key, reading through to [im] and collecting
// the permissions each access asked for. Genesis and dry runs execute on
// it.
type SimulatedScope struct {
	keys Keys
	im   Immutable
}

func NewSimulatedScope(keys Keys, im Immutable) *SimulatedScope {
	return &SimulatedScope{keys: keys, im: im}
}

func (s *SimulatedScope) Has(key []byte, perm Permissions) bool {
	s.keys.Add(string(key), perm)
	return true
}

func (s *SimulatedScope) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	return s.im.GetValue(ctx, key)
}

func (s *SimulatedScope) Len() int { return len(s.keys) }

// StateKeys returns every key accessed so far.
func (s *SimulatedScope) StateKeys() Keys { return s.keys }
