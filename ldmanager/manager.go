// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ldmanager holds the project-token reserve that is paired with
// deposited native currency, and the time-locked liquidity positions that
// result.
package ldmanager

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
)

// Manager is the configuration stored at a manager address. The reserve is
// the manager's own balance of [Token].
type Manager struct {
	Owner  codec.Address `json:"owner"`
	Router codec.Address `json:"router"`
	Token  codec.Address `json:"token"`
	// AntiDumpingDelay is how long, in milliseconds, a position stays locked.
	AntiDumpingDelay int64 `json:"antiDumpingDelay"`
}

func (m *Manager) Marshal(p *codec.Packer) {
	p.PackAddress(m.Owner)
	p.PackAddress(m.Router)
	p.PackAddress(m.Token)
	p.PackInt64(m.AntiDumpingDelay)
}

func (m *Manager) Unmarshal(p *codec.Packer) {
	p.UnpackAddress(&m.Owner)
	p.UnpackAddress(&m.Router)
	p.UnpackAddress(&m.Token)
	m.AntiDumpingDelay = p.UnpackInt64(false)
}

// Deploy creates a manager owned by [owner] that pairs [asset] through
// [router].
func Deploy(
	ctx context.Context,
	mu state.Mutable,
	owner codec.Address,
	router codec.Address,
	asset codec.Address,
	antiDumpingDelay int64,
) (codec.Address, error) {
	if antiDumpingDelay < 0 {
		return codec.EmptyAddress, ErrInvalidDelay
	}
	addr, err := storage.DeployAddress(ctx, mu, owner, consts.ManagerID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	m := &Manager{
		Owner:            owner,
		Router:           router,
		Token:            asset,
		AntiDumpingDelay: antiDumpingDelay,
	}
	return addr, storage.SetRecord(ctx, mu, storage.ManagerKey(addr), m)
}

func Get(ctx context.Context, im state.Immutable, manager codec.Address) (*Manager, error) {
	var m Manager
	found, err := storage.GetRecord(ctx, im, storage.ManagerKey(manager), &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrManagerNotFound
	}
	return &m, nil
}

// Reserve returns the project tokens available for pairing.
func Reserve(ctx context.Context, im state.Immutable, manager codec.Address) (*uint256.Int, error) {
	m, err := Get(ctx, im, manager)
	if err != nil {
		return nil, err
	}
	return token.BalanceOf(ctx, im, m.Token, manager)
}

func IsOperator(ctx context.Context, im state.Immutable, manager, account codec.Address) (bool, error) {
	return storage.GetFlag(ctx, im, storage.OperatorKey(manager, account))
}

// UpdateOperator grants or revokes [account]'s right to add liquidity.
func UpdateOperator(ctx context.Context, mu state.Mutable, manager, caller, account codec.Address, enabled bool) error {
	m, err := Get(ctx, mu, manager)
	if err != nil {
		return err
	}
	if caller != m.Owner {
		return storage.ErrNotOwner
	}
	return storage.SetFlag(ctx, mu, storage.OperatorKey(manager, account), enabled)
}

func (m *Manager) authorize(ctx context.Context, im state.Immutable, manager, caller codec.Address) error {
	if caller == m.Owner {
		return nil
	}
	ok, err := IsOperator(ctx, im, manager, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOperator
	}
	return nil
}
