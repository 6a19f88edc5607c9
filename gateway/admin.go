// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/split"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
)

// Audited fields
const (
	SplitFormulaField = "splitFormula"
	DAOWalletField    = "daoWallet"
	CutStatusField    = "isCutActive"
)

// AuditEntry records one accepted admin change.
type AuditEntry struct {
	Seq       uint64        `json:"seq"`
	Field     string        `json:"field"`
	Actor     codec.Address `json:"actor"`
	Timestamp int64         `json:"timestamp"`
	Old       string        `json:"old"`
	New       string        `json:"new"`
}

func (a *AuditEntry) Marshal(p *codec.Packer) {
	p.PackUint64(a.Seq)
	p.PackString(a.Field)
	p.PackAddress(a.Actor)
	p.PackInt64(a.Timestamp)
	p.PackString(a.Old)
	p.PackString(a.New)
}

func (a *AuditEntry) Unmarshal(p *codec.Packer) {
	a.Seq = p.UnpackUint64(false)
	a.Field = p.UnpackString(true)
	p.UnpackAddress(&a.Actor)
	a.Timestamp = p.UnpackInt64(false)
	a.Old = p.UnpackString(false)
	a.New = p.UnpackString(false)
}

// update loads the gateway, checks [caller] is its owner, applies [change]
// and appends an audit entry. Rejected calls write nothing.
func update(
	ctx context.Context,
	mu state.Mutable,
	gateway codec.Address,
	caller codec.Address,
	field string,
	now int64,
	change func(g *Gateway) (string, string, error),
) error {
	g, err := Get(ctx, mu, gateway)
	if err != nil {
		return err
	}
	if caller != g.Owner {
		return ErrNotOwner
	}
	prev, next, err := change(g)
	if err != nil {
		return err
	}
	seq, err := storage.NextCounter(ctx, mu, storage.AuditCountKey(gateway))
	if err != nil {
		return err
	}
	entry := &AuditEntry{
		Seq:       seq,
		Field:     field,
		Actor:     caller,
		Timestamp: now,
		Old:       prev,
		New:       next,
	}
	if err := storage.SetRecord(ctx, mu, storage.AuditKey(gateway, seq), entry); err != nil {
		return err
	}
	return storage.SetRecord(ctx, mu, storage.GatewayKey(gateway), g)
}

// UpdateSplitFormula switches the formula used by subsequent deposits.
func UpdateSplitFormula(ctx context.Context, mu state.Mutable, gateway, caller, formula codec.Address, now int64) error {
	return update(ctx, mu, gateway, caller, SplitFormulaField, now, func(g *Gateway) (string, string, error) {
		if _, err := split.Load(ctx, mu, formula); err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrUnknownFormula, err)
		}
		prev := g.SplitFormula
		g.SplitFormula = formula
		return prev.String(), formula.String(), nil
	})
}

func UpdateDAOWallet(ctx context.Context, mu state.Mutable, gateway, caller, wallet codec.Address, now int64) error {
	return update(ctx, mu, gateway, caller, DAOWalletField, now, func(g *Gateway) (string, string, error) {
		prev := g.DAOWallet
		g.DAOWallet = wallet
		return prev.String(), wallet.String(), nil
	})
}

// UpdateCutStatus turns the DAO cut of each deposit on or off.
func UpdateCutStatus(ctx context.Context, mu state.Mutable, gateway, caller codec.Address, active bool, now int64) error {
	return update(ctx, mu, gateway, caller, CutStatusField, now, func(g *Gateway) (string, string, error) {
		prev := g.IsCutActive
		g.IsCutActive = active
		return strconv.FormatBool(prev), strconv.FormatBool(active), nil
	})
}

// AuditLog returns every admin change of [gateway] in order.
func AuditLog(ctx context.Context, im state.Immutable, gateway codec.Address) ([]*AuditEntry, error) {
	n, err := storage.GetCounter(ctx, im, storage.AuditCountKey(gateway))
	if err != nil {
		return nil, err
	}
	entries := make([]*AuditEntry, 0, n)
	for seq := uint64(0); seq < n; seq++ {
		var entry AuditEntry
		found, err := storage.GetRecord(ctx, im, storage.AuditKey(gateway, seq), &entry)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: audit entry %d", storage.ErrCorruptedValue, seq)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
