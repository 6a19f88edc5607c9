// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package split

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
)

// Deploy stores [f] at a fresh formula address. Formulas are never
// modified after deployment.
func Deploy(ctx context.Context, mu state.Mutable, deployer codec.Address, f Formula) (codec.Address, error) {
	addr, err := storage.DeployAddress(ctx, mu, deployer, consts.FormulaID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return addr, storage.SetRecord(ctx, mu, storage.FormulaKey(addr), f)
}

// Load reads the formula deployed at [addr].
func Load(ctx context.Context, im state.Immutable, addr codec.Address) (Formula, error) {
	v, err := im.GetValue(ctx, storage.FormulaKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, storage.MaxRecordSize)
	var f Formula
	switch Kind(p.UnpackByte()) {
	case BoundedKind:
		f, err = unmarshalBounded(p)
	case FixedKind:
		fraction := p.UnpackUint256(false)
		if err := p.Err(); err != nil {
			return nil, err
		}
		f, err = NewFixed(fraction)
	default:
		return nil, ErrUnknownKind
	}
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrUnexpectedLength
	}
	return f, nil
}
