// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package split

import (
	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
)

var _ Formula = (*Fixed)(nil)

// Fixed sends the same fraction of every deposit to liquidity.
type Fixed struct {
	fraction *uint256.Int
}

func NewFixed(liquidityFraction *uint256.Int) (*Fixed, error) {
	if liquidityFraction.Gt(Precision) {
		return nil, ErrInvalidFraction
	}
	return &Fixed{fraction: new(uint256.Int).Set(liquidityFraction)}, nil
}

func (*Fixed) Kind() Kind {
	return FixedKind
}

func (f *Fixed) ComputeSplit(_, _ *uint256.Int) Split {
	return newSplit(new(uint256.Int).Set(f.fraction))
}

func (f *Fixed) Marshal(p *codec.Packer) {
	p.PackByte(byte(FixedKind))
	p.PackUint256(f.fraction)
}
