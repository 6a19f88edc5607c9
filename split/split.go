// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package split decides how much of a deposit is paired as liquidity and
// how much buys tokens through the sale.
package split

//go:generate go run go.uber.org/mock/mockgen -package=splitmock -destination=splitmock/formula.go . Formula

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
)

// Precision is the fixed-point scale of every ratio (1e18 == 100%).
var Precision = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18))

var (
	ErrInvalidBounds   = errors.New("invalid bounds")
	ErrInvalidFraction = errors.New("fraction exceeds precision")
	ErrUnknownKind     = errors.New("unknown formula kind")
	ErrNotFound        = errors.New("formula does not exist")
)

// Split is the allocation of one deposit. The two fractions always sum to
// [Precision].
type Split struct {
	LiquidityFraction *uint256.Int `json:"liquidityFraction"`
	SaleFraction      *uint256.Int `json:"saleFraction"`
}

// Apply returns the liquidity and sale amounts of [amount]. The sale amount
// absorbs rounding so the two always sum to [amount].
func (s Split) Apply(amount *uint256.Int) (*uint256.Int, *uint256.Int) {
	liquidity, overflow := new(uint256.Int).MulDivOverflow(amount, s.LiquidityFraction, Precision)
	if overflow || liquidity.Gt(amount) {
		liquidity = new(uint256.Int).Set(amount)
	}
	return liquidity, new(uint256.Int).Sub(amount, liquidity)
}

func newSplit(liquidity *uint256.Int) Split {
	if liquidity.Gt(Precision) {
		liquidity = new(uint256.Int).Set(Precision)
	}
	return Split{
		LiquidityFraction: liquidity,
		SaleFraction:      new(uint256.Int).Sub(Precision, liquidity),
	}
}

// Kind tags the stored encoding of a formula.
type Kind uint8

const (
	BoundedKind Kind = iota + 1
	FixedKind
)

// Formula computes a split. Implementations are immutable and pure:
// identical inputs always yield identical output and no call fails.
type Formula interface {
	// ComputeSplit splits a deposit of [depositValue] native wei given
	// [currentRate], the stable wei per whole native unit.
	ComputeSplit(currentRate, depositValue *uint256.Int) Split
	Kind() Kind
	Marshal(p *codec.Packer)
}
