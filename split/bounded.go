// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package split

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
)

// Policy selects what happens once the deposit value passes the upper bound.
type Policy uint8

const (
	// Cap holds the liquidity leg at MaxLDValue; everything above goes to
	// the sale.
	Cap Policy = iota
	// Taper holds the liquidity fraction at MaxLiquidityShare, so the
	// liquidity leg keeps growing with the deposit.
	Taper
)

func (p Policy) String() string {
	switch p {
	case Cap:
		return "cap"
	case Taper:
		return "taper"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy parses "cap" or "taper".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "cap":
		return Cap, nil
	case "taper":
		return Taper, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidBounds, s)
	}
}

// Config configures a [Bounded] formula. Bounds are in stable wei.
type Config struct {
	ReferenceRate     *uint256.Int `json:"referenceRate"`
	MinLDValue        *uint256.Int `json:"minLDValue"`
	MaxLDValue        *uint256.Int `json:"maxLDValue"`
	MaxLiquidityShare *uint256.Int `json:"maxLiquidityShare"`
	Policy            Policy       `json:"policy"`

	Router      codec.Address `json:"router"`
	Pair        codec.Address `json:"pair"`
	Token       codec.Address `json:"token"`
	StableToken codec.Address `json:"stableToken"`
}

var _ Formula = (*Bounded)(nil)

// Bounded ramps the liquidity fraction linearly between MinLDValue and
// MaxLDValue of deposit value.
type Bounded struct {
	cfg Config
}

// New validates [cfg] and returns the formula.
func New(cfg Config) (*Bounded, error) {
	if cfg.MinLDValue == nil || cfg.MaxLDValue == nil || !cfg.MinLDValue.Lt(cfg.MaxLDValue) {
		return nil, fmt.Errorf("%w: minLDValue must be below maxLDValue", ErrInvalidBounds)
	}
	if cfg.ReferenceRate == nil || cfg.ReferenceRate.IsZero() {
		return nil, fmt.Errorf("%w: reference rate is zero", ErrInvalidBounds)
	}
	if cfg.MaxLiquidityShare == nil {
		cfg.MaxLiquidityShare = new(uint256.Int).Set(Precision)
	}
	if cfg.MaxLiquidityShare.Gt(Precision) {
		return nil, fmt.Errorf("%w: max liquidity share above 100%%", ErrInvalidBounds)
	}
	if cfg.Policy != Cap && cfg.Policy != Taper {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBounds, cfg.Policy)
	}
	return &Bounded{cfg: cfg}, nil
}

// Config returns a copy of the formula's configuration.
func (b *Bounded) Config() Config {
	return b.cfg
}

func (*Bounded) Kind() Kind {
	return BoundedKind
}

// ComputeSplit implements [Formula]. A zero [currentRate] falls back to the
// reference rate.
func (b *Bounded) ComputeSplit(currentRate, depositValue *uint256.Int) Split {
	rate := currentRate
	if rate == nil || rate.IsZero() {
		rate = b.cfg.ReferenceRate
	}
	value, overflow := new(uint256.Int).MulDivOverflow(depositValue, rate, Precision)
	if overflow {
		value = new(uint256.Int).SetAllOne()
	}

	share := b.cfg.MaxLiquidityShare
	switch {
	case value.Lt(b.cfg.MinLDValue):
		return newSplit(new(uint256.Int))
	case !value.Gt(b.cfg.MaxLDValue):
		span := new(uint256.Int).Sub(b.cfg.MaxLDValue, b.cfg.MinLDValue)
		above := new(uint256.Int).Sub(value, b.cfg.MinLDValue)
		fraction, _ := new(uint256.Int).MulDivOverflow(share, above, span)
		return newSplit(fraction)
	case b.cfg.Policy == Taper:
		return newSplit(new(uint256.Int).Set(share))
	default:
		fraction, _ := new(uint256.Int).MulDivOverflow(share, b.cfg.MaxLDValue, value)
		return newSplit(fraction)
	}
}

func (b *Bounded) Marshal(p *codec.Packer) {
	p.PackByte(byte(BoundedKind))
	p.PackUint256(b.cfg.ReferenceRate)
	p.PackUint256(b.cfg.MinLDValue)
	p.PackUint256(b.cfg.MaxLDValue)
	p.PackUint256(b.cfg.MaxLiquidityShare)
	p.PackByte(byte(b.cfg.Policy))
	p.PackAddress(b.cfg.Router)
	p.PackAddress(b.cfg.Pair)
	p.PackAddress(b.cfg.Token)
	p.PackAddress(b.cfg.StableToken)
}

func unmarshalBounded(p *codec.Packer) (*Bounded, error) {
	var cfg Config
	cfg.ReferenceRate = p.UnpackUint256(true)
	cfg.MinLDValue = p.UnpackUint256(false)
	cfg.MaxLDValue = p.UnpackUint256(true)
	cfg.MaxLiquidityShare = p.UnpackUint256(false)
	cfg.Policy = Policy(p.UnpackByte())
	p.UnpackAddress(&cfg.Router)
	p.UnpackAddress(&cfg.Pair)
	p.UnpackAddress(&cfg.Token)
	p.UnpackAddress(&cfg.StableToken)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return New(cfg)
}
