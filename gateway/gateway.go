// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gateway accepts native-currency deposits and splits each one
// between the liquidity manager and the token sale.
package gateway

import (
	"context"
	"fmt"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/split"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
)

// LiquidityMode selects how the liquidity leg sources project tokens.
type LiquidityMode uint8

const (
	// ReserveMode pairs native currency with tokens drawn from the liquidity
	// manager's reserve.
	ReserveMode LiquidityMode = iota
	// SwapMode buys tokens for half of the liquidity leg on the router and
	// pairs the other half.
	SwapMode
)

func (m LiquidityMode) String() string {
	switch m {
	case ReserveMode:
		return "reserve"
	case SwapMode:
		return "swap"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

func ParseLiquidityMode(s string) (LiquidityMode, error) {
	switch s {
	case "", "reserve":
		return ReserveMode, nil
	case "swap":
		return SwapMode, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Gateway is the configuration stored at a gateway address.
type Gateway struct {
	Owner        codec.Address `json:"owner"`
	WETH         codec.Address `json:"weth"`
	Router       codec.Address `json:"router"`
	Token        codec.Address `json:"token"`
	Stable       codec.Address `json:"stable"`
	Sale         codec.Address `json:"sale"`
	LDManager    codec.Address `json:"ldManager"`
	SplitFormula codec.Address `json:"splitFormula"`
	DAOWallet    codec.Address `json:"daoWallet"`

	IsCutActive   bool          `json:"isCutActive"`
	CutPercent    uint64        `json:"cutPercent"`
	LiquidityMode LiquidityMode `json:"liquidityMode"`
}

func (g *Gateway) Marshal(p *codec.Packer) {
	p.PackAddress(g.Owner)
	p.PackAddress(g.WETH)
	p.PackAddress(g.Router)
	p.PackAddress(g.Token)
	p.PackAddress(g.Stable)
	p.PackAddress(g.Sale)
	p.PackAddress(g.LDManager)
	p.PackAddress(g.SplitFormula)
	p.PackAddress(g.DAOWallet)
	p.PackBool(g.IsCutActive)
	p.PackUint64(g.CutPercent)
	p.PackByte(byte(g.LiquidityMode))
}

func (g *Gateway) Unmarshal(p *codec.Packer) {
	p.UnpackAddress(&g.Owner)
	p.UnpackAddress(&g.WETH)
	p.UnpackAddress(&g.Router)
	p.UnpackAddress(&g.Token)
	p.UnpackAddress(&g.Stable)
	p.UnpackAddress(&g.Sale)
	p.UnpackAddress(&g.LDManager)
	p.UnpackAddress(&g.SplitFormula)
	p.UnpackAddress(&g.DAOWallet)
	g.IsCutActive = p.UnpackBool()
	g.CutPercent = p.UnpackUint64(false)
	g.LiquidityMode = LiquidityMode(p.UnpackByte())
}

func (g *Gateway) verify(ctx context.Context, im state.Immutable) error {
	if g.CutPercent > 100 {
		return ErrInvalidCutPercent
	}
	if g.LiquidityMode != ReserveMode && g.LiquidityMode != SwapMode {
		return fmt.Errorf("%w: %s", ErrUnknownMode, g.LiquidityMode)
	}
	if _, err := split.Load(ctx, im, g.SplitFormula); err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownFormula, err)
	}
	return nil
}

// Deploy stores [g] at a fresh gateway address owned by g.Owner.
func Deploy(ctx context.Context, mu state.Mutable, g *Gateway) (codec.Address, error) {
	if err := g.verify(ctx, mu); err != nil {
		return codec.EmptyAddress, err
	}
	addr, err := storage.DeployAddress(ctx, mu, g.Owner, consts.GatewayID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return addr, storage.SetRecord(ctx, mu, storage.GatewayKey(addr), g)
}

func Get(ctx context.Context, im state.Immutable, gateway codec.Address) (*Gateway, error) {
	var g Gateway
	found, err := storage.GetRecord(ctx, im, storage.GatewayKey(gateway), &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrGatewayNotFound
	}
	return &g, nil
}

func IsCutActive(ctx context.Context, im state.Immutable, gateway codec.Address) (bool, error) {
	g, err := Get(ctx, im, gateway)
	if err != nil {
		return false, err
	}
	return g.IsCutActive, nil
}

// SplitFormula returns the address of the active split formula.
func SplitFormula(ctx context.Context, im state.Immutable, gateway codec.Address) (codec.Address, error) {
	g, err := Get(ctx, im, gateway)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return g.SplitFormula, nil
}

func DAOWallet(ctx context.Context, im state.Immutable, gateway codec.Address) (codec.Address, error) {
	g, err := Get(ctx, im, gateway)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return g.DAOWallet, nil
}
