// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package genesis deploys the full contract set an engine starts from.
package genesis

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/amm"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/gateway"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/sale"
	"github.com/fetch-ld/ldengine/split"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
)

var ErrPairCodeHashMismatch = errors.New("pair code hash mismatch")

// Deployment holds the address of every contract created at genesis.
type Deployment struct {
	Owner      codec.Address `json:"owner"`
	DAOWallet  codec.Address `json:"daoWallet"`
	SaleWallet codec.Address `json:"saleWallet"`

	WETH       codec.Address `json:"weth"`
	Token      codec.Address `json:"token"`
	Stable     codec.Address `json:"stable"`
	Factory    codec.Address `json:"factory"`
	Router     codec.Address `json:"router"`
	TokenPair  codec.Address `json:"tokenPair"`
	StablePair codec.Address `json:"stablePair"`

	// Formula is active on the gateway; AltFormula is an identical copy
	// available for switching.
	Formula    codec.Address `json:"formula"`
	AltFormula codec.Address `json:"altFormula"`
	LDManager  codec.Address `json:"ldManager"`
	Sale       codec.Address `json:"sale"`
	Gateway    codec.Address `json:"gateway"`

	Accounts map[string]codec.Address `json:"accounts"`
}

// InitializeState deploys [p] into [mu] as of [now].
func InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable, p *Plan, now int64) (*Deployment, error) {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	b := &builder{plan: p, mu: mu, now: now, d: &Deployment{Accounts: map[string]codec.Address{}}}
	for _, step := range []struct {
		name string
		run  func(context.Context) error
	}{
		{"accounts", b.accounts},
		{"assets", b.assets},
		{"amm", b.amm},
		{"contracts", b.contracts},
		{"exclusions", b.exclusions},
		{"pools", b.pools},
		{"reserves", b.reserves},
		{"allocations", b.allocations},
	} {
		if err := step.run(ctx); err != nil {
			return nil, fmt.Errorf("genesis %s: %w", step.name, err)
		}
	}
	return b.d, nil
}

type builder struct {
	plan *Plan
	mu   state.Mutable
	now  int64
	d    *Deployment
}

func (b *builder) accounts(context.Context) error {
	var err error
	b.d.Owner, err = ResolveAccount(b.plan.Owner)
	if err != nil {
		return err
	}
	b.d.DAOWallet, b.d.SaleWallet = b.d.Owner, b.d.Owner
	if len(b.plan.DAOWallet) > 0 {
		if b.d.DAOWallet, err = ResolveAccount(b.plan.DAOWallet); err != nil {
			return err
		}
	}
	if len(b.plan.SaleWallet) > 0 {
		if b.d.SaleWallet, err = ResolveAccount(b.plan.SaleWallet); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) createAsset(ctx context.Context, t TokenPlan) (codec.Address, error) {
	maxTransfer, err := amount(t.Symbol+" maxTransfer", t.MaxTransfer)
	if err != nil {
		return codec.EmptyAddress, err
	}
	supply, err := amount(t.Symbol+" totalSupply", t.TotalSupply)
	if err != nil {
		return codec.EmptyAddress, err
	}
	addr, err := token.Create(ctx, b.mu, b.d.Owner, t.Name, t.Symbol, t.FeePercent, b.d.Owner, maxTransfer)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return addr, token.Mint(ctx, b.mu, addr, b.d.Owner, supply)
}

func (b *builder) assets(ctx context.Context) error {
	native, err := amount("nativeSupply", b.plan.NativeSupply)
	if err != nil {
		return err
	}
	if err := token.Mint(ctx, b.mu, storage.NativeAsset, b.d.Owner, native); err != nil {
		return err
	}
	b.d.WETH, err = token.Create(ctx, b.mu, b.d.Owner, "Wrapped Native", "WETH", 0, codec.EmptyAddress, nil)
	if err != nil {
		return err
	}
	b.d.Token, err = b.createAsset(ctx, b.plan.Token)
	if err != nil {
		return err
	}
	b.d.Stable, err = b.createAsset(ctx, b.plan.Stable)
	return err
}

func (b *builder) amm(ctx context.Context) error {
	if len(b.plan.PairCodeHash) > 0 {
		expected, err := ids.FromString(b.plan.PairCodeHash)
		if err != nil {
			return fmt.Errorf("%w: pairCodeHash: %w", ErrInvalidPlan, err)
		}
		if actual := amm.PairCodeHash(); actual != expected {
			return fmt.Errorf("%w: expected %s, got %s", ErrPairCodeHashMismatch, expected, actual)
		}
	}
	var err error
	b.d.Factory, err = amm.DeployFactory(ctx, b.mu, b.d.Owner)
	if err != nil {
		return err
	}
	b.d.Router, err = amm.DeployRouter(ctx, b.mu, b.d.Owner, b.d.Factory, b.d.WETH)
	if err != nil {
		return err
	}
	b.d.TokenPair, err = amm.CreatePair(ctx, b.mu, b.d.Factory, b.d.Token, b.d.WETH)
	if err != nil {
		return err
	}
	b.d.StablePair, err = amm.CreatePair(ctx, b.mu, b.d.Factory, b.d.Stable, b.d.WETH)
	return err
}

func (b *builder) formulaConfig() (split.Config, error) {
	f := b.plan.Formula
	cfg := split.Config{
		Router:      b.d.Router,
		Pair:        b.d.StablePair,
		Token:       b.d.Token,
		StableToken: b.d.Stable,
	}
	var err error
	if cfg.ReferenceRate, err = amount("referenceRate", f.ReferenceRate); err != nil {
		return cfg, err
	}
	if cfg.MinLDValue, err = amount("minLDValue", f.MinLDValue); err != nil {
		return cfg, err
	}
	if cfg.MaxLDValue, err = amount("maxLDValue", f.MaxLDValue); err != nil {
		return cfg, err
	}
	if len(f.MaxLiquidityShare) > 0 {
		if cfg.MaxLiquidityShare, err = amount("maxLiquidityShare", f.MaxLiquidityShare); err != nil {
			return cfg, err
		}
	}
	cfg.Policy, err = split.ParsePolicy(f.Policy)
	return cfg, err
}

func (b *builder) contracts(ctx context.Context) error {
	cfg, err := b.formulaConfig()
	if err != nil {
		return err
	}
	for _, dest := range []*codec.Address{&b.d.Formula, &b.d.AltFormula} {
		f, err := split.New(cfg)
		if err != nil {
			return err
		}
		if *dest, err = split.Deploy(ctx, b.mu, b.d.Owner, f); err != nil {
			return err
		}
	}
	if b.plan.AntiDumpingDelayDays < 0 {
		return fmt.Errorf("%w: negative anti-dumping delay", ErrInvalidPlan)
	}
	delay := b.plan.AntiDumpingDelayDays * consts.MillisecondsPerDay
	b.d.LDManager, err = ldmanager.Deploy(ctx, b.mu, b.d.Owner, b.d.Router, b.d.Token, delay)
	if err != nil {
		return err
	}
	b.d.Sale, err = sale.Deploy(ctx, b.mu, b.d.Owner, b.d.Token, b.d.Router, b.d.SaleWallet)
	if err != nil {
		return err
	}
	mode, err := gateway.ParseLiquidityMode(b.plan.LiquidityMode)
	if err != nil {
		return err
	}
	b.d.Gateway, err = gateway.Deploy(ctx, b.mu, &gateway.Gateway{
		Owner:         b.d.Owner,
		WETH:          b.d.WETH,
		Router:        b.d.Router,
		Token:         b.d.Token,
		Stable:        b.d.Stable,
		Sale:          b.d.Sale,
		LDManager:     b.d.LDManager,
		SplitFormula:  b.d.Formula,
		DAOWallet:     b.d.DAOWallet,
		IsCutActive:   b.plan.CutActive,
		CutPercent:    b.plan.CutPercent,
		LiquidityMode: mode,
	})
	if err != nil {
		return err
	}
	if err := ldmanager.UpdateOperator(ctx, b.mu, b.d.LDManager, b.d.Owner, b.d.Gateway, true); err != nil {
		return err
	}
	return sale.UpdateWhiteList(ctx, b.mu, b.d.Sale, b.d.Owner, b.d.Gateway, true)
}

// exclusions frees the engine's own contracts from the token's transfer fee
// and limit. The pool and router are only limit-exempt so swaps still pay
// the fee.
func (b *builder) exclusions(ctx context.Context) error {
	for _, account := range []codec.Address{b.d.Owner, b.d.Gateway, b.d.Sale, b.d.LDManager} {
		if err := token.ExcludeFromFee(ctx, b.mu, b.d.Token, b.d.Owner, account, true); err != nil {
			return err
		}
	}
	for _, account := range []codec.Address{b.d.Owner, b.d.Gateway, b.d.Sale, b.d.LDManager, b.d.Router, b.d.TokenPair} {
		if err := token.ExcludeFromTransferLimit(ctx, b.mu, b.d.Token, b.d.Owner, account, true); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) seed(ctx context.Context, asset codec.Address, native, amount *uint256.Int) error {
	if err := token.Approve(ctx, b.mu, asset, b.d.Owner, b.d.Router, amount); err != nil {
		return err
	}
	_, err := amm.AddLiquidityETH(
		ctx, b.mu, b.d.Router, b.d.Owner,
		native, asset, amount,
		new(uint256.Int), new(uint256.Int),
		b.d.Owner, b.now, b.now,
	)
	return err
}

func (b *builder) pools(ctx context.Context) error {
	tokenNative, err := amount("tokenPoolNative", b.plan.TokenPoolNative)
	if err != nil {
		return err
	}
	supply, err := token.BalanceOf(ctx, b.mu, b.d.Token, b.d.Owner)
	if err != nil {
		return err
	}
	half := new(uint256.Int).Rsh(supply, 1)
	if err := b.seed(ctx, b.d.Token, tokenNative, half); err != nil {
		return fmt.Errorf("token pool: %w", err)
	}
	stableNative, err := amount("stablePoolNative", b.plan.StablePoolNative)
	if err != nil {
		return err
	}
	stableAmount, err := amount("stablePoolAmount", b.plan.StablePoolAmount)
	if err != nil {
		return err
	}
	if err := b.seed(ctx, b.d.Stable, stableNative, stableAmount); err != nil {
		return fmt.Errorf("stable pool: %w", err)
	}
	return nil
}

// reserves splits the owner's remaining tokens between the sale and the
// liquidity manager.
func (b *builder) reserves(ctx context.Context) error {
	remaining, err := token.BalanceOf(ctx, b.mu, b.d.Token, b.d.Owner)
	if err != nil {
		return err
	}
	toSale := new(uint256.Int).Rsh(remaining, 1)
	toManager := new(uint256.Int).Sub(remaining, toSale)
	if _, err := token.Transfer(ctx, b.mu, b.d.Token, b.d.Owner, b.d.Sale, toSale); err != nil {
		return err
	}
	_, err = token.Transfer(ctx, b.mu, b.d.Token, b.d.Owner, b.d.LDManager, toManager)
	return err
}

func (b *builder) allocations(ctx context.Context) error {
	for _, alloc := range b.plan.Accounts {
		addr, err := ResolveAccount(alloc.Account)
		if err != nil {
			return err
		}
		native, err := amount(alloc.Account, alloc.Native)
		if err != nil {
			return err
		}
		if err := token.Mint(ctx, b.mu, storage.NativeAsset, addr, native); err != nil {
			return err
		}
		b.d.Accounts[alloc.Account] = addr
	}
	return nil
}
