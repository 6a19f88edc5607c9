// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/config"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/engine"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/keeper"
	"github.com/fetch-ld/ldengine/oracle"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/token"
	"github.com/fetch-ld/ldengine/utils"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// scenario is a genesis plan followed by deposits, replayed against an
// in-memory engine.
type scenario struct {
	Genesis  *genesis.Plan `json:"genesis" yaml:"genesis"`
	Deposits []*step      `json:"deposits" yaml:"deposits"`
}

type step struct {
	Account string `json:"account" yaml:"account"`
	Amount  string `json:"amount" yaml:"amount"`
	// AdvanceDays moves the clock forward before the deposit and settles
	// every position that matured meanwhile.
	AdvanceDays int64 `json:"advanceDays" yaml:"advanceDays"`
}

func loadScenario(path string) (*scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &scenario{}
	if json.Valid(b) {
		err = json.Unmarshal(b, s)
	} else {
		err = yaml.Unmarshal(b, s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if s.Genesis == nil {
		s.Genesis = genesis.DefaultPlan()
	}
	return s, nil
}

func newRunCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario>",
		Short: "Replay a scenario against a fresh in-memory deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			n, err := open(c.config, true)
			if err != nil {
				return err
			}
			defer n.Close()

			return replay(cmd.Context(), n, s)
		},
	}
}

func replay(ctx context.Context, n *node, s *scenario) error {
	e := n.engine
	d, err := e.Initialize(ctx, s.Genesis)
	if err != nil {
		return err
	}
	k, err := keeper.New(n.log, e, d.LDManager, d.Owner, config.ReleaseMode)
	if err != nil {
		return err
	}
	rates := oracle.New(d.Router, d.Token, d.Stable)
	for i, st := range s.Deposits {
		if st.AdvanceDays > 0 {
			n.clock.Set(n.clock.Time().Add(time.Duration(st.AdvanceDays*consts.MillisecondsPerDay) * time.Millisecond))
			settled, err := k.Settle(ctx)
			if err != nil {
				return err
			}
			if settled > 0 {
				utils.Outf("{{green}}released %d matured positions{{/}}\n", settled)
			}
		}
		depositor, err := genesis.ResolveAccount(st.Account)
		if err != nil {
			return err
		}
		amount, err := utils.ParseAmount(st.Amount)
		if err != nil {
			return err
		}

		before, err := liquidity(ctx, e, d)
		if err != nil {
			return err
		}
		utils.Outf("{{cyan}}deposit %d:{{/}} %s deposits %s\n", i, st.Account, st.Amount)
		before.print("before")
		r, err := e.Execute(ctx, depositor, &actions.Deposit{Gateway: d.Gateway, Value: amount})
		if err != nil {
			utils.Outf("{{red}}deposit failed:{{/}} %v\n", err)
			continue
		}
		printReceipt(r.Output.(*actions.DepositResult).Receipt)
		after, err := liquidity(ctx, e, d)
		if err != nil {
			return err
		}
		after.print("after")

		var rate *oracle.Rate
		if err := e.Read(ctx, func(ctx context.Context, im state.Immutable) error {
			rate, err = rates.Rate(ctx, im)
			return err
		}); err != nil {
			return err
		}
		utils.Outf(
			"rate after deposit: 1 token = %s native, 1 native = %s stable\n\n",
			utils.FormatAmount(rate.TokenInNative),
			utils.FormatAmount(rate.NativeInStable),
		)
	}
	return nil
}

// pool is the liquidity depth of the token pair.
type pool struct {
	// Native is the wrapped native currency the pair holds.
	Native *uint256.Int
	// ManagerLP is the pool share the liquidity manager holds.
	ManagerLP *uint256.Int
}

func (p *pool) print(when string) {
	utils.Outf(
		"Total LD %s: %s native (%s LP held by the manager)\n",
		when, utils.FormatAmount(p.Native), utils.FormatAmount(p.ManagerLP),
	)
}

func liquidity(ctx context.Context, e *engine.Engine, d *genesis.Deployment) (*pool, error) {
	p := &pool{}
	err := e.Read(ctx, func(ctx context.Context, im state.Immutable) error {
		var err error
		p.Native, err = token.BalanceOf(ctx, im, d.WETH, d.TokenPair)
		if err != nil {
			return err
		}
		p.ManagerLP, err = token.BalanceOf(ctx, im, d.TokenPair, d.LDManager)
		return err
	})
	return p, err
}
