// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keeper periodically settles liquidity positions whose
// anti-dumping delay has elapsed.
package keeper

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/config"
	"github.com/fetch-ld/ldengine/engine"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/state"
)

type Keeper struct {
	log      logging.Logger
	engine   *engine.Engine
	manager  codec.Address
	operator codec.Address
	mode     string

	cron *cron.Cron
}

// New returns a keeper settling positions of [manager] as [operator].
func New(
	log logging.Logger,
	e *engine.Engine,
	manager codec.Address,
	operator codec.Address,
	mode string,
) (*Keeper, error) {
	switch mode {
	case config.ReleaseMode, config.RebalanceMode:
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidKeeperMode, mode)
	}
	return &Keeper{
		log:      log,
		engine:   e,
		manager:  manager,
		operator: operator,
		mode:     mode,
		cron:     cron.New(cron.WithSeconds()),
	}, nil
}

// Schedule registers a settlement pass at every tick of [spec].
func (k *Keeper) Schedule(ctx context.Context, spec string) error {
	if _, err := k.cron.AddFunc(spec, func() {
		if _, err := k.Settle(ctx); err != nil {
			k.log.Warn("settlement pass failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidSchedule, err)
	}
	return nil
}

func (k *Keeper) Start() {
	k.cron.Start()
	k.log.Info("keeper started", zap.String("mode", k.mode))
}

// Stop waits for a running pass to finish.
func (k *Keeper) Stop() {
	<-k.cron.Stop().Done()
	k.log.Info("keeper stopped")
}

func (k *Keeper) action(id uint64) actions.Action {
	if k.mode == config.RebalanceMode {
		return &actions.RebalanceMatured{Manager: k.manager, PositionID: id}
	}
	return &actions.ReleaseMatured{Manager: k.manager, PositionID: id}
}

// Settle releases or rebalances every matured position and returns how
// many were settled. A position that fails is logged and left for the next
// pass.
func (k *Keeper) Settle(ctx context.Context) (int, error) {
	var pending []*ldmanager.Position
	if err := k.engine.Read(ctx, func(ctx context.Context, im state.Immutable) error {
		var err error
		pending, err = ldmanager.Pending(ctx, im, k.manager)
		return err
	}); err != nil {
		return 0, err
	}

	now := k.engine.Now()
	settled := 0
	for _, p := range pending {
		if !p.Matured(now) {
			continue
		}
		if _, err := k.engine.Execute(ctx, k.operator, k.action(p.ID)); err != nil {
			k.log.Warn("unable to settle position",
				zap.Uint64("id", p.ID),
				zap.Error(err),
			)
			continue
		}
		settled++
	}
	if settled > 0 {
		k.log.Info("settled matured positions",
			zap.Int("settled", settled),
			zap.Int("pending", len(pending)-settled),
		)
	}
	return settled, nil
}
