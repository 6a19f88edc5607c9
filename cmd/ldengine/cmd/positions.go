// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/utils"
)

func newPositionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "List open liquidity positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			n, err := open(c.config, false)
			if err != nil {
				return err
			}
			defer n.Close()

			d, err := n.deployment(ctx)
			if err != nil {
				return err
			}
			var pending []*ldmanager.Position
			if err := n.engine.Read(ctx, func(ctx context.Context, im state.Immutable) error {
				pending, err = ldmanager.Pending(ctx, im, d.LDManager)
				return err
			}); err != nil {
				return err
			}
			if len(pending) == 0 {
				utils.Outf("{{yellow}}no open positions{{/}}\n")
				return nil
			}
			now := n.engine.Now()
			for _, p := range pending {
				status := "{{red}}locked{{/}}"
				if p.Matured(now) {
					status = "{{green}}matured{{/}}"
				}
				utils.Outf(
					"%d: %s LP (%s native, %s tokens) unlocks %s "+status+"\n",
					p.ID,
					utils.FormatAmount(p.Liquidity),
					utils.FormatAmount(p.Native),
					utils.FormatAmount(p.Token),
					time.UnixMilli(p.UnlockAt).UTC().Format(time.RFC3339),
				)
			}
			return nil
		},
	}
}
