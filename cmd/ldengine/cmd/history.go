// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fetch-ld/ldengine/utils"
)

func newHistoryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history [depositor]",
		Short: "List archived deposits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := open(c.config, false)
			if err != nil {
				return err
			}
			defer n.Close()

			var depositor string
			if len(args) == 1 {
				d, err := n.deployment(ctx)
				if err != nil {
					return err
				}
				addr, err := resolve(args[0], d)
				if err != nil {
					return err
				}
				depositor = addr.String()
			}
			deposits, err := n.recorder.Deposits(ctx, depositor)
			if err != nil {
				return err
			}
			for _, d := range deposits {
				utils.Outf(
					"%s {{yellow}}%s{{/}} deposited %s wei: %s wei to liquidity, %s wei to sale\n",
					time.UnixMilli(d.Timestamp).UTC().Format(time.RFC3339),
					d.Depositor,
					d.AmountIn,
					d.LiquidityNative,
					d.SaleNative,
				)
			}
			releases, err := n.recorder.Releases(ctx)
			if err != nil {
				return err
			}
			for _, r := range releases {
				utils.Outf(
					"%s {{green}}%s{{/}} position %d by %s\n",
					time.UnixMilli(r.Timestamp).UTC().Format(time.RFC3339),
					r.Action,
					r.PositionID,
					r.Actor,
				)
			}
			return nil
		},
	}
}
