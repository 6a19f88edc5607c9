// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/gateway"
	"github.com/fetch-ld/ldengine/utils"
)

func newQuoteCmd(c *cli) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "quote <amount>",
		Short: "Show how a deposit would be split without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, err := utils.ParseAmount(args[0])
			if err != nil {
				return err
			}
			n, err := open(c.config, false)
			if err != nil {
				return err
			}
			defer n.Close()

			d, err := n.deployment(ctx)
			if err != nil {
				return err
			}
			from, err := resolve(actor, d)
			if err != nil {
				return err
			}
			output, _, err := n.engine.Simulate(ctx, from, &actions.Deposit{Gateway: d.Gateway, Value: amount})
			if err != nil {
				return err
			}
			printReceipt(output.(*actions.DepositResult).Receipt)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "alice", "depositing account")
	return cmd
}

func printReceipt(r *gateway.Receipt) {
	utils.Outf("{{yellow}}deposit:{{/}} %s\n", utils.FormatAmount(r.AmountIn))
	utils.Outf("{{yellow}}cut:{{/}} %s\n", utils.FormatAmount(r.Cut))
	utils.Outf("{{yellow}}rate:{{/}} %s stable per native\n", utils.FormatAmount(r.Rate.NativeInStable))
	utils.Outf("{{yellow}}value:{{/}} %s stable\n", utils.FormatAmount(r.Value))
	utils.Outf(
		"{{yellow}}split:{{/}} %s liquidity / %s sale\n",
		utils.FormatAmount(r.Split.LiquidityFraction),
		utils.FormatAmount(r.Split.SaleFraction),
	)
	utils.Outf("{{yellow}}liquidity native:{{/}} %s", utils.FormatAmount(r.LiquidityNative))
	if !r.SwappedNative.IsZero() {
		utils.Outf(" (%s swapped)", utils.FormatAmount(r.SwappedNative))
	}
	utils.Outf("\n")
	if r.Position != nil {
		utils.Outf("{{yellow}}position:{{/}} %d holding %s LP\n", r.Position.ID, utils.FormatAmount(r.Position.Liquidity))
	}
	utils.Outf("{{yellow}}sale native:{{/}} %s\n", utils.FormatAmount(r.SaleNative))
	utils.Outf("{{yellow}}tokens bought:{{/}} %s\n", utils.FormatAmount(r.TokensBought))
	if !r.Refunded.IsZero() {
		utils.Outf("{{yellow}}refunded to treasury:{{/}} %s\n", utils.FormatAmount(r.Refunded))
	}
}
