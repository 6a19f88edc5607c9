// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/utils"
)

func newInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init [plan]",
		Short: "Deploy the contract set into an empty database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := genesis.DefaultPlan()
			path := c.config.GenesisPath
			if len(args) == 1 {
				path = args[0]
			}
			if len(path) > 0 {
				var err error
				p, err = genesis.LoadPlan(path)
				if err != nil {
					return err
				}
			}

			n, err := open(c.config, false)
			if err != nil {
				return err
			}
			defer n.Close()

			d, err := n.engine.Initialize(cmd.Context(), p)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}initialized{{/}} %s\n", c.config.DatabaseDir)
			printDeployment(d)
			return nil
		},
	}
}
