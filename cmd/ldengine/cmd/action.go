// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/utils"
)

func newActionCmd(c *cli) *cobra.Command {
	var (
		actor    string
		simulate bool
	)
	cmd := &cobra.Command{
		Use:   "action [name] [params]",
		Short: "Execute one action",
		Long: `Execute one action against the database. Params are the action's JSON
fields; $name expands to the address of a deployed contract or account, for
example '{"gateway":"$gateway","value":"1000000000000000000"}'. Without
arguments the action, actor and params are prompted for.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if len(args) == 0 {
				name, err := promptAction()
				if err != nil {
					return err
				}
				actor, err = promptActor(actor, d)
				if err != nil {
					return err
				}
				params, err := promptParams(d)
				if err != nil {
					return err
				}
				args = []string{name, params}
			}
			from, err := resolve(actor, d)
			if err != nil {
				return err
			}
			var params []byte
			if len(args) == 2 {
				params = []byte(expand(args[1], d))
			}
			a, err := actions.Parse(args[0], params)
			if err != nil {
				return err
			}

			if simulate {
				output, keys, err := n.engine.Simulate(ctx, from, a)
				if err != nil {
					return err
				}
				utils.Outf("{{yellow}}simulated{{/}} %s touching %d keys\n", args[0], len(keys))
				return printJSON(output)
			}
			r, err := n.engine.Execute(ctx, from, a)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}executed{{/}} %s with %d state changes\n", r.Action, r.StateChanges)
			return printJSON(r.Output)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "deployer", "account name, $contract, or 0x address to act as")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "run without committing")
	return cmd
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	utils.Outf("%s\n", b)
	return nil
}
