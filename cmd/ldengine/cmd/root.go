// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"

	"github.com/fetch-ld/ldengine/config"
	"github.com/fetch-ld/ldengine/consts"
)

type cli struct {
	configPath string
	logLevel   string

	config *config.Config
}

func NewRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:           consts.Name,
		Short:         "Liquidity allocation engine",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a JSON or YAML config file")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newInitCmd(c),
		newRunCmd(c),
		newActionCmd(c),
		newQuoteCmd(c),
		newPositionsCmd(c),
		newHistoryCmd(c),
		newServeCmd(c),
		newVersionCmd(),
	)
	return cmd
}

func (c *cli) load() error {
	c.config = config.NewDefault()
	if len(c.configPath) > 0 {
		var err error
		c.config, err = config.Load(c.configPath)
		if err != nil {
			return err
		}
	}
	if len(c.logLevel) > 0 {
		if _, err := logging.ToLevel(c.logLevel); err != nil {
			return err
		}
		c.config.Log.Level = c.logLevel
		c.config.Log.DisplayLevel = c.logLevel
	}
	return nil
}
