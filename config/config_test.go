// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/fetch-ld/ldengine/trace"
)

func TestDefaultIsValid(t *testing.T) {
	require := require.New(t)
	c := NewDefault()
	require.NoError(c.Validate())
	require.Equal(logging.Info, c.GetLogLevel())
	require.False(c.GetTraceConfig().Enabled)
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "yaml",
			raw: `
log:
  level: debug
databaseDir: ""
keeper:
  enabled: true
  schedule: "0 0 * * * *"
  mode: rebalance
shutdownTimeout: 5s
`,
		},
		{
			name: "json",
			raw:  `{"log":{"level":"debug"},"databaseDir":"","keeper":{"enabled":true,"schedule":"0 0 * * * *","mode":"rebalance"},"shutdownTimeout":5000000000}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c, err := Unmarshal([]byte(tt.raw))
			require.NoError(err)
			require.Equal(logging.Debug, c.GetLogLevel())
			// unset fields keep their defaults
			require.Equal(logging.Info, c.GetDisplayLevel())
			require.Empty(c.DatabaseDir)
			require.True(c.Keeper.Enabled)
			require.Equal(RebalanceMode, c.Keeper.Mode)
			require.Equal("deployer", c.Keeper.Operator)
			require.Equal(5*time.Second, c.ShutdownTimeout)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{
			name:   "missing log directory",
			modify: func(c *Config) { c.Log.Directory = "" },
			err:    ErrMissingDirectory,
		},
		{
			name:   "missing api address",
			modify: func(c *Config) { c.API.Addr = "" },
			err:    ErrMissingAPIAddress,
		},
		{
			name: "tracing without endpoint",
			modify: func(c *Config) {
				c.Trace.Enabled = true
				c.Trace.Endpoint = ""
			},
			err: trace.ErrMissingEndpoint,
		},
		{
			name: "bad schedule",
			modify: func(c *Config) {
				c.Keeper.Enabled = true
				c.Keeper.Schedule = "sometimes"
			},
			err: ErrInvalidSchedule,
		},
		{
			name: "bad mode",
			modify: func(c *Config) {
				c.Keeper.Enabled = true
				c.Keeper.Mode = "sell"
			},
			err: ErrInvalidKeeperMode,
		},
		{
			name: "disabled keeper is not checked",
			modify: func(c *Config) {
				c.Keeper.Schedule = "sometimes"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDefault()
			tt.modify(c)
			require.ErrorIs(t, c.Validate(), tt.err)
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	c := NewDefault()
	c.Log.Level = "loud"
	require.Error(t, c.Validate())
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "config.yaml")
	require.NoError(os.WriteFile(path, []byte("api:\n  addr: 127.0.0.1:9000\n"), 0o600))
	c, err := Load(path)
	require.NoError(err)
	require.Equal("127.0.0.1:9000", c.API.Addr)
	require.Equal([]string{"localhost"}, c.API.AllowedHosts)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(err, os.ErrNotExist)

	_, err = Unmarshal([]byte("key: [unclosed"))
	require.ErrorIs(err, ErrInvalidFormat)
}
