// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the runtime settings of the ldengine daemon. Files
// may be written in JSON or YAML; unset fields keep their defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v2"

	"github.com/fetch-ld/ldengine/pebble"
	"github.com/fetch-ld/ldengine/pubsub"
	"github.com/fetch-ld/ldengine/server"
	"github.com/fetch-ld/ldengine/trace"
)

const (
	ReleaseMode   = "release"
	RebalanceMode = "rebalance"
)

var (
	ErrInvalidFormat     = errors.New("config is neither JSON nor YAML")
	ErrMissingDirectory  = errors.New("missing directory")
	ErrInvalidSchedule   = errors.New("invalid keeper schedule")
	ErrInvalidKeeperMode = errors.New("invalid keeper mode")
	ErrMissingAPIAddress = errors.New("missing api address")
)

type LogConfig struct {
	Level        string `json:"level" yaml:"level"`
	DisplayLevel string `json:"displayLevel" yaml:"displayLevel"`
	Directory    string `json:"directory" yaml:"directory"`
	// MaxSize is in megabytes, MaxAge in days.
	MaxSize  int  `json:"maxSize" yaml:"maxSize"`
	MaxFiles int  `json:"maxFiles" yaml:"maxFiles"`
	MaxAge   int  `json:"maxAge" yaml:"maxAge"`
	Compress bool `json:"compress" yaml:"compress"`
}

// KeeperConfig schedules the job that settles matured liquidity positions.
type KeeperConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Schedule is a cron spec with a leading seconds field.
	Schedule string `json:"schedule" yaml:"schedule"`
	// Mode is [ReleaseMode] to hand LP tokens to the manager owner or
	// [RebalanceMode] to redeem them.
	Mode string `json:"mode" yaml:"mode"`
	// Operator is the account the keeper acts as. It must own or operate the
	// liquidity manager.
	Operator string `json:"operator" yaml:"operator"`
}

// APIConfig exposes JSON-RPC, websocket and metrics endpoints on one
// listener.
type APIConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowedOrigins" yaml:"allowedOrigins"`
	AllowedHosts   []string `json:"allowedHosts" yaml:"allowedHosts"`

	HTTP      server.HTTPConfig   `json:"http" yaml:"http"`
	WebSocket pubsub.ServerConfig `json:"webSocket" yaml:"webSocket"`
}

type Config struct {
	Log LogConfig `json:"log" yaml:"log"`

	// DatabaseDir is where pebble keeps state. Empty keeps state in memory.
	DatabaseDir string        `json:"databaseDir" yaml:"databaseDir"`
	Database    pebble.Config `json:"database" yaml:"database"`
	GenesisPath string        `json:"genesisPath" yaml:"genesisPath"`
	// RecorderPath is the sqlite file accepted actions are archived to.
	// Empty disables the archive.
	RecorderPath string `json:"recorderPath" yaml:"recorderPath"`

	API    APIConfig    `json:"api" yaml:"api"`
	Trace  trace.Config `json:"trace" yaml:"trace"`
	Keeper KeeperConfig `json:"keeper" yaml:"keeper"`

	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

func NewDefault() *Config {
	return &Config{
		Log: LogConfig{
			Level:        logging.Info.String(),
			DisplayLevel: logging.Info.String(),
			Directory:    ".ldengine/logs",
			MaxSize:      8,
			MaxFiles:     5,
			MaxAge:       7,
		},
		DatabaseDir:  ".ldengine/db",
		Database:     pebble.NewDefaultConfig(),
		RecorderPath: ".ldengine/history.db",
		API: APIConfig{
			Addr:           "127.0.0.1:9650",
			AllowedOrigins: []string{"*"},
			AllowedHosts:   []string{"localhost"},
			HTTP:           server.NewDefaultHTTPConfig(),
			WebSocket:      pubsub.NewDefaultServerConfig(),
		},
		Trace:        trace.NewDefaultConfig(),
		Keeper: KeeperConfig{
			Enabled:  false,
			Schedule: "0 */5 * * * *",
			Mode:     ReleaseMode,
			Operator: "deployer",
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads [path] over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b)
}

func Unmarshal(b []byte) (*Config, error) {
	c := NewDefault()
	var err error
	switch {
	case json.Valid(b):
		err = json.Unmarshal(b, c)
	case yaml.Unmarshal(b, &map[string]interface{}{}) == nil:
		err = yaml.Unmarshal(b, c)
	default:
		return nil, ErrInvalidFormat
	}
	if err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	if _, err := logging.ToLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if _, err := logging.ToLevel(c.Log.DisplayLevel); err != nil {
		return fmt.Errorf("display level: %w", err)
	}
	if len(c.Log.Directory) == 0 {
		return fmt.Errorf("%w: log", ErrMissingDirectory)
	}
	if len(c.API.Addr) == 0 {
		return ErrMissingAPIAddress
	}
	if c.Trace.Enabled && len(c.Trace.Endpoint) == 0 {
		return trace.ErrMissingEndpoint
	}
	if !c.Keeper.Enabled {
		return nil
	}
	if _, err := cron.NewParser(KeeperScheduleFields).Parse(c.Keeper.Schedule); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	switch c.Keeper.Mode {
	case ReleaseMode, RebalanceMode:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKeeperMode, c.Keeper.Mode)
	}
	return nil
}

// KeeperScheduleFields is the cron layout [KeeperConfig.Schedule] is parsed
// with.
const KeeperScheduleFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

func (c *Config) GetLogLevel() logging.Level {
	l, _ := logging.ToLevel(c.Log.Level)
	return l
}

func (c *Config) GetDisplayLevel() logging.Level {
	l, _ := logging.ToLevel(c.Log.DisplayLevel)
	return l
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &c.Trace
}

// LoggingConfig converts the log settings for the log factory.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   c.Log.MaxSize,
			MaxFiles:  c.Log.MaxFiles,
			MaxAge:    c.Log.MaxAge,
			Directory: c.Log.Directory,
			Compress:  c.Log.Compress,
		},
		LogLevel:     c.GetLogLevel(),
		DisplayLevel: c.GetDisplayLevel(),
		LogFormat:    logging.Plain,
	}
}
