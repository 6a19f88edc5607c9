// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fetch-ld/ldengine/config"
	"github.com/fetch-ld/ldengine/engine"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/recorder"
	"github.com/fetch-ld/ldengine/storage"

	ldtrace "github.com/fetch-ld/ldengine/trace"
)

const stateNamespace = "state"

type database interface {
	engine.Database
	Close() error
}

// node is everything a command needs to run actions.
type node struct {
	config     *config.Config
	logFactory *logFactory
	log        logging.Logger
	tracer     trace.Tracer
	registry   *prometheus.Registry
	clock      *mockable.Clock
	db         database
	engine     *engine.Engine
	recorder   recorder.Recorder
}

// open builds a node from [c]. An ephemeral node keeps state in memory,
// archives nothing whatever [c] says, and runs on a clock frozen at the
// current time.
func open(c *config.Config, ephemeral bool) (*node, error) {
	if err := os.MkdirAll(c.Log.Directory, perms.ReadWriteExecute); err != nil {
		return nil, err
	}
	n := &node{
		config:     c,
		logFactory: newLogFactory(c.LoggingConfig()),
		registry:   prometheus.NewRegistry(),
		clock:      &mockable.Clock{},
	}
	if ephemeral {
		n.clock.Set(time.Now())
	}
	var err error
	n.log, err = n.logFactory.Make("ldengine")
	if err != nil {
		n.logFactory.Close()
		return nil, err
	}
	if err := n.init(ephemeral); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

func (n *node) init(ephemeral bool) error {
	var err error
	n.tracer, err = ldtrace.New(n.config.GetTraceConfig())
	if err != nil {
		return err
	}

	if ephemeral || len(n.config.DatabaseDir) == 0 {
		n.db = memdb.New()
	} else {
		db, err := storage.New(n.config.Database, n.config.DatabaseDir, stateNamespace, n.registry)
		if err != nil {
			return err
		}
		n.db = db
	}

	n.engine, err = engine.New(n.log, n.tracer, n.db, n.registry, n.clock)
	if err != nil {
		return err
	}

	n.recorder = recorder.Noop{}
	if !ephemeral && len(n.config.RecorderPath) > 0 {
		if err := os.MkdirAll(filepath.Dir(n.config.RecorderPath), perms.ReadWriteExecute); err != nil {
			return err
		}
		r, err := recorder.NewSQLite(n.log, n.config.RecorderPath)
		if err != nil {
			return err
		}
		n.recorder = r
	}
	n.engine.AddListener(n.recorder)
	n.log.Debug("opened node",
		zap.Bool("ephemeral", ephemeral),
		zap.String("database", n.config.DatabaseDir),
	)
	return nil
}

// deployment returns the persisted deployment, initializing the database
// from the configured genesis plan when it is empty.
func (n *node) deployment(ctx context.Context) (*genesis.Deployment, error) {
	d, err := n.engine.Deployment()
	if !errors.Is(err, engine.ErrNotInitialized) {
		return d, err
	}
	p := genesis.DefaultPlan()
	if len(n.config.GenesisPath) > 0 {
		p, err = genesis.LoadPlan(n.config.GenesisPath)
		if err != nil {
			return nil, err
		}
	}
	return n.engine.Initialize(ctx, p)
}

func (n *node) Close() {
	errs := wrappers.Errs{}
	if n.recorder != nil {
		errs.Add(n.recorder.Close())
	}
	if n.db != nil {
		errs.Add(n.db.Close())
	}
	if n.tracer != nil {
		errs.Add(n.tracer.Close())
	}
	if errs.Errored() {
		n.log.Warn("unable to close node", zap.Error(errs.Err))
	}
	n.logFactory.Close()
}
