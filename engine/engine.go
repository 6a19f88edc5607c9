// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine executes actions one at a time against durable state.
// Each action runs in its own transactional view: its changes are written
// to the database in one batch, or not at all.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/tstate"
)

var (
	ErrAlreadyInitialized = errors.New("engine already initialized")
	ErrNotInitialized     = errors.New("engine not initialized")
)

// deploymentKey stores the genesis deployment beside contract state. State
// keys start with a prefix byte well below 0xfe.
var deploymentKey = []byte{0xfe, 'd', 'e', 'p', 'l', 'o', 'y'}

// Database is the durable store the engine reads state from and commits
// batches to.
type Database interface {
	database.KeyValueReader
	NewBatch() database.Batch
}

// Result is the outcome of one executed action.
type Result struct {
	Action    string        `json:"action"`
	Actor     codec.Address `json:"actor"`
	Timestamp int64         `json:"timestamp"`
	Output    codec.Typed   `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	// StateChanges is the number of keys the action wrote.
	StateChanges int `json:"stateChanges"`
}

func (r *Result) Success() bool {
	return len(r.Error) == 0
}

// Listener is notified after every committed action.
type Listener interface {
	Accepted(ctx context.Context, r *Result)
}

type Engine struct {
	l sync.Mutex

	log     logging.Logger
	tracer  trace.Tracer
	db      Database
	clock   *mockable.Clock
	metrics *metrics

	listeners []Listener
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	db Database,
	registerer prometheus.Registerer,
	clock *mockable.Clock,
) (*Engine, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = &mockable.Clock{}
	}
	return &Engine{
		log:     log,
		tracer:  tracer,
		db:      db,
		clock:   clock,
		metrics: m,
	}, nil
}

// AddListener registers [l] for every subsequently committed action.
func (e *Engine) AddListener(l Listener) {
	e.l.Lock()
	defer e.l.Unlock()

	e.listeners = append(e.listeners, l)
}

// Now returns the engine clock in unix milliseconds.
func (e *Engine) Now() int64 {
	return e.clock.Time().UnixMilli()
}

func (e *Engine) reader() state.Immutable {
	return state.DatabaseReader{DB: e.db}
}

// Initialize deploys [p] into an empty database.
func (e *Engine) Initialize(ctx context.Context, p *genesis.Plan) (*genesis.Deployment, error) {
	e.l.Lock()
	defer e.l.Unlock()

	ctx, span := e.tracer.Start(ctx, "Engine.Initialize")
	defer span.End()

	if has, err := e.db.Has(deploymentKey); err != nil {
		return nil, err
	} else if has {
		return nil, ErrAlreadyInitialized
	}
	ts := tstate.New(0)
	view := ts.NewView(state.NewSimulatedScope(state.Keys{}, e.reader()))
	d, err := genesis.InitializeState(ctx, e.tracer, view, p, e.Now())
	if err != nil {
		return nil, err
	}
	view.Commit()

	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	batch := e.db.NewBatch()
	changes, err := ts.WriteTo(ctx, e.tracer, batch)
	if err != nil {
		return nil, err
	}
	if err := batch.Put(deploymentKey, b); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	e.log.Info("initialized genesis",
		zap.Stringer("gateway", d.Gateway),
		zap.Stringer("ldManager", d.LDManager),
		zap.Int("stateChanges", changes),
	)
	return d, nil
}

// Deployment returns the contract set deployed by [Initialize].
func (e *Engine) Deployment() (*genesis.Deployment, error) {
	b, err := e.db.Get(deploymentKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	d := &genesis.Deployment{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Execute runs [a] as [actor] at the current engine time. A failed action
// leaves the database untouched; its error is returned and recorded on the
// result.
func (e *Engine) Execute(ctx context.Context, actor codec.Address, a actions.Action) (*Result, error) {
	e.l.Lock()
	defer e.l.Unlock()

	name := actions.Name(a)
	ctx, span := e.tracer.Start(ctx, "Engine.Execute")
	defer span.End()

	start := time.Now()
	r := &Result{Action: name, Actor: actor, Timestamp: e.Now()}
	err := e.execute(ctx, actor, a, r)
	e.metrics.executeDuration.Observe(float64(time.Since(start)))
	if err != nil {
		r.Error = err.Error()
		e.metrics.failed.WithLabelValues(name).Inc()
		e.log.Debug("action failed",
			zap.String("action", name),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return r, err
	}
	e.metrics.executed.WithLabelValues(name).Inc()
	e.metrics.stateChanges.Add(float64(r.StateChanges))
	e.log.Debug("action executed",
		zap.String("action", name),
		zap.Stringer("actor", actor),
		zap.Int("stateChanges", r.StateChanges),
	)
	for _, l := range e.listeners {
		l.Accepted(ctx, r)
	}
	return r, nil
}

// execute records the keys [a] touches, then re-runs it in a view scoped to
// exactly those keys and commits the view.
func (e *Engine) execute(ctx context.Context, actor codec.Address, a actions.Action, r *Result) error {
	reader := e.reader()
	recorder := state.NewRecorder(reader)
	if _, err := a.Execute(ctx, recorder, r.Timestamp, actor); err != nil {
		return err
	}
	keys := recorder.GetStateKeys()
	storage, err := state.Fetch(ctx, reader, keys)
	if err != nil {
		return err
	}

	ts := tstate.New(len(keys))
	view := ts.NewView(state.NewDefaultScope(keys, storage))
	output, err := a.Execute(ctx, view, r.Timestamp, actor)
	if err != nil {
		return err
	}
	view.Commit()

	start := time.Now()
	batch := e.db.NewBatch()
	changes, err := ts.WriteTo(ctx, e.tracer, batch)
	if err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	e.metrics.commitDuration.Observe(float64(time.Since(start)))
	r.Output = output
	r.StateChanges = changes
	return nil
}

// Simulate runs [a] against current state without committing anything and
// returns the keys it would touch.
func (e *Engine) Simulate(ctx context.Context, actor codec.Address, a actions.Action) (codec.Typed, state.Keys, error) {
	e.l.Lock()
	defer e.l.Unlock()

	ctx, span := e.tracer.Start(ctx, "Engine.Simulate")
	defer span.End()

	e.metrics.simulated.Inc()
	scope := state.NewSimulatedScope(state.Keys{}, e.reader())
	view := tstate.New(0).NewView(scope)
	output, err := a.Execute(ctx, view, e.Now(), actor)
	if err != nil {
		return nil, nil, err
	}
	return output, scope.StateKeys(), nil
}

// Read calls [f] with a read-only view of committed state. Actions do not
// run while [f] does.
func (e *Engine) Read(ctx context.Context, f func(context.Context, state.Immutable) error) error {
	e.l.Lock()
	defer e.l.Unlock()

	return f(ctx, e.reader())
}
