// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	executed     *prometheus.CounterVec
	failed       *prometheus.CounterVec
	stateChanges prometheus.Counter
	simulated    prometheus.Counter

	executeDuration metric.Averager
	commitDuration  metric.Averager
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	executeDuration, err := metric.NewAverager(
		"",
		"engine_execute",
		"time spent executing an action",
		r,
	)
	if err != nil {
		return nil, err
	}
	commitDuration, err := metric.NewAverager(
		"",
		"engine_commit",
		"time spent writing an action's changes to the database",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		executeDuration: executeDuration,
		commitDuration:  commitDuration,
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "engine",
			Name:      "actions_executed",
			Help:      "number of actions committed",
		}, []string{"action"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "engine",
			Name:      "actions_failed",
			Help:      "number of actions discarded after an error",
		}, []string{"action"}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "engine",
			Name:      "state_changes",
			Help:      "number of keys written by committed actions",
		}),
		simulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "engine",
			Name:      "actions_simulated",
			Help:      "number of actions simulated without commit",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.executed),
		r.Register(m.failed),
		r.Register(m.stateChanges),
		r.Register(m.simulated),
	)
	return m, errs.Err
}
