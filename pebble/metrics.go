// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

// gauges are sampled from pebble.Metrics every [metricsInterval].
var gauges = []struct {
	kind string
	read func(*pebble.Metrics) float64
}{
	{"tombstones", func(m *pebble.Metrics) float64 { return float64(m.Keys.TombstoneCount) }},
	{"obsolete_table_bytes", func(m *pebble.Metrics) float64 { return float64(m.Table.ObsoleteSize) }},
	{"obsolete_tables", func(m *pebble.Metrics) float64 { return float64(m.Table.ObsoleteCount) }},
	{"zombie_table_bytes", func(m *pebble.Metrics) float64 { return float64(m.Table.ZombieSize) }},
	{"zombie_tables", func(m *pebble.Metrics) float64 { return float64(m.Table.ZombieCount) }},
	{"obsolete_wal_bytes", func(m *pebble.Metrics) float64 { return float64(m.WAL.ObsoletePhysicalSize) }},
	{"obsolete_wal_files", func(m *pebble.Metrics) float64 { return float64(m.WAL.ObsoleteFiles) }},
}

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	batchWrites prometheus.Counter
	batchBytes  prometheus.Counter

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge
	files             *prometheus.GaugeVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	writeStall, err := metric.NewAverager("", namespace+"_write_stall", "time spent waiting for disk write", r)
	if err != nil {
		return nil, err
	}
	getLatency, err := metric.NewAverager("", namespace+"_read_latency", "time spent waiting for db get", r)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		writeStall: writeStall,
		getLatency: getLatency,
		batchWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_writes",
			Help:      "number of state batches committed",
		}),
		batchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_bytes",
			Help:      "key and value bytes committed through batches",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions started, by input level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
		files: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "files",
			Help:      "tombstones and obsolete or zombie tables and WAL files",
		}, []string{"kind"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.batchWrites),
		r.Register(m.batchBytes),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.files),
	)
	return m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "other"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			sample := db.db.Metrics()
			for _, g := range gauges {
				db.metrics.files.WithLabelValues(g.kind).Set(g.read(sample))
			}
		case <-db.closing:
			return
		}
	}
}
