// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ database.KeyValueReader = (*Database)(nil)
	_ database.Batcher        = (*Database)(nil)
	_ database.Batch          = (*batch)(nil)
)

type Config struct {
	CacheSize                   int   `json:"cacheSize"                   yaml:"cacheSize"`
	BytesPerSync                int   `json:"bytesPerSync"                yaml:"bytesPerSync"`
	WALBytesPerSync             int   `json:"walBytesPerSync"             yaml:"walBytesPerSync"`
	MemTableStopWritesThreshold int   `json:"memTableStopWritesThreshold" yaml:"memTableStopWritesThreshold"`
	MemTableSize                int   `json:"memTableSize"                yaml:"memTableSize"`
	MaxOpenFiles                int   `json:"maxOpenFiles"                yaml:"maxOpenFiles"`
	ConcurrentCompactions       int   `json:"concurrentCompactions"       yaml:"concurrentCompactions"`
	Sync                        bool  `json:"sync"                        yaml:"sync"`
	L0FileSize                  int64 `json:"l0FileSize"                  yaml:"l0FileSize"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   128 * units.MiB,
		BytesPerSync:                1 * units.MiB,
		WALBytesPerSync:             1 * units.MiB,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * units.MiB,
		MaxOpenFiles:                1_024,
		ConcurrentCompactions:       2,
		Sync:                        true,
		L0FileSize:                  2 * units.MiB,
	}
}

// Database persists engine state in a pebble store.
type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOpts *pebble.WriteOptions

	closing chan struct{}
	closed  sync.Once
	wg      sync.WaitGroup
}

func New(file string, cfg Config, registerer prometheus.Registerer) (*Database, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	d := &Database{closing: make(chan struct{})}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                uint64(cfg.MemTableSize),
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		Levels:                      make([]pebble.LevelOptions, 7),
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction

	for i := 0; i < len(opts.Levels); i++ {
		l := &opts.Levels[i]
		l.BlockSize = 32 * units.KiB
		l.IndexBlockSize = 256 * units.KiB
		l.FilterPolicy = nil
		l.FilterType = pebble.TableFilter
		if i > 0 {
			l.TargetFileSize = opts.Levels[i-1].TargetFileSize * 2
		} else {
			l.TargetFileSize = cfg.L0FileSize
		}
		l.EnsureDefaults()
	}
	opts.Levels[6].FilterPolicy = nil

	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	d.metrics = metrics
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}

	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, err
	}
	d.db = db
	if cfg.Sync {
		d.writeOpts = pebble.Sync
	} else {
		d.writeOpts = pebble.NoSync
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, updateError(err)
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, closer.Close()
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db, b: db.db.NewBatch()}
}

func (db *Database) Close() error {
	var err error
	db.closed.Do(func() {
		close(db.closing)
		db.wg.Wait()
		err = db.db.Close()
	})
	return err
}

func updateError(err error) error {
	switch {
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	default:
		return err
	}
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

// batch buffers writes in a pebble batch and keeps an op list for Replay.
type batch struct {
	db   *Database
	b    *pebble.Batch
	ops  []batchOp
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: copyBytes(key), value: copyBytes(value)})
	b.size += len(key) + len(value)
	return b.b.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: copyBytes(key), delete: true})
	b.size += len(key)
	return b.b.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	if err := b.b.Commit(b.db.writeOpts); err != nil {
		return updateError(err)
	}
	b.db.metrics.batchWrites.Inc()
	b.db.metrics.batchBytes.Add(float64(b.size))
	return nil
}

func (b *batch) Reset() {
	b.b.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		var err error
		if op.delete {
			err = w.Delete(op.key)
		} else {
			err = w.Put(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
