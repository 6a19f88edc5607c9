// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/engine"

	_ "modernc.org/sqlite"
)

var _ Recorder = (*SQLite)(nil)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS actions (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     INTEGER NOT NULL,
		action        TEXT NOT NULL,
		actor         TEXT NOT NULL,
		state_changes INTEGER NOT NULL,
		output        TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions(timestamp)`,
	`CREATE TABLE IF NOT EXISTS deposits (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp        INTEGER NOT NULL,
		depositor        TEXT NOT NULL,
		amount_in        TEXT NOT NULL,
		cut              TEXT,
		rate             TEXT,
		liquidity_native TEXT,
		sale_native      TEXT,
		tokens_bought    TEXT,
		position_id      INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deposits_depositor ON deposits(depositor)`,
	`CREATE TABLE IF NOT EXISTS releases (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp   INTEGER NOT NULL,
		action      TEXT NOT NULL,
		actor       TEXT NOT NULL,
		position_id INTEGER NOT NULL,
		output      TEXT
	)`,
}

// SQLite archives every accepted action and indexes deposits and position
// releases.
type SQLite struct {
	log logging.Logger

	l  sync.Mutex
	db *sql.DB
}

// NewSQLite opens (or creates) the archive at [path].
func NewSQLite(log logging.Logger, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	log.Info("opened recorder", zap.String("path", path))
	return &SQLite{log: log, db: db}, nil
}

// Accepted stores [r]. Archive failures are logged and never reach the
// engine.
func (s *SQLite) Accepted(ctx context.Context, r *engine.Result) {
	if err := s.record(ctx, r); err != nil {
		s.log.Warn("unable to record action",
			zap.String("action", r.Action),
			zap.Error(err),
		)
	}
}

func (s *SQLite) record(ctx context.Context, r *engine.Result) error {
	s.l.Lock()
	defer s.l.Unlock()

	output, err := json.Marshal(r.Output)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO actions (timestamp, action, actor, state_changes, output) VALUES (?, ?, ?, ?, ?)`,
		r.Timestamp, r.Action, r.Actor.String(), r.StateChanges, string(output),
	); err != nil {
		return err
	}

	switch out := r.Output.(type) {
	case *actions.DepositResult:
		var positionID interface{}
		if out.Position != nil {
			positionID = out.Position.ID
		}
		var rate string
		if out.Rate != nil {
			rate = out.Rate.NativeInStable.String()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deposits (timestamp, depositor, amount_in, cut, rate, liquidity_native, sale_native, tokens_bought, position_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			out.Timestamp, out.Depositor.String(), out.AmountIn.Dec(), out.Cut.Dec(), rate,
			out.LiquidityNative.Dec(), out.SaleNative.Dec(), out.TokensBought.Dec(), positionID,
		); err != nil {
			return err
		}
	case *actions.ReleaseResult:
		if err := insertRelease(ctx, tx, r, out.PositionID, output); err != nil {
			return err
		}
	case *actions.RebalanceResult:
		if err := insertRelease(ctx, tx, r, out.PositionID, output); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertRelease(ctx context.Context, tx *sql.Tx, r *engine.Result, id uint64, output []byte) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO releases (timestamp, action, actor, position_id, output) VALUES (?, ?, ?, ?, ?)`,
		r.Timestamp, r.Action, r.Actor.String(), id, string(output),
	)
	return err
}

// Deposits returns the archived deposits of [depositor] in order, or every
// deposit when [depositor] is empty.
func (s *SQLite) Deposits(ctx context.Context, depositor string) ([]*Deposit, error) {
	s.l.Lock()
	defer s.l.Unlock()

	query := `SELECT timestamp, depositor, amount_in, cut, rate, liquidity_native, sale_native, tokens_bought, position_id
		FROM deposits`
	var args []interface{}
	if len(depositor) > 0 {
		query += ` WHERE depositor = ?`
		args = append(args, depositor)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deposits []*Deposit
	for rows.Next() {
		var (
			d          Deposit
			positionID sql.NullInt64
		)
		if err := rows.Scan(
			&d.Timestamp, &d.Depositor, &d.AmountIn, &d.Cut, &d.Rate,
			&d.LiquidityNative, &d.SaleNative, &d.TokensBought, &positionID,
		); err != nil {
			return nil, err
		}
		if positionID.Valid {
			id := uint64(positionID.Int64)
			d.PositionID = &id
		}
		deposits = append(deposits, &d)
	}
	return deposits, rows.Err()
}

func (s *SQLite) Releases(ctx context.Context) ([]*Release, error) {
	s.l.Lock()
	defer s.l.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, action, actor, position_id, output FROM releases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var releases []*Release
	for rows.Next() {
		var r Release
		if err := rows.Scan(&r.Timestamp, &r.Action, &r.Actor, &r.PositionID, &r.Output); err != nil {
			return nil, err
		}
		releases = append(releases, &r)
	}
	return releases, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
