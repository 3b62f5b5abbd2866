package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sim_runs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	strategy    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	config      TEXT NOT NULL,
	periods     INTEGER NOT NULL,
	fail_period INTEGER,
	error       TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL REFERENCES sim_runs(id),
	period INTEGER NOT NULL,
	data   TEXT NOT NULL,
	PRIMARY KEY (run_id, period)
);

CREATE INDEX IF NOT EXISTS idx_sim_runs_status ON sim_runs(status);
CREATE INDEX IF NOT EXISTS idx_sim_runs_strategy ON sim_runs(strategy);
CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, name string, cfg *scenario.Config, periods int) (*model.SimRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal config")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sim_runs (id, name, strategy, status, config, periods, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, cfg.Strategy, string(model.RunStatusRunning), string(cfgJSON), periods, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.SimRun{
		ID:        id,
		Name:      name,
		Strategy:  cfg.Strategy,
		Status:    model.RunStatusRunning,
		Periods:   periods,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, snapshots []model.EconomicSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, snap := range snapshots {
		data, err := json.Marshal(snap)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal snapshot %d", snap.Period)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (run_id, period, data) VALUES (?, ?, ?)`,
			runID, snap.Period, string(data),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert snapshot %d", snap.Period)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE sim_runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusCompleted), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	if err := checkRowsAffected(res, "run", runID); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, period int, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sim_runs SET status = ?, fail_period = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), period, message, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.SimRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, strategy, status, periods, fail_period, error, created_at, updated_at
		 FROM sim_runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) GetRunConfig(ctx context.Context, runID string) (*scenario.Config, error) {
	var cfgJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT config FROM sim_runs WHERE id = ?`, runID,
	).Scan(&cfgJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run config %s", runID)
	}

	var cfg scenario.Config
	if err := json.Unmarshal([]byte(cfgJSON), &cfg); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal config")
	}
	return &cfg, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.SimRun, error) {
	query := `SELECT id, name, strategy, status, periods, fail_period, error, created_at, updated_at
	          FROM sim_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Strategy != "" {
		query += ` AND strategy = ?`
		args = append(args, filter.Strategy)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.SimRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) GetSnapshots(ctx context.Context, runID string) ([]model.EconomicSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM snapshots WHERE run_id = ? ORDER BY period ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get snapshots %s", runID)
	}
	defer rows.Close()

	var snaps []model.EconomicSnapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		var snap model.EconomicSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal snapshot")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: get snapshots iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.SimRun, error) {
	var r model.SimRun
	var failPeriod sql.NullInt64
	var errMsg sql.NullString

	err := row.Scan(&r.ID, &r.Name, &r.Strategy, &r.Status, &r.Periods, &failPeriod, &errMsg, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if failPeriod.Valid {
		r.FailPeriod = int(failPeriod.Int64)
	}
	if errMsg.Valid {
		r.Error = errMsg.String
	}
	return &r, nil
}
