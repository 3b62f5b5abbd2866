package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/db"
	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run": `INSERT INTO sim_runs (id, name, strategy, status, config, periods, created_at, updated_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	"fail_run": `UPDATE sim_runs SET status = $1, fail_period = $2, error = $3, updated_at = $4 WHERE id = $5`,
	"get_run": `SELECT id, name, strategy, status, periods, fail_period, error, created_at, updated_at
	            FROM sim_runs WHERE id = $1`,
	"get_run_config": `SELECT config FROM sim_runs WHERE id = $1`,
	"get_snapshots":  `SELECT data FROM snapshots WHERE run_id = $1 ORDER BY period ASC`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sim_runs (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name        TEXT NOT NULL,
	strategy    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	config      JSONB NOT NULL,
	periods     INTEGER NOT NULL,
	fail_period INTEGER,
	error       TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL REFERENCES sim_runs(id),
	period INTEGER NOT NULL,
	data   JSONB NOT NULL,
	PRIMARY KEY (run_id, period)
);

CREATE INDEX IF NOT EXISTS idx_sim_runs_status ON sim_runs(status);
CREATE INDEX IF NOT EXISTS idx_sim_runs_strategy ON sim_runs(strategy);
CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, name string, cfg *scenario.Config, periods int) (*model.SimRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal config")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sim_runs (id, name, strategy, status, config, periods, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, name, cfg.Strategy, string(model.RunStatusRunning), cfgJSON, periods, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
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

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, snapshots []model.EconomicSnapshot) error {
	rows := make([][]any, 0, len(snapshots))
	for _, snap := range snapshots {
		data, err := json.Marshal(snap)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal snapshot %d", snap.Period)
		}
		rows = append(rows, []any{runID, snap.Period, data})
	}

	if _, err := db.CopyFrom(ctx, s.pool, "snapshots", []string{"run_id", "period", "data"}, rows); err != nil {
		return eris.Wrapf(err, "postgres: insert snapshots for run %s", runID)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE sim_runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(model.RunStatusCompleted), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, period int, message string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sim_runs SET status = $1, fail_period = $2, error = $3, updated_at = $4 WHERE id = $5`,
		string(model.RunStatusFailed), period, message, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.SimRun, error) {
	var r model.SimRun
	var failPeriod *int
	var errMsg *string

	err := s.pool.QueryRow(ctx,
		`SELECT id, name, strategy, status, periods, fail_period, error, created_at, updated_at
		 FROM sim_runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.Name, &r.Strategy, &r.Status, &r.Periods, &failPeriod, &errMsg, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if failPeriod != nil {
		r.FailPeriod = *failPeriod
	}
	if errMsg != nil {
		r.Error = *errMsg
	}
	return &r, nil
}

func (s *PostgresStore) GetRunConfig(ctx context.Context, runID string) (*scenario.Config, error) {
	var cfgJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT config FROM sim_runs WHERE id = $1`, runID,
	).Scan(&cfgJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("run not found: %s", runID)
		}
		return nil, eris.Wrapf(err, "postgres: get run config %s", runID)
	}

	var cfg scenario.Config
	if err := json.Unmarshal(cfgJSON, &cfg); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal config")
	}
	return &cfg, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.SimRun, error) {
	query := `SELECT id, name, strategy, status, periods, fail_period, error, created_at, updated_at
	          FROM sim_runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Strategy != "" {
		query += fmt.Sprintf(` AND strategy = $%d`, argIdx)
		args = append(args, filter.Strategy)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.SimRun
	for rows.Next() {
		var r model.SimRun
		var failPeriod *int
		var errMsg *string

		if err := rows.Scan(&r.ID, &r.Name, &r.Strategy, &r.Status, &r.Periods, &failPeriod, &errMsg, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if failPeriod != nil {
			r.FailPeriod = *failPeriod
		}
		if errMsg != nil {
			r.Error = *errMsg
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) GetSnapshots(ctx context.Context, runID string) ([]model.EconomicSnapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM snapshots WHERE run_id = $1 ORDER BY period ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get snapshots %s", runID)
	}
	defer rows.Close()

	var snaps []model.EconomicSnapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot")
		}
		var snap model.EconomicSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal snapshot")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "postgres: get snapshots iterate")
}
