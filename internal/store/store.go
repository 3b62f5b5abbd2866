// Package store persists scenario runs and their per-period snapshots so
// results can be listed, inspected, and exported after the fact.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/config"
	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Strategy string          `json:"strategy,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, name string, cfg *scenario.Config, periods int) (*model.SimRun, error)
	CompleteRun(ctx context.Context, runID string, snapshots []model.EconomicSnapshot) error
	FailRun(ctx context.Context, runID string, period int, message string) error
	GetRun(ctx context.Context, runID string) (*model.SimRun, error)
	GetRunConfig(ctx context.Context, runID string) (*scenario.Config, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.SimRun, error)

	// Snapshots
	GetSnapshots(ctx context.Context, runID string) ([]model.EconomicSnapshot, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the Store backend selected by configuration and runs
// migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		s, err = NewSQLite(cfg.SQLitePath)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
