// Package store persists harvest runs and their staff records behind a
// driver-agnostic interface with sqlite and postgres backends.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/harvest-cli/internal/config"
	"github.com/sells-group/harvest-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Category string          `json:"category,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the harvest pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, run model.HarvestRun) (*model.HarvestRun, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, foundCount, recordCount int) error
	GetRun(ctx context.Context, runID string) (*model.HarvestRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.HarvestRun, error)

	// Records
	SaveOutcome(ctx context.Context, runID string, outcome model.HarvestOutcome) error
	ListRecords(ctx context.Context, runID string) ([]model.StaffRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store the config selects and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		s, err = NewSQLite(cfg.DatabaseURL)
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
