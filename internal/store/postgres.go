package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/harvest-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, small enough to
// mock in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

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

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS harvest_runs (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	category     TEXT NOT NULL,
	division     TEXT NOT NULL DEFAULT '',
	conference   TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'running',
	org_count    INTEGER NOT NULL DEFAULT 0,
	found_count  INTEGER NOT NULL DEFAULT 0,
	record_count INTEGER NOT NULL DEFAULT 0,
	started_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS staff_records (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id       TEXT NOT NULL REFERENCES harvest_runs(id),
	status       TEXT NOT NULL,
	organization TEXT NOT NULL,
	division     TEXT NOT NULL DEFAULT '',
	conference   TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL,
	name         TEXT,
	title        TEXT NOT NULL,
	email        TEXT,
	source_url   TEXT NOT NULL DEFAULT '',
	harvested_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_harvest_runs_status ON harvest_runs(status);
CREATE INDEX IF NOT EXISTS idx_harvest_runs_category ON harvest_runs(category);
CREATE INDEX IF NOT EXISTS idx_staff_records_run_id ON staff_records(run_id);
CREATE INDEX IF NOT EXISTS idx_staff_records_organization ON staff_records(organization);
`

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

func (s *PostgresStore) CreateRun(ctx context.Context, run model.HarvestRun) (*model.HarvestRun, error) {
	run.ID = uuid.New().String()
	run.Status = model.RunStatusRunning
	run.StartedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO harvest_runs (id, category, division, conference, status, org_count, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.Category, run.Division, run.Conference, string(run.Status), run.OrgCount, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return &run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, foundCount, recordCount int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE harvest_runs SET status = $1, found_count = $2, record_count = $3, finished_at = $4 WHERE id = $5`,
		string(status), foundCount, recordCount, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.HarvestRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, category, division, conference, status, org_count, found_count, record_count, started_at, finished_at
		 FROM harvest_runs WHERE id = $1`,
		runID,
	)

	var run model.HarvestRun
	var status string
	err := row.Scan(&run.ID, &run.Category, &run.Division, &run.Conference, &status,
		&run.OrgCount, &run.FoundCount, &run.RecordCount, &run.StartedAt, &run.FinishedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	run.Status = model.RunStatus(status)
	return &run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.HarvestRun, error) {
	query := `SELECT id, category, division, conference, status, org_count, found_count, record_count, started_at, finished_at
		FROM harvest_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY started_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.HarvestRun
	for rows.Next() {
		var run model.HarvestRun
		var status string
		if err := rows.Scan(&run.ID, &run.Category, &run.Division, &run.Conference, &status,
			&run.OrgCount, &run.FoundCount, &run.RecordCount, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		run.Status = model.RunStatus(status)
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveOutcome(ctx context.Context, runID string, outcome model.HarvestOutcome) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx)

	for _, r := range outcome.Records {
		_, err := tx.Exec(ctx,
			`INSERT INTO staff_records (id, run_id, status, organization, division, conference, category, name, title, email, source_url, harvested_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.New().String(), runID, string(outcome.Status),
			r.Organization, r.Division, r.Conference, r.Category,
			r.Name, r.Title, r.Email, r.SourceURL, r.Timestamp.UTC(),
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert record for %s", outcome.Organization)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit outcome")
}

func (s *PostgresStore) ListRecords(ctx context.Context, runID string) ([]model.StaffRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT organization, division, conference, category, name, title, email, source_url, harvested_at
		 FROM staff_records WHERE run_id = $1 ORDER BY organization, id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var records []model.StaffRecord
	for rows.Next() {
		var r model.StaffRecord
		if err := rows.Scan(&r.Organization, &r.Division, &r.Conference, &r.Category,
			&r.Name, &r.Title, &r.Email, &r.SourceURL, &r.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list records iterate")
}
