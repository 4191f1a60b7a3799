package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/harvest-cli/internal/model"
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
CREATE TABLE IF NOT EXISTS harvest_runs (
	id           TEXT PRIMARY KEY,
	category     TEXT NOT NULL,
	division     TEXT NOT NULL DEFAULT '',
	conference   TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'running',
	org_count    INTEGER NOT NULL DEFAULT 0,
	found_count  INTEGER NOT NULL DEFAULT 0,
	record_count INTEGER NOT NULL DEFAULT 0,
	started_at   DATETIME NOT NULL,
	finished_at  DATETIME
);

CREATE TABLE IF NOT EXISTS staff_records (
	id           TEXT PRIMARY KEY,
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
	harvested_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_harvest_runs_status ON harvest_runs(status);
CREATE INDEX IF NOT EXISTS idx_harvest_runs_category ON harvest_runs(category);
CREATE INDEX IF NOT EXISTS idx_staff_records_run_id ON staff_records(run_id);
CREATE INDEX IF NOT EXISTS idx_staff_records_organization ON staff_records(organization);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run model.HarvestRun) (*model.HarvestRun, error) {
	run.ID = uuid.New().String()
	run.Status = model.RunStatusRunning
	run.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO harvest_runs (id, category, division, conference, status, org_count, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Category, run.Division, run.Conference, string(run.Status), run.OrgCount, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return &run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, foundCount, recordCount int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE harvest_runs SET status = ?, found_count = ?, record_count = ?, finished_at = ? WHERE id = ?`,
		string(status), foundCount, recordCount, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.HarvestRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, division, conference, status, org_count, found_count, record_count, started_at, finished_at
		 FROM harvest_runs WHERE id = ?`,
		runID,
	)

	var run model.HarvestRun
	var status string
	var finished sql.NullTime
	err := row.Scan(&run.ID, &run.Category, &run.Division, &run.Conference, &status,
		&run.OrgCount, &run.FoundCount, &run.RecordCount, &run.StartedAt, &finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	run.Status = model.RunStatus(status)
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.HarvestRun, error) {
	query := `SELECT id, category, division, conference, status, org_count, found_count, record_count, started_at, finished_at
		FROM harvest_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY started_at DESC`

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

	var runs []model.HarvestRun
	for rows.Next() {
		var run model.HarvestRun
		var status string
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Category, &run.Division, &run.Conference, &status,
			&run.OrgCount, &run.FoundCount, &run.RecordCount, &run.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		run.Status = model.RunStatus(status)
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) SaveOutcome(ctx context.Context, runID string, outcome model.HarvestOutcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	for _, r := range outcome.Records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO staff_records (id, run_id, status, organization, division, conference, category, name, title, email, source_url, harvested_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, string(outcome.Status),
			r.Organization, r.Division, r.Conference, r.Category,
			r.Name, r.Title, r.Email, r.SourceURL, r.Timestamp.UTC(),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert record for %s", outcome.Organization)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit outcome")
}

func (s *SQLiteStore) ListRecords(ctx context.Context, runID string) ([]model.StaffRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT organization, division, conference, category, name, title, email, source_url, harvested_at
		 FROM staff_records WHERE run_id = ? ORDER BY organization, rowid`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.StaffRecord
	for rows.Next() {
		var r model.StaffRecord
		if err := rows.Scan(&r.Organization, &r.Division, &r.Conference, &r.Category,
			&r.Name, &r.Title, &r.Email, &r.SourceURL, &r.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s %s not found", entity, id)
	}
	return nil
}
