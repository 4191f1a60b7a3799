package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/harvest-cli/internal/config"
	"github.com/sells-group/harvest-cli/internal/model"
)

func testStoreConfig(url string) config.StoreConfig {
	return config.StoreConfig{Driver: "sqlite", DatabaseURL: url}
}

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgres_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO harvest_runs`).
		WithArgs(pgxmock.AnyArg(), "Men's Soccer", "DI", "Ivy", "running", 3, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), testRun())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRun_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, category, division, conference, status`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	run, err := s.GetRun(context.Background(), "nonexistent-run")
	require.NoError(t, err)
	assert.Nil(t, run)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE harvest_runs SET status`).
		WithArgs("complete", 2, 14, pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteRun(context.Background(), "run-1", model.RunStatusComplete, 2, 14)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteRun_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE harvest_runs SET status`).
		WithArgs("complete", 0, 0, pgxmock.AnyArg(), "nonexistent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "nonexistent", model.RunStatusComplete, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveOutcome(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	outcome := foundOutcome("Example College")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO staff_records`).
		WithArgs(pgxmock.AnyArg(), "run-1", "found",
			"Example College", "DI", "Ivy", "Men's Soccer",
			pgxmock.AnyArg(), "Head Coach", pgxmock.AnyArg(), "https://example.edu/staff", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.SaveOutcome(context.Background(), "run-1", outcome)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveOutcome_InsertFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO staff_records`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.SaveOutcome(context.Background(), "run-1", foundOutcome("Example College"))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListRecords(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	name := "Jane Doe"
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"organization", "division", "conference", "category", "name", "title", "email", "source_url", "harvested_at",
	}).AddRow("Example College", "DI", "Ivy", "Men's Soccer", &name, "Head Coach", (*string)(nil), "https://example.edu/staff", ts)

	mock.ExpectQuery(`SELECT organization, division, conference`).
		WithArgs("run-1").
		WillReturnRows(rows)

	records, err := s.ListRecords(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", *records[0].Name)
	assert.Nil(t, records[0].Email)
	assert.Equal(t, ts, records[0].Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS harvest_runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
