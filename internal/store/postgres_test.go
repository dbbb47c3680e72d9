package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truelabel/truelabel/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock, 24*time.Hour), mock
}

func TestPostgresCreate(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	job := newJob()

	mock.ExpectExec(`INSERT INTO research_jobs`).
		WithArgs(job.JobID, "pending", 0, job.CurrentStep,
			pgxmock.AnyArg(), pgxmock.AnyArg(), "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Create(context.Background(), job))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateDuplicate(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	job := newJob()

	// ON CONFLICT DO NOTHING reports zero affected rows for duplicates.
	mock.ExpectExec(`INSERT INTO research_jobs`).
		WithArgs(job.JobID, "pending", 0, job.CurrentStep,
			pgxmock.AnyArg(), pgxmock.AnyArg(), "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	assert.ErrorIs(t, s.Create(context.Background(), job), ErrJobExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateMissing(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	job := newJob()

	mock.ExpectExec(`UPDATE research_jobs`).
		WithArgs("pending", 0, job.CurrentStep,
			pgxmock.AnyArg(), pgxmock.AnyArg(), "",
			pgxmock.AnyArg(), job.JobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, s.Update(context.Background(), job), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	job := newJob()

	reqJSON, err := json.Marshal(job.Request)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"job_id", "status", "progress", "current_step",
		"request", "result", "error", "created_at", "completed_at",
	}).AddRow(job.JobID, "pending", 0, job.CurrentStep,
		reqJSON, []byte(nil), "", job.CreatedAt, (*time.Time)(nil))

	mock.ExpectQuery(`(?s)SELECT .+ FROM research_jobs WHERE job_id = \$1`).
		WithArgs(job.JobID).
		WillReturnRows(rows)

	got, err := s.Get(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, got.Status)
	assert.Equal(t, job.Request, got.Request)
	assert.Nil(t, got.Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetNotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM research_jobs WHERE job_id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteExpired(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM research_jobs WHERE expires_at <= now\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDurability(t *testing.T) {
	s, _ := newMockPostgresStore(t)
	assert.True(t, s.Durable())
}
