package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/truelabel/truelabel/internal/model"
)

// SQLiteStore implements JobStore on modernc.org/sqlite. With the ":memory:"
// DSN it serves as the non-durable fallback when postgres is unreachable.
type SQLiteStore struct {
	db      *sql.DB
	ttl     time.Duration
	durable bool
}

// MemoryDSN opens an in-process database that vanishes when the process
// exits.
const MemoryDSN = ":memory:"

// NewSQLite opens a SQLite database at the given DSN and runs the migration.
func NewSQLite(dsn string, ttl time.Duration) (*SQLiteStore, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}

	durable := dsn != MemoryDSN
	if durable {
		for _, pragma := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA synchronous=NORMAL",
		} {
			if _, err := sqldb.Exec(pragma); err != nil {
				sqldb.Close()
				return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
			}
		}
	} else {
		// Every new connection to ":memory:" gets a fresh empty database,
		// so the pool must be pinned to a single connection.
		sqldb.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: sqldb, ttl: ttl, durable: durable}
	if err := s.migrate(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS research_jobs (
	job_id       TEXT PRIMARY KEY,
	status       TEXT NOT NULL,
	progress     INTEGER NOT NULL DEFAULT 0,
	current_step TEXT NOT NULL DEFAULT '',
	request      TEXT NOT NULL,
	result       TEXT,
	error        TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	completed_at TEXT,
	expires_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_research_jobs_expires_at ON research_jobs (expires_at);
`

func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, job *model.ResearchJob) error {
	reqJSON, resJSON, err := encodeJob(job)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO research_jobs (job_id, status, progress, current_step, request, result, error, created_at, completed_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.JobID, string(job.Status), job.Progress, job.CurrentStep,
		string(reqJSON), nullableText(resJSON), job.Error,
		job.CreatedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(job.CompletedAt),
		job.CreatedAt.Add(s.ttl).UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert job")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: insert job")
	}
	if n == 0 {
		return ErrJobExists
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, job *model.ResearchJob) error {
	reqJSON, resJSON, err := encodeJob(job)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE research_jobs
		 SET status = ?, progress = ?, current_step = ?, request = ?, result = ?, error = ?, completed_at = ?
		 WHERE job_id = ?`,
		string(job.Status), job.Progress, job.CurrentStep,
		string(reqJSON), nullableText(resJSON), job.Error,
		nullableTime(job.CompletedAt), job.JobID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update job")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: update job")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, jobID string) (*model.ResearchJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT job_id, status, progress, current_step, request, result, error, created_at, completed_at
		 FROM research_jobs WHERE job_id = ?`,
		jobID,
	)

	var (
		job         model.ResearchJob
		status      string
		reqJSON     string
		resJSON     sql.NullString
		createdAt   string
		completedAt sql.NullString
	)
	err := row.Scan(&job.JobID, &status, &job.Progress, &job.CurrentStep,
		&reqJSON, &resJSON, &job.Error, &createdAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get job")
	}

	job.Status = model.JobStatus(status)
	job.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: parse created_at")
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: parse completed_at")
		}
		job.CompletedAt = &t
	}

	var resBytes []byte
	if resJSON.Valid {
		resBytes = []byte(resJSON.String)
	}
	if err := decodeJob(&job, []byte(reqJSON), resBytes); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, jobID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM research_jobs WHERE job_id = ?`, jobID); err != nil {
		return eris.Wrap(err, "sqlite: delete job")
	}
	return nil
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM research_jobs WHERE expires_at <= ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired jobs")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired jobs")
	}
	return int(n), nil
}

func (s *SQLiteStore) Durable() bool { return s.durable }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
