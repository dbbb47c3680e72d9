package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/truelabel/truelabel/internal/db"
	"github.com/truelabel/truelabel/internal/model"
)

// PostgresStore implements JobStore using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	ttl     time.Duration
	closeFn func()
}

// NewPostgres connects to the database, runs the migration, and returns a
// durable job store. The ttl controls how long finished jobs are retained
// before the sweeper removes them.
func NewPostgres(ctx context.Context, connString string, ttl time.Duration) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
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

	s := &PostgresStore{pool: pool, ttl: ttl, closeFn: pool.Close}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS research_jobs (
	job_id       TEXT PRIMARY KEY,
	status       TEXT NOT NULL,
	progress     INTEGER NOT NULL DEFAULT 0,
	current_step TEXT NOT NULL DEFAULT '',
	request      JSONB NOT NULL,
	result       JSONB,
	error        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	expires_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_research_jobs_expires_at ON research_jobs (expires_at);
`

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, job *model.ResearchJob) error {
	reqJSON, resJSON, err := encodeJob(job)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO research_jobs (job_id, status, progress, current_step, request, result, error, created_at, completed_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (job_id) DO NOTHING`,
		job.JobID, string(job.Status), job.Progress, job.CurrentStep,
		reqJSON, resJSON, job.Error, job.CreatedAt, job.CompletedAt,
		job.CreatedAt.Add(s.ttl),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert job")
	}
	if tag.RowsAffected() == 0 {
		return ErrJobExists
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, job *model.ResearchJob) error {
	reqJSON, resJSON, err := encodeJob(job)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE research_jobs
		 SET status = $1, progress = $2, current_step = $3, request = $4, result = $5, error = $6, completed_at = $7
		 WHERE job_id = $8`,
		string(job.Status), job.Progress, job.CurrentStep,
		reqJSON, resJSON, job.Error, job.CompletedAt, job.JobID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update job")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, jobID string) (*model.ResearchJob, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT job_id, status, progress, current_step, request, result, error, created_at, completed_at
		 FROM research_jobs WHERE job_id = $1`,
		jobID,
	)

	var (
		job     model.ResearchJob
		status  string
		reqJSON []byte
		resJSON []byte
	)
	err := row.Scan(&job.JobID, &status, &job.Progress, &job.CurrentStep,
		&reqJSON, &resJSON, &job.Error, &job.CreatedAt, &job.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get job")
	}

	job.Status = model.JobStatus(status)
	if err := decodeJob(&job, reqJSON, resJSON); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *PostgresStore) Delete(ctx context.Context, jobID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM research_jobs WHERE job_id = $1`, jobID); err != nil {
		return eris.Wrap(err, "postgres: delete job")
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM research_jobs WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired jobs")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Durable() bool { return true }

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func encodeJob(job *model.ResearchJob) (reqJSON, resJSON []byte, err error) {
	reqJSON, err = json.Marshal(job.Request)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal request")
	}
	if job.Result != nil {
		resJSON, err = json.Marshal(job.Result)
		if err != nil {
			return nil, nil, eris.Wrap(err, "store: marshal result")
		}
	}
	return reqJSON, resJSON, nil
}

func decodeJob(job *model.ResearchJob, reqJSON, resJSON []byte) error {
	if err := json.Unmarshal(reqJSON, &job.Request); err != nil {
		return eris.Wrap(err, "store: unmarshal request")
	}
	if len(resJSON) > 0 {
		var report model.ResearchReport
		if err := json.Unmarshal(resJSON, &report); err != nil {
			return eris.Wrap(err, "store: unmarshal result")
		}
		job.Result = &report
	}
	return nil
}
