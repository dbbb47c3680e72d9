// Package store persists research jobs. A postgres-backed implementation is
// preferred; when no database is reachable at startup the service falls back
// to an in-memory SQLite store that lives for the lifetime of the process.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/truelabel/truelabel/internal/model"
)

// ErrNotFound is returned when a job id does not exist in the store. Callers
// map it to a 404 rather than a server error.
var ErrNotFound = eris.New("store: job not found")

// ErrJobExists is returned when Create is called with a job id that is
// already present.
var ErrJobExists = eris.New("store: job already exists")

// JobStore is the persistence contract for research jobs. Implementations
// must be safe for concurrent use.
type JobStore interface {
	// Create inserts a new job record. Fails with ErrJobExists if the id is
	// already present.
	Create(ctx context.Context, job *model.ResearchJob) error

	// Update replaces the stored record for the job's id. Fails with
	// ErrNotFound if the job was never created (or already swept).
	Update(ctx context.Context, job *model.ResearchJob) error

	// Get returns the job by id, or ErrNotFound.
	Get(ctx context.Context, jobID string) (*model.ResearchJob, error)

	// Delete removes the job by id. Deleting an absent job is not an error.
	Delete(ctx context.Context, jobID string) error

	// DeleteExpired removes all jobs whose retention window has elapsed and
	// reports how many were removed.
	DeleteExpired(ctx context.Context) (int, error)

	// Durable reports whether records survive a process restart. The
	// postgres store is durable; the in-memory fallback is not.
	Durable() bool

	Close() error
}
