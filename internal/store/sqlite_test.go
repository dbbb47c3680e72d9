package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truelabel/truelabel/internal/model"
)

func newMemStore(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(MemoryDSN, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newJob() *model.ResearchJob {
	return &model.ResearchJob{
		JobID:       uuid.NewString(),
		Status:      model.JobStatusPending,
		CurrentStep: "Initializing deep research...",
		Request: model.ResearchRequest{
			ProductName: "Lunchables",
			Brand:       "Lunchables",
			Category:    "snack",
			Ingredients: []string{"turkey", "sodium nitrite", "crackers"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestSQLiteCreateGetRoundtrip(t *testing.T) {
	s := newMemStore(t, time.Hour)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.Create(ctx, job))

	got, err := s.Get(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, job.JobID, got.JobID)
	assert.Equal(t, model.JobStatusPending, got.Status)
	assert.Equal(t, job.Request, got.Request)
	assert.Nil(t, got.Result)
	assert.Nil(t, got.CompletedAt)
	assert.WithinDuration(t, job.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLiteCreateDuplicate(t *testing.T) {
	s := newMemStore(t, time.Hour)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.Create(ctx, job))
	assert.ErrorIs(t, s.Create(ctx, job), ErrJobExists)
}

func TestSQLiteUpdateLifecycle(t *testing.T) {
	s := newMemStore(t, time.Hour)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.Create(ctx, job))

	job.Status = model.JobStatusProcessing
	job.Progress = 40
	job.CurrentStep = "Investigating supply chain..."
	require.NoError(t, s.Update(ctx, job))

	now := time.Now().UTC()
	job.Status = model.JobStatusCompleted
	job.Progress = 100
	job.CurrentStep = "Complete"
	job.CompletedAt = &now
	job.Result = &model.ResearchReport{
		ProductName: "Lunchables",
		Sections:    []model.ReportSection{{Title: "Executive Summary", Text: "Skip it."}},
		FullReport:  "## Executive Summary\n\nSkip it.",
		GeneratedAt: now,
	}
	require.NoError(t, s.Update(ctx, job))

	got, err := s.Get(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.Result)
	assert.Equal(t, "Skip it.", got.Result.Section("Executive Summary"))
	require.NotNil(t, got.CompletedAt)
}

func TestSQLiteUpdateMissing(t *testing.T) {
	s := newMemStore(t, time.Hour)
	assert.ErrorIs(t, s.Update(context.Background(), newJob()), ErrNotFound)
}

func TestSQLiteGetMissing(t *testing.T) {
	s := newMemStore(t, time.Hour)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteDelete(t *testing.T) {
	s := newMemStore(t, time.Hour)
	ctx := context.Background()

	job := newJob()
	require.NoError(t, s.Create(ctx, job))
	require.NoError(t, s.Delete(ctx, job.JobID))

	_, err := s.Get(ctx, job.JobID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent job is not an error.
	assert.NoError(t, s.Delete(ctx, job.JobID))
}

func TestSQLiteDeleteExpired(t *testing.T) {
	// Negative TTL expires records at creation time.
	s := newMemStore(t, -time.Hour)
	ctx := context.Background()

	expired := newJob()
	require.NoError(t, s.Create(ctx, expired))

	fresh := newMemStore(t, time.Hour)
	keep := newJob()
	require.NoError(t, fresh.Create(ctx, keep))

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = s.Get(ctx, expired.JobID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = fresh.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = fresh.Get(ctx, keep.JobID)
	assert.NoError(t, err)
}

func TestSQLiteDurability(t *testing.T) {
	s := newMemStore(t, time.Hour)
	assert.False(t, s.Durable())
}
