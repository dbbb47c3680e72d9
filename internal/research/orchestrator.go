package research

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/truelabel/truelabel/internal/config"
	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/resilience"
	"github.com/truelabel/truelabel/internal/store"
)

// ErrInvalidRequest is returned by StartJob when the request cannot be
// accepted. Handlers map it to a 400.
var ErrInvalidRequest = eris.New("research: invalid request")

// Orchestrator owns the lifecycle of research jobs: it accepts requests,
// records a pending job, and runs one worker goroutine per job. Each job has
// a single writer, so progress only moves forward.
type Orchestrator struct {
	store store.JobStore
	gen   SectionGenerator
	cfg   config.ResearchConfig

	// baseCtx bounds worker lifetimes: requests are accepted with their own
	// contexts, but workers outlive them.
	baseCtx context.Context
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
}

// NewOrchestrator creates an orchestrator whose workers live until baseCtx
// is cancelled.
func NewOrchestrator(baseCtx context.Context, s store.JobStore, gen SectionGenerator, cfg config.ResearchConfig) *Orchestrator {
	maxJobs := int64(cfg.MaxConcurrentJobs)
	if maxJobs <= 0 {
		maxJobs = 8
	}
	return &Orchestrator{
		store:   s,
		gen:     gen,
		cfg:     cfg,
		baseCtx: baseCtx,
		sem:     semaphore.NewWeighted(maxJobs),
	}
}

// StartJob validates the request, records a pending job, and spawns its
// worker. The job id is returned immediately; callers poll for results.
func (o *Orchestrator) StartJob(ctx context.Context, req model.ResearchRequest) (string, error) {
	if strings.TrimSpace(req.ProductName) == "" {
		return "", eris.Wrap(ErrInvalidRequest, "product_name is required")
	}

	job := &model.ResearchJob{
		JobID:       uuid.NewString(),
		Status:      model.JobStatusPending,
		Progress:    0,
		CurrentStep: "Initializing deep research...",
		Request:     req,
		CreatedAt:   time.Now().UTC(),
	}
	if err := o.store.Create(ctx, job); err != nil {
		return "", err
	}

	o.wg.Add(1)
	go o.runJob(job)

	zap.L().Info("research job accepted",
		zap.String("job_id", job.JobID),
		zap.String("product", req.ProductName),
	)
	return job.JobID, nil
}

// GetJob returns the current state of a job. Unknown ids surface
// store.ErrNotFound.
func (o *Orchestrator) GetJob(ctx context.Context, jobID string) (*model.ResearchJob, error) {
	return o.store.Get(ctx, jobID)
}

// Wait blocks until all in-flight workers have finished. Called during
// shutdown after baseCtx is cancelled.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) runJob(job *model.ResearchJob) {
	defer o.wg.Done()

	log := zap.L().With(zap.String("job_id", job.JobID))

	if err := o.sem.Acquire(o.baseCtx, 1); err != nil {
		o.fail(job, log, "service shutting down")
		return
	}
	defer o.sem.Release(1)

	timeout := time.Duration(o.cfg.JobTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(o.baseCtx, timeout)
	defer cancel()

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = o.cfg.SectionRetries + 1
	retryCfg.OnRetry = resilience.RetryLogger("generate section")

	texts := make([]string, len(Sections))
	for i, sec := range Sections {
		job.Status = model.JobStatusProcessing
		job.Progress = sec.Progress
		job.CurrentStep = sec.Step
		if err := o.store.Update(ctx, job); err != nil {
			log.Error("research: progress update failed", zap.Error(err))
		}

		text, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (string, error) {
			return o.gen.GenerateSection(ctx, job.Request, sec)
		})
		if err != nil {
			reason := "section generation failed: " + sec.Title
			if ctx.Err() != nil {
				reason = "research timed out"
			}
			log.Warn("research job failed",
				zap.String("section", sec.Title),
				zap.Error(err),
			)
			o.fail(job, log, reason)
			return
		}
		texts[i] = text
	}

	report := assembleReport(job.Request, texts)
	now := time.Now().UTC()
	report.GeneratedAt = now

	job.Status = model.JobStatusCompleted
	job.Progress = 100
	job.CurrentStep = "Complete"
	job.Result = report
	job.CompletedAt = &now
	// Terminal writes must land even if the job deadline already expired.
	if err := o.store.Update(context.WithoutCancel(ctx), job); err != nil {
		log.Error("research: failed to record completion", zap.Error(err))
		return
	}
	log.Info("research job completed", zap.Duration("elapsed", now.Sub(job.CreatedAt)))
}

// fail marks the job failed and discards any partial sections.
func (o *Orchestrator) fail(job *model.ResearchJob, log *zap.Logger, reason string) {
	now := time.Now().UTC()
	job.Status = model.JobStatusFailed
	job.Error = reason
	job.Result = nil
	job.CompletedAt = &now
	if err := o.store.Update(context.WithoutCancel(o.baseCtx), job); err != nil {
		log.Error("research: failed to record failure", zap.Error(err))
	}
}
