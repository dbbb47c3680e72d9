package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/truelabel/truelabel/internal/config"
)

// Sweeper removes expired jobs from the store on a fixed interval.
type Sweeper struct {
	store JobStore
	cfg   config.StoreConfig
}

// NewSweeper creates a background job sweeper.
func NewSweeper(s JobStore, cfg config.StoreConfig) *Sweeper {
	return &Sweeper{store: s, cfg: cfg}
}

// Run starts the sweep loop. It blocks until ctx is cancelled.
func (sw *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(sw.cfg.SweepIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	log := zap.L().With(zap.String("component", "store.sweeper"))
	log.Info("starting job sweeper",
		zap.Duration("interval", interval),
		zap.Int("ttl_hours", sw.cfg.JobTTLHours),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("job sweeper stopped")
			return
		case <-ticker.C:
			sw.sweep(ctx, log)
		}
	}
}

func (sw *Sweeper) sweep(ctx context.Context, log *zap.Logger) {
	n, err := sw.store.DeleteExpired(ctx)
	if err != nil {
		log.Error("sweeper: failed to delete expired jobs", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("sweeper: removed expired jobs", zap.Int("count", n))
	}
}
