package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/truelabel/truelabel/internal/config"
)

// Open selects the job store backend once at startup. Postgres is used when
// a database URL is configured and reachable; otherwise the service runs on
// an in-memory store and reports itself as degraded. There is no mid-flight
// failover: the choice made here holds for the process lifetime.
func Open(ctx context.Context, cfg config.StoreConfig) (JobStore, error) {
	ttl := time.Duration(cfg.JobTTLHours) * time.Hour

	if cfg.DatabaseURL != "" {
		pg, err := NewPostgres(ctx, cfg.DatabaseURL, ttl)
		if err == nil {
			zap.L().Info("job store ready", zap.String("backend", "postgres"))
			return pg, nil
		}
		zap.L().Warn("postgres unavailable, falling back to in-memory store",
			zap.Error(err))
	} else {
		zap.L().Warn("no database configured, using in-memory store")
	}

	mem, err := NewSQLite(MemoryDSN, ttl)
	if err != nil {
		return nil, err
	}
	zap.L().Info("job store ready",
		zap.String("backend", "sqlite"),
		zap.Bool("durable", false))
	return mem, nil
}
