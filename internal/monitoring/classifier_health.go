package monitoring

import (
	"context"
	"log/slog"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// MonitorClassifierHealth polls the checker until ctx is done, starting from
// a healthy state, and logs each transition once.
func MonitorClassifierHealth(ctx context.Context, checker HealthChecker, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := checker.HealthCheck(ctx)
			if isHealthy == healthy {
				continue
			}
			healthy = isHealthy
			if healthy {
				slog.Info("[HealthCheck] Classifier endpoint recovered")
			} else {
				slog.Warn("[HealthCheck] Classifier endpoint is unhealthy")
			}
		}
	}
}
