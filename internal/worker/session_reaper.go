package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reaper is the part of the session hub the worker drives.
type Reaper interface {
	ReapIdle(now time.Time) int
}

// StartSessionReaper sweeps idle dashboard sessions every interval until
// ctx is done. The returned channel closes when the loop exits.
func StartSessionReaper(ctx context.Context, reaper Reaper, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if reaper == nil || interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := reaper.ReapIdle(now); n > 0 {
					logger.Info("idle sessions reaped", zap.Int("count", n))
				}
			}
		}
	}()
	return done
}
