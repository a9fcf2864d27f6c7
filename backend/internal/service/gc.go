package service

import (
	"context"
	"time"

	"github.com/clientspot/clientspot/shared/logger"
	"github.com/clientspot/clientspot/shared/middleware/metrics"
)

type ExpiredCodeStorage interface {
	DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error)
}

// CodeCollector periodically removes expired verification codes and reset OTPs.
// Expired records are already rejected on use; this only keeps the tables small.
type CodeCollector struct {
	codes ExpiredCodeStorage
	otps  ResetOTPStorage
	now   func() time.Time
}

type CollectStats struct {
	RunAt        time.Time
	CodesDeleted int64
	OTPsDeleted  int64
	DurationMs   int64
}

func NewCodeCollector(codes ExpiredCodeStorage, otps ResetOTPStorage) *CodeCollector {
	return &CodeCollector{codes: codes, otps: otps, now: time.Now}
}

// StartBackgroundCleanup runs RunCleanup every interval until ctx is cancelled.
// A non-positive interval disables the collector.
func (gc *CodeCollector) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Log.Info("code collector disabled")
		return
	}
	ticker := time.NewTicker(interval)
	logger.Log.Info("started code collector", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats, err := gc.RunCleanup(ctx)
				if err != nil {
					logger.Log.Error("code collector: cleanup failed", "error", err)
					continue
				}
				logger.Log.Debug("code collector: completed",
					"codes_deleted", stats.CodesDeleted,
					"otps_deleted", stats.OTPsDeleted,
					"duration_ms", stats.DurationMs)
			case <-ctx.Done():
				logger.Log.Info("code collector: shutting down")
				return
			}
		}
	}()
}

// RunCleanup executes a single collection cycle.
func (gc *CodeCollector) RunCleanup(ctx context.Context) (CollectStats, error) {
	start := gc.now()
	stats := CollectStats{RunAt: start}

	n, err := gc.codes.DeleteExpiredVerificationCodes(ctx, start)
	if err != nil {
		return stats, err
	}
	stats.CodesDeleted = n
	metrics.RecordCodesCollected("verification_code", n)

	n, err = gc.otps.DeleteExpiredResetOTPs(ctx, start)
	if err != nil {
		return stats, err
	}
	stats.OTPsDeleted = n
	metrics.RecordCodesCollected("reset_otp", n)

	stats.DurationMs = time.Since(start).Milliseconds()
	return stats, nil
}
