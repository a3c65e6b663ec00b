package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/internal/account/store"
)

// HousekeepingService periodically purges rows that no longer matter:
// attempts older than the rate window and refresh tokens that expired
// or were revoked. Attempt rows inside the window MUST stay, the rolling
// rate limit is computed from them.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs the actual deletion of aged-out records.
// Each deletion is independent, a failure in one does not stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()
	cutoff := now.Add(-domain.RateWindow)

	if n, err := s.Store.SignupAttempts().DeleteSignupAttemptsBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to purge signup attempts", "error", err)
	} else if n > 0 {
		s.Logger.Debug("purged signup attempts", "count", n)
	}

	if n, err := s.Store.LoginAttempts().DeleteLoginAttemptsBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to purge login attempts", "error", err)
	} else if n > 0 {
		s.Logger.Debug("purged login attempts", "count", n)
	}

	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	}
}
