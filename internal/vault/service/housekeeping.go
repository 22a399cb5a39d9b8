package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/store"
)

// DefaultActivityRetention is how long activity entries are kept.
const DefaultActivityRetention = 90 * 24 * time.Hour

// HousekeepingService periodically deletes expired password resets and old
// activity entries.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Clock     Clock

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewHousekeepingService returns a stopped service. A non-positive interval
// means one hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: DefaultActivityRetention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs a cleanup immediately and then every Interval until Stop.
func (s *HousekeepingService) Start() {
	s.running = true
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished. It is a no-op if
// Start was never called.
func (s *HousekeepingService) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. Each deletion is independent.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.Clock.Now()

	if n, err := s.Store.PasswordResets().DeleteExpiredPasswordResets(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired password resets", "error", err)
	} else {
		s.Logger.Debug("deleted expired password resets", "count", n)
	}

	if s.Retention > 0 {
		if n, err := s.Store.Activity().DeleteActivityBefore(ctx, now.Add(-s.Retention)); err != nil {
			s.Logger.Error("failed to prune activity log", "error", err)
		} else {
			s.Logger.Debug("pruned activity log", "count", n)
		}
	}
}
