package background

import (
	"context"
	"log/slog"
	"time"
)

// ResetTokenStore is the subset of the user repository the cleanup task needs.
type ResetTokenStore interface {
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

// CleanupManager periodically clears expired password reset tokens from the database
type CleanupManager struct {
	store    ResetTokenStore
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(store ResetTokenStore, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		store:    store,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup clears reset tokens whose expiry has passed
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsCleared, err := cm.store.ClearExpiredResetTokens(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to clear expired reset tokens", slog.Any("error", err))
		return
	}

	if rowsCleared > 0 {
		cm.logger.Info("expired reset token cleanup completed", slog.Int64("rows_cleared", rowsCleared))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
