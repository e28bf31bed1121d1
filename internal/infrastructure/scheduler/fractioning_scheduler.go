package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/eletroerp/backend/internal/application/inventory"
	"go.uber.org/zap"
)

// FractioningSchedulerConfig holds configuration for the reconciliation scheduler
type FractioningSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// RunInterval is the time between reconciliation runs
	RunInterval time.Duration

	// RunOnStartup triggers an immediate run when the scheduler starts
	RunOnStartup bool

	// RunTimeout is the maximum time for one reconciliation run
	RunTimeout time.Duration
}

// DefaultFractioningSchedulerConfig returns default configuration
func DefaultFractioningSchedulerConfig() FractioningSchedulerConfig {
	return FractioningSchedulerConfig{
		Enabled:      true,
		RunInterval:  time.Hour,
		RunOnStartup: false,
		RunTimeout:   10 * time.Minute,
	}
}

// FractioningScheduler periodically runs the fractioning reconciliation.
// Because the reconciliation is idempotent, overlapping or repeated runs are
// harmless; the scheduler still serializes runs within one process.
type FractioningScheduler struct {
	service   *inventory.FractioningService
	logger    *zap.Logger
	config    FractioningSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewFractioningScheduler creates a new fractioning scheduler
func NewFractioningScheduler(service *inventory.FractioningService, logger *zap.Logger, config FractioningSchedulerConfig) *FractioningScheduler {
	return &FractioningScheduler{
		service: service,
		logger:  logger,
		config:  config,
	}
}

// Start starts the scheduler
func (s *FractioningScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("fractioning scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("fractioning scheduler started",
		zap.Duration("run_interval", s.config.RunInterval))
	return nil
}

// Stop stops the scheduler and waits for an in-flight run to finish
func (s *FractioningScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.isRunning = false
	s.logger.Info("fractioning scheduler stopped")
}

func (s *FractioningScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStartup {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *FractioningScheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.service.ReconcilePending(runCtx)
	if err != nil {
		s.logger.Error("fractioning reconciliation run failed", zap.Error(err))
		return
	}

	s.logger.Info("fractioning reconciliation run finished",
		zap.Int("purchases_processed", result.PurchasesProcessed),
		zap.Int("items_adjusted", result.ItemsAdjusted),
		zap.Duration("elapsed", time.Since(start)))
}
