package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/commercelab/loyalty/internal/adapter/orders"
	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
)

// LoyaltyFacade exposes the subset of application functionality required by the worker.
type LoyaltyFacade interface {
	UsersWithAccruals(ctx context.Context, limit int) ([]string, error)
	RefreshAccruals(ctx context.Context, userID string) error
}

// AccrualSyncer keeps the local accrual cache warm so balance computation can
// fall back to it when the order service degrades. It periodically selects
// users with recorded accruals and refreshes each from the remote catalog
// using a small worker pool.
type AccrualSyncer struct {
	facade       LoyaltyFacade
	syncInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan string
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewAccrualSyncer constructs the accrual refresh worker pool.
func NewAccrualSyncer(facade LoyaltyFacade, syncInterval time.Duration, batchSize, workers int, logger *slog.Logger) *AccrualSyncer {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &AccrualSyncer{
		facade:       facade,
		syncInterval: syncInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan string, batchSize*workers),
	}
}

// Start launches background processing.
func (s *AccrualSyncer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *AccrualSyncer) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *AccrualSyncer) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *AccrualSyncer) fetchAndDispatch(ctx context.Context) {
	users, err := s.facade.UsersWithAccruals(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("select users for accrual refresh failed", slog.String("error", err.Error()))
		return
	}
	for _, userID := range users {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- userID:
		}
	}
}

func (s *AccrualSyncer) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case userID, ok := <-s.jobs:
			if !ok {
				return
			}
			s.refresh(ctx, userID)
		}
	}
}

func (s *AccrualSyncer) refresh(ctx context.Context, userID string) {
	if err := s.facade.RefreshAccruals(ctx, userID); err != nil {
		var rateLimited orders.TooManyRequestsError
		switch {
		case errors.As(err, &rateLimited):
			s.logger.Warn("order service rate limited", slog.Duration("retry_after", rateLimited.RetryAfter))
			s.backoff(ctx, rateLimited.RetryAfter)
		case errors.Is(err, domainErrors.ErrUpstreamUnavailable):
			// The catalog will come back on its own; the next tick retries.
			s.logger.Warn("order service unavailable during refresh", slog.String("user_id", userID))
		default:
			s.logger.Error("accrual refresh failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		}
	}
}

// backoff parks the worker for the requested duration so the pool stops
// hammering a rate limited catalog.
func (s *AccrualSyncer) backoff(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
