package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/domain/repository"
)

// Storage keeps accruals and redemptions in process memory. It is the
// reference backend: state does not survive a restart, which matches the
// single authoritative instance this service assumes.
type Storage struct {
	mu sync.RWMutex
	// accruals are keyed by user, then by order for idempotent upsert.
	accruals    map[string]map[string]model.Accrual
	redemptions map[string][]model.Redemption
	logger      *slog.Logger
}

type accrualRepository struct {
	storage *Storage
}

type redemptionRepository struct {
	storage *Storage
}

// New constructs an empty in-memory storage.
func New(logger *slog.Logger) *Storage {
	return &Storage{
		accruals:    make(map[string]map[string]model.Accrual),
		redemptions: make(map[string][]model.Redemption),
		logger:      logger,
	}
}

func (s *Storage) Accruals() repository.AccrualRepository {
	return &accrualRepository{storage: s}
}

func (s *Storage) Redemptions() repository.RedemptionRepository {
	return &redemptionRepository{storage: s}
}

func (r *accrualRepository) Upsert(ctx context.Context, accrual model.Accrual) error {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	byOrder, ok := s.accruals[accrual.UserID]
	if !ok {
		byOrder = make(map[string]model.Accrual)
		s.accruals[accrual.UserID] = byOrder
	}
	byOrder[accrual.OrderID] = accrual
	return nil
}

func (r *accrualRepository) ListByUser(ctx context.Context, userID string) ([]model.Accrual, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	byOrder := s.accruals[userID]
	result := make([]model.Accrual, 0, len(byOrder))
	for _, a := range byOrder {
		result = append(result, a)
	}
	return result, nil
}

func (r *accrualRepository) Users(ctx context.Context, limit int) ([]string, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.accruals))
	for userID := range s.accruals {
		if limit > 0 && len(users) == limit {
			break
		}
		users = append(users, userID)
	}
	return users, nil
}

func (r *redemptionRepository) Append(ctx context.Context, redemption model.Redemption) error {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	s.redemptions[redemption.UserID] = append(s.redemptions[redemption.UserID], redemption)
	return nil
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID string) ([]model.Redemption, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.redemptions[userID]
	result := make([]model.Redemption, len(stored))
	copy(result, stored)
	return result, nil
}
