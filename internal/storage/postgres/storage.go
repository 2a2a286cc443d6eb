package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on; tests swap it
// for a mock.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type accrualRepository struct {
	storage *Storage
}

type redemptionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Accruals() repository.AccrualRepository {
	return &accrualRepository{storage: s}
}

func (s *Storage) Redemptions() repository.RedemptionRepository {
	return &redemptionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accruals (
            order_id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            points BIGINT NOT NULL,
            status TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS redemptions (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            points BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_accruals_user ON accruals(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_user ON redemptions(user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- AccrualRepository implementation ---

func (r *accrualRepository) Upsert(ctx context.Context, accrual model.Accrual) error {
	const query = `INSERT INTO accruals (order_id, user_id, points, status, updated_at)
                   VALUES ($1, $2, $3, $4, NOW())
                   ON CONFLICT (order_id) DO UPDATE
                   SET user_id = EXCLUDED.user_id,
                       points = EXCLUDED.points,
                       status = EXCLUDED.status,
                       updated_at = NOW()`
	if _, err := r.storage.pool.Exec(ctx, query, accrual.OrderID, accrual.UserID, accrual.Points, string(accrual.Status)); err != nil {
		return fmt.Errorf("upsert accrual: %w", err)
	}
	return nil
}

func (r *accrualRepository) ListByUser(ctx context.Context, userID string) ([]model.Accrual, error) {
	const query = `SELECT order_id, user_id, points, status FROM accruals WHERE user_id=$1`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Accrual, 0)
	for rows.Next() {
		var a model.Accrual
		var status string
		if err := rows.Scan(&a.OrderID, &a.UserID, &a.Points, &status); err != nil {
			return nil, err
		}
		a.Status = model.AccrualStatus(status)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *accrualRepository) Users(ctx context.Context, limit int) ([]string, error) {
	const query = `SELECT DISTINCT user_id FROM accruals LIMIT $1`
	// LIMIT NULL means no cap, mirroring the in-memory backend.
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.storage.pool.Query(ctx, query, limitArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		users = append(users, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// --- RedemptionRepository implementation ---

func (r *redemptionRepository) Append(ctx context.Context, redemption model.Redemption) error {
	const query = `INSERT INTO redemptions (id, user_id, points, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.storage.pool.Exec(ctx, query, redemption.ID, redemption.UserID, redemption.Points, redemption.CreatedAt); err != nil {
		return fmt.Errorf("append redemption: %w", err)
	}
	return nil
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID string) ([]model.Redemption, error) {
	const query = `SELECT id, user_id, points, created_at FROM redemptions WHERE user_id=$1 ORDER BY created_at DESC, id`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Redemption, 0)
	for rows.Next() {
		var red model.Redemption
		if err := rows.Scan(&red.ID, &red.UserID, &red.Points, &red.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, red)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
