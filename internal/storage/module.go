package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/commercelab/loyalty/internal/config"
	"github.com/commercelab/loyalty/internal/domain/repository"
	"github.com/commercelab/loyalty/internal/storage/memory"
	"github.com/commercelab/loyalty/internal/storage/postgres"
)

// Module wires the storage backend and repository adapters. PostgreSQL is
// used when a DSN is configured; otherwise state lives in process memory.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.AccrualRepository { return f.Accruals() },
		func(f repository.Factory) repository.RedemptionRepository { return f.Redemptions() },
	),
)

type factoryParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newFactory(p factoryParams) (repository.Factory, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Info("using in-memory storage")
		return memory.New(p.Logger), nil
	}

	st, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			st.Close()
			return nil
		},
	})
	return st, nil
}
