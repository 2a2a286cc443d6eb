package usecase

import (
	"go.uber.org/fx"

	"github.com/commercelab/loyalty/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) QualifyingStatus {
		return QualifyingStatusSet(cfg.QualifyingStatuses)
	}),
	fx.Provide(
		NewBalanceUseCase,
		NewRedemptionUseCase,
		NewAccrualUseCase,
	),
)
