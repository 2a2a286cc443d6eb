package di

import (
	"go.uber.org/fx"

	"github.com/commercelab/loyalty/internal/adapter/orders"
	"github.com/commercelab/loyalty/internal/adapter/users"
	"github.com/commercelab/loyalty/internal/app"
	"github.com/commercelab/loyalty/internal/config"
	"github.com/commercelab/loyalty/internal/logger"
	"github.com/commercelab/loyalty/internal/server/http/handlers"
	"github.com/commercelab/loyalty/internal/server/http/router"
	"github.com/commercelab/loyalty/internal/storage"
	"github.com/commercelab/loyalty/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		storage.Module,
		orders.Module,
		users.Module,
		fx.Provide(
			func(client orders.Client) usecase.OrderSource { return client },
			func(client users.Client) usecase.UserValidator { return client },
		),
		usecase.Module,
		fx.Provide(func(f *app.LoyaltyFacade) handlers.LoyaltyFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
