package orders

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/commercelab/loyalty/internal/config"
)

// Module exposes the order service client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.OrderServiceURL, p.Logger)
}
