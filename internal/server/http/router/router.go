package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/commercelab/loyalty/internal/server/http/handlers"
	"github.com/commercelab/loyalty/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LoyaltyFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.PropagateToken())

	balanceHandler := handlers.NewBalanceHandler(facade)
	redemptionHandler := handlers.NewRedemptionHandler(facade)
	accrualHandler := handlers.NewAccrualHandler(facade)

	api := engine.Group("/api")
	loyalty := api.Group("/loyalty")
	loyalty.POST("/orders", accrualHandler.Record)

	users := loyalty.Group("/users/:userID")
	users.GET("/balance", balanceHandler.Get)
	users.POST("/redeem", redemptionHandler.Redeem)
	users.GET("/redemptions", redemptionHandler.History)

	return engine
}
