package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commercelab/loyalty/internal/server/http/dto"
)

// BalanceHandler manages balance-related endpoints.
type BalanceHandler struct {
	facade BalanceFacade
}

// NewBalanceHandler constructs BalanceHandler.
func NewBalanceHandler(facade BalanceFacade) *BalanceHandler {
	return &BalanceHandler{facade: facade}
}

// Get handles GET /api/loyalty/users/:userID/balance.
func (h *BalanceHandler) Get(c *gin.Context) {
	userID := c.Param("userID")
	balance, err := h.facade.Balance(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:         userID,
		Balance:        balance.Available,
		EarnedPoints:   balance.Earned,
		RedeemedPoints: balance.Redeemed,
	})
}
