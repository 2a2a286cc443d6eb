package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commercelab/loyalty/internal/server/http/dto"
)

// AccrualHandler manages accrual recording.
type AccrualHandler struct {
	facade AccrualFacade
}

// NewAccrualHandler constructs AccrualHandler.
func NewAccrualHandler(facade AccrualFacade) *AccrualHandler {
	return &AccrualHandler{facade: facade}
}

// Record handles POST /api/loyalty/orders.
func (h *AccrualHandler) Record(c *gin.Context) {
	var req dto.AccrueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	accrual, err := h.facade.RecordAccrual(c.Request.Context(), req.OrderID, req.UserID, req.TotalPrice)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AccrueResponse{
		OrderID: accrual.OrderID,
		UserID:  accrual.UserID,
		Points:  accrual.Points,
	})
}
