package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commercelab/loyalty/internal/server/http/dto"
)

// RedemptionHandler manages redemption endpoints.
type RedemptionHandler struct {
	facade RedemptionFacade
}

// NewRedemptionHandler constructs RedemptionHandler.
func NewRedemptionHandler(facade RedemptionFacade) *RedemptionHandler {
	return &RedemptionHandler{facade: facade}
}

// Redeem handles POST /api/loyalty/users/:userID/redeem.
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	userID := c.Param("userID")
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	redemption, newBalance, err := h.facade.Redeem(c.Request.Context(), userID, req.Points)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RedemptionResponse{
		RedemptionID: redemption.ID,
		UserID:       redemption.UserID,
		Points:       redemption.Points,
		Timestamp:    redemption.CreatedAt,
		NewBalance:   newBalance,
	})
}

// History handles GET /api/loyalty/users/:userID/redemptions.
func (h *RedemptionHandler) History(c *gin.Context) {
	userID := c.Param("userID")
	redemptions, err := h.facade.History(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	records := make([]dto.RedemptionRecord, 0, len(redemptions))
	for _, r := range redemptions {
		records = append(records, dto.RedemptionRecord{
			RedemptionID: r.ID,
			UserID:       r.UserID,
			Points:       r.Points,
			Timestamp:    r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, dto.RedemptionHistoryResponse{UserID: userID, Redemptions: records})
}
