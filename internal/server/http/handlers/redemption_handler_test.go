package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/server/http/dto"
	testhelpers "github.com/commercelab/loyalty/internal/test"
)

func redeemRouter(facade RedemptionFacade) *gin.Engine {
	handler := NewRedemptionHandler(facade)
	return newTestRouter(func(e *gin.Engine) {
		e.POST("/api/loyalty/users/:userID/redeem", handler.Redeem)
		e.GET("/api/loyalty/users/:userID/redemptions", handler.History)
	})
}

func TestRedeemHandlerSuccess(t *testing.T) {
	committed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	facade := testhelpers.LoyaltyFacadeStub{
		RedeemFn: func(_ context.Context, userID string, points int64) (*model.Redemption, int64, error) {
			return &model.Redemption{ID: "r1", UserID: userID, Points: points, CreatedAt: committed}, 150, nil
		},
	}
	engine := redeemRouter(facade)

	w := doRequest(engine, http.MethodPost, "/api/loyalty/users/alice/redeem", `{"points":50}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	var resp dto.RedemptionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RedemptionID != "r1" || resp.UserID != "alice" || resp.Points != 50 || resp.NewBalance != 150 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Timestamp.Equal(committed) {
		t.Fatalf("unexpected timestamp: %v", resp.Timestamp)
	}
}

func TestRedeemHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown user", err: domainErrors.ErrNotFound, want: http.StatusNotFound},
		{name: "invalid amount", err: domainErrors.ErrInvalidAmount, want: http.StatusBadRequest},
		{name: "insufficient balance", err: domainErrors.ErrInsufficientBalance, want: http.StatusConflict},
		{name: "upstream down", err: domainErrors.ErrUpstreamUnavailable, want: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := testhelpers.LoyaltyFacadeStub{
				RedeemFn: func(context.Context, string, int64) (*model.Redemption, int64, error) {
					return nil, 0, tc.err
				},
			}
			engine := redeemRouter(facade)

			w := doRequest(engine, http.MethodPost, "/api/loyalty/users/alice/redeem", `{"points":50}`)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestRedeemHandlerRejectsMalformedBody(t *testing.T) {
	engine := redeemRouter(testhelpers.LoyaltyFacadeStub{})

	w := doRequest(engine, http.MethodPost, "/api/loyalty/users/alice/redeem", `{"points":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHistoryHandlerReturnsEntries(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	facade := testhelpers.LoyaltyFacadeStub{
		HistoryFn: func(_ context.Context, userID string) ([]model.Redemption, error) {
			return []model.Redemption{
				{ID: "r2", UserID: userID, Points: 20, CreatedAt: base.Add(time.Hour)},
				{ID: "r1", UserID: userID, Points: 10, CreatedAt: base},
			}, nil
		},
	}
	engine := redeemRouter(facade)

	w := doRequest(engine, http.MethodGet, "/api/loyalty/users/alice/redemptions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp dto.RedemptionHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserID != "alice" || len(resp.Redemptions) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Redemptions[0].RedemptionID != "r2" || resp.Redemptions[1].RedemptionID != "r1" {
		t.Fatalf("unexpected ordering: %+v", resp.Redemptions)
	}
}

func TestHistoryHandlerEmptyList(t *testing.T) {
	engine := redeemRouter(testhelpers.LoyaltyFacadeStub{})

	w := doRequest(engine, http.MethodGet, "/api/loyalty/users/alice/redemptions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp dto.RedemptionHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Redemptions == nil {
		t.Fatal("expected empty array, got null")
	}
	if len(resp.Redemptions) != 0 {
		t.Fatalf("expected no entries, got %d", len(resp.Redemptions))
	}
}

func TestHistoryHandlerUnknownUser(t *testing.T) {
	facade := testhelpers.LoyaltyFacadeStub{
		HistoryFn: func(context.Context, string) ([]model.Redemption, error) {
			return nil, domainErrors.ErrNotFound
		},
	}
	engine := redeemRouter(facade)

	w := doRequest(engine, http.MethodGet, "/api/loyalty/users/ghost/redemptions", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
