package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/server/http/dto"
	testhelpers "github.com/commercelab/loyalty/internal/test"
)

func newTestRouter(register func(*gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	register(engine)
	return engine
}

func doRequest(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBalanceHandlerGet(t *testing.T) {
	facade := testhelpers.LoyaltyFacadeStub{
		BalanceFn: func(_ context.Context, userID string) (*model.Balance, error) {
			if userID != "alice" {
				return nil, domainErrors.ErrNotFound
			}
			return &model.Balance{Earned: 300, Redeemed: 100, Available: 200}, nil
		},
	}
	handler := NewBalanceHandler(facade)
	engine := newTestRouter(func(e *gin.Engine) {
		e.GET("/api/loyalty/users/:userID/balance", handler.Get)
	})

	w := doRequest(engine, http.MethodGet, "/api/loyalty/users/alice/balance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserID != "alice" || resp.Balance != 200 || resp.EarnedPoints != 300 || resp.RedeemedPoints != 100 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBalanceHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown user", err: domainErrors.ErrNotFound, want: http.StatusNotFound},
		{name: "upstream down", err: domainErrors.ErrUpstreamUnavailable, want: http.StatusBadGateway},
		{name: "internal failure", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := testhelpers.LoyaltyFacadeStub{
				BalanceFn: func(context.Context, string) (*model.Balance, error) { return nil, tc.err },
			}
			handler := NewBalanceHandler(facade)
			engine := newTestRouter(func(e *gin.Engine) {
				e.GET("/api/loyalty/users/:userID/balance", handler.Get)
			})

			w := doRequest(engine, http.MethodGet, "/api/loyalty/users/ghost/balance", "")
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}
