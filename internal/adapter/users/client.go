package users

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/commercelab/loyalty/internal/pkg/token"
)

// Client reports whether a user exists in the remote user service.
type Client interface {
	Validate(ctx context.Context, userID string) (bool, error)
}

// HTTPClient implements Client via the user service HTTP API. Any transport
// failure or unexpected status is treated as "user does not exist": balance
// and redemption operations downstream assume user validity, so the check
// fails closed instead of propagating an ambiguous error.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	group      singleflight.Group
}

type validatePayload struct {
	Exists bool `json:"exists"`
}

// NewHTTPClient creates a user service client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse user service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("user service url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Validate checks user existence. Concurrent validations of the same user
// are coalesced into a single upstream request.
func (c *HTTPClient) Validate(ctx context.Context, userID string) (bool, error) {
	// The leader's result is shared with every coalesced caller, so the
	// fetch must not die with whichever request happens to lead. The client
	// timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(userID, func() (any, error) {
		return c.validate(fetchCtx, userID), nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *HTTPClient) validate(ctx context.Context, userID string) bool {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/users", userID, "validate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		c.logger.Warn("user validation request build failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Accept", "application/json")
	if t := token.FromContext(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("user validation failed, treating user as unknown",
			slog.String("user_id", userID), slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("user validation returned unexpected status",
			slog.String("user_id", userID), slog.Int("status", resp.StatusCode))
		return false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("user validation read failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return false
	}
	var data validatePayload
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Warn("user validation decode failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return false
	}
	return data.Exists
}
