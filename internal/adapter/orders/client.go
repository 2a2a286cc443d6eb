package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/pkg/token"
)

// Client exposes operations to query the remote order service.
type Client interface {
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
}

// TooManyRequestsError represents a rate limiting signal from the order
// service, carrying the backoff the service asked for.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("order service rate limited, retry after %s", e.RetryAfter)
}

// Unwrap lets callers that only care about reachability treat rate limiting
// as the upstream being unavailable.
func (e TooManyRequestsError) Unwrap() error {
	return domainErrors.ErrUpstreamUnavailable
}

// HTTPClient implements Client via the order service HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// orderPayload mirrors the JSON shape of a single order from the service.
type orderPayload struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	Points     int64     `json:"accruedLoyaltyPoints"`
	TotalPrice float64   `json:"totalPrice"`
	OrderDate  time.Time `json:"orderDate"`
}

type listPayload struct {
	Orders []orderPayload `json:"orders"`
	Total  int            `json:"total"`
}

// NewHTTPClient creates an order service client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse order service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("order service url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// ListByUser fetches the order catalog and keeps only the user's orders. The
// upstream API returns the full list; filtering happens client side.
func (c *HTTPClient) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	resp, err := c.do(ctx, "/orders")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return nil, c.unexpectedStatus(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, err)
	}
	var data listPayload
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}

	result := make([]model.Order, 0, len(data.Orders))
	for _, o := range data.Orders {
		if o.UserID != userID {
			continue
		}
		result = append(result, toModel(o))
	}
	return result, nil
}

// Get fetches a single order by identifier.
func (c *HTTPClient) Get(ctx context.Context, orderID string) (*model.Order, error) {
	resp, err := c.do(ctx, path.Join("/orders", orderID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, err)
		}
		var data orderPayload
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		order := toModel(data)
		return &order, nil
	case http.StatusNotFound:
		return nil, domainErrors.ErrNotFound
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return nil, c.unexpectedStatus(resp)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

func (c *HTTPClient) do(ctx context.Context, requestPath string) (*http.Response, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, requestPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if t := token.FromContext(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

func (c *HTTPClient) unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("order service request failed",
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(body)),
	)
	return fmt.Errorf("%w: order service returned %s", domainErrors.ErrUpstreamUnavailable, resp.Status)
}

func toModel(p orderPayload) model.Order {
	return model.Order{
		ID:         p.ID,
		UserID:     p.UserID,
		Status:     p.Status,
		Points:     p.Points,
		TotalPrice: p.TotalPrice,
		OrderDate:  p.OrderDate,
	}
}
