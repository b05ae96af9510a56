package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"epidash/internal/logging"
	"epidash/internal/stats"
)

// Backend endpoint paths.
const (
	EndpointSummary    = "/api/summary_stats"
	EndpointDailyTrend = "/api/daily_trend"
	EndpointRegional   = "/api/regional_comparison"
	EndpointRisk       = "/api/risk_distribution"
	EndpointMonthly    = "/api/monthly_statistics"
)

const maxBodyBytes = 8 << 20

// Loader is the dataset source consumed by the dashboard.
type Loader interface {
	LoadAll(ctx context.Context) Batch
}

// Client fetches datasets from the statistics backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Loader = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for per-fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("feeds base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "feeds")
	return client, nil
}

// LoadAll fetches all five datasets concurrently and waits for every fetch to
// settle. Each goroutine writes only its own Batch field and always returns nil
// to the group, so no failure short-circuits the others.
func (c *Client) LoadAll(ctx context.Context) Batch {
	var batch Batch
	var group errgroup.Group

	group.Go(func() error {
		batch.Summary = fetch[stats.Summary](ctx, c, EndpointSummary)
		return nil
	})
	group.Go(func() error {
		batch.Daily = fetch[stats.DailyTrend](ctx, c, EndpointDailyTrend)
		return nil
	})
	group.Go(func() error {
		batch.Regional = fetch[stats.RegionalComparison](ctx, c, EndpointRegional)
		return nil
	})
	group.Go(func() error {
		batch.Risk = fetch[stats.RiskDistribution](ctx, c, EndpointRisk)
		return nil
	})
	group.Go(func() error {
		batch.Monthly = fetch[stats.MonthlyStatistics](ctx, c, EndpointMonthly)
		return nil
	})

	_ = group.Wait()
	return batch
}

// Summary fetches only the headline counters. Readiness checks use it to test
// the backend with the same decoding and validation as a refresh cycle.
func (c *Client) Summary(ctx context.Context) Result[stats.Summary] {
	return fetch[stats.Summary](ctx, c, EndpointSummary)
}

type validator interface {
	Validate() error
}

// fetch never panics past its caller: a panic while decoding becomes an
// error-tagged result like any other failure.
func fetch[T validator](ctx context.Context, c *Client, endpoint string) (result Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			result = Result[T]{Err: fmt.Errorf("%s: panic while fetching: %v", endpoint, r)}
		}
		if result.Err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, c.logger), "dataset fetch failed", "fetch_failed",
				logging.String(logging.FieldEndpoint, endpoint),
				logging.Int("status", result.Status),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "check that the statistics backend is reachable"),
			)
		}
	}()

	body, status, err := c.get(ctx, endpoint)
	result.Status = status
	if err != nil {
		result.Err = err
		return result
	}

	if msg, ok := applicationError(body); ok {
		result.Err = &AppError{Endpoint: endpoint, Message: msg}
		return result
	}

	var value T
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&value); err != nil {
		result.Err = fmt.Errorf("%s: decode response: %w", endpoint, err)
		return result
	}
	if err := value.Validate(); err != nil {
		result.Err = fmt.Errorf("%s: %w", endpoint, err)
		return result
	}
	result.Value = value
	return result
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, resp.StatusCode, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s: read response: %w", endpoint, err)
	}
	return body, resp.StatusCode, nil
}

// applicationError detects the backend's {"error": "message"} envelope.
func applicationError(body []byte) (string, bool) {
	var envelope struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return "", false
	}
	msg := strings.TrimSpace(*envelope.Error)
	if msg == "" {
		msg = "unknown error"
	}
	return msg, true
}
