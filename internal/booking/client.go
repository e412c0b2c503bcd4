package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yousiff139-lang/aqua-dent-link-main/internal/observability/metrics"
	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 1 * time.Second
)

// Client talks to the Supabase REST API (PostgREST) for patients, dentists,
// slots and appointments. The service-role key is attached to every request;
// there is no per-call token refresh.
type Client struct {
	baseURL     string
	serviceKey  string
	httpClient  *http.Client
	logger      *logging.Logger
	metrics     *metrics.BookingMetrics
	tracer      trace.Tracer
	maxAttempts int
	baseDelay   time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetry overrides the retry budget for write operations.
func WithRetry(maxAttempts int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithMetrics attaches booking metrics.
func WithMetrics(m *metrics.BookingMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Supabase REST client.
func NewClient(baseURL, serviceKey string, logger *logging.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL:     baseURL,
		serviceKey:  serviceKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		logger:      logger,
		tracer:      otel.Tracer("chatbot.internal.booking"),
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is a non-2xx PostgREST response. Status drives the retry decision:
// 5xx and 429 are transient, other 4xx are permanent.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("booking: supabase returned %d: %s", e.Status, e.Body)
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	}
	// Transport-level failures (connection refused, timeouts) are retryable.
	return true
}

// do issues one request against /rest/v1/<table> and decodes the response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, prefer string, body, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("booking: marshal %s payload: %w", table, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("booking: build %s request: %w", table, err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("booking: %s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("booking: read %s response: %w", table, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("booking: decode %s response: %w", table, err)
		}
	}
	return nil
}

// withRetry runs fn up to the configured attempt budget, backing off
// exponentially between transient failures. Permanent failures propagate
// immediately.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	delay := c.baseDelay
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == c.maxAttempts {
			break
		}
		c.logger.Warn("transient supabase failure, retrying",
			"operation", op,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)
		c.metrics.ObserveRetry(op)
		select {
		case <-ctx.Done():
			return fmt.Errorf("booking: %s interrupted: %w", op, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("booking: %s failed after %d attempts: %w", op, c.maxAttempts, err)
}

func (c *Client) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}
