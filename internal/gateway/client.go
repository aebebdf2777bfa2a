package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/metrics"
	"shareit/internal/models"
)

// ErrUpstreamUnavailable is returned when the server tier cannot be reached
// after all retries.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// UpstreamRequest is one call relayed to the server tier.
type UpstreamRequest struct {
	Method    string
	URI       string // path plus raw query
	UserID    string
	RequestID string
	Body      []byte
}

// Client relays requests to the server tier, sending the gateway's API key.
type Client struct {
	baseURL    string
	apiKey     string
	apiExtra   string
	httpClient *http.Client
	retry      RetryPolicy
	logger     zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg config.GatewayConfig, logger *zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "upstream").Logger()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		apiKey:     cfg.APIKey,
		apiExtra:   cfg.APIExtra,
		httpClient: &http.Client{Timeout: timeout},
		retry:      NewRetryPolicy(cfg.Retry),
		logger:     l,
		sleep:      sleepCtx,
	}
}

// Forward sends req upstream and returns the upstream status, content type and
// body verbatim. Transport failures are retried with backoff: idempotent
// methods on any failure, others only when the connection was never made.
func (c *Client) Forward(ctx context.Context, req UpstreamRequest) (*models.CachedResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.IncRetry()
			if err := c.sleep(ctx, c.retry.NextDelay(attempt)); err != nil {
				return nil, err
			}
		}

		resp, err := c.do(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		c.logger.Warn().Err(err).
			Str("method", req.Method).
			Str("uri", req.URI).
			Int("attempt", attempt+1).
			Msg("upstream call failed")

		if ctx.Err() != nil || !retryable(req.Method, err) {
			break
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, lastErr)
}

func (c *Client) do(ctx context.Context, ur UpstreamRequest) (*models.CachedResponse, error) {
	var body io.Reader
	if len(ur.Body) > 0 {
		body = bytes.NewReader(ur.Body)
	}
	req, err := http.NewRequestWithContext(ctx, ur.Method, c.baseURL+ur.URI, body)
	if err != nil {
		return nil, err
	}
	if len(ur.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if ur.UserID != "" {
		req.Header.Set(models.HeaderUserID, ur.UserID)
	}
	if ur.RequestID != "" {
		req.Header.Set(api.RequestIDHeader, ur.RequestID)
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	return &models.CachedResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// Healthz checks that the server tier answers its liveness probe.
func (c *Client) Healthz(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream healthz: http %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if c.apiExtra != "" {
		req.Header.Set("x-api-extra", c.apiExtra)
	}
}

func retryable(method string, err error) bool {
	switch method {
	case http.MethodGet, http.MethodHead:
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
