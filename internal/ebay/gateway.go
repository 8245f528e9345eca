package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/donaldgifford/ebay-lister/internal/metrics"
	"github.com/donaldgifford/ebay-lister/pkg/logger"
)

// callTimeout is the fixed per-call deadline. There is no cancellation once
// a call is issued and no automatic retry.
const callTimeout = 30 * time.Second

// Gateway is the authenticated HTTP wrapper all Sell API calls go through.
// It attaches the bearer token and marketplace header, applies the rate
// limiter when configured, and normalizes transport, parse, and remote
// failures into the error taxonomy. Expected failure modes never panic.
type Gateway struct {
	tokens      TokenSource
	marketplace string
	client      *http.Client
	limiter     *RateLimiter
	log         *slog.Logger
}

// GatewayOption configures the Gateway.
type GatewayOption func(*Gateway)

// WithGatewayHTTPClient overrides the default HTTP client.
func WithGatewayHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.client = c
	}
}

// WithGatewayRateLimiter injects a rate limiter consulted before every call.
func WithGatewayRateLimiter(r *RateLimiter) GatewayOption {
	return func(g *Gateway) {
		g.limiter = r
	}
}

// WithGatewayLogger sets the logger.
func WithGatewayLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.log = l
	}
}

// NewGateway creates a Gateway drawing bearer tokens from tokens and
// stamping every call with the given marketplace ID.
func NewGateway(tokens TokenSource, marketplace string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		tokens:      tokens,
		marketplace: marketplace,
		client:      &http.Client{Timeout: callTimeout},
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Call issues one authenticated request. A non-nil body is JSON-encoded.
// Extra headers are merged last and may override the defaults. Success is
// any 2xx; 204 or an empty body yields an empty payload.
func (g *Gateway) Call(
	ctx context.Context,
	method, url string,
	body any,
	extraHeaders map[string]string,
) (map[string]any, error) {
	payload, err := g.call(ctx, method, url, body, extraHeaders)
	if err != nil {
		metrics.APICallErrorsTotal.WithLabelValues(Category(err)).Inc()
		g.log.Error("API call failed", "method", method, "url", url, "error", err)
		return nil, err
	}
	return payload, nil
}

func (g *Gateway) call(
	ctx context.Context,
	method, url string,
	body any,
	extraHeaders map[string]string,
) (map[string]any, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.DailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.DailyUsage.Set(float64(g.limiter.DailyCount()))
	}

	token, err := g.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", g.marketplace)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	g.log.Debug("API call", "method", method, "url", url)
	metrics.APICallsTotal.WithLabelValues(method).Inc()

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.APICallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	g.log.Debug("API response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{
			Status:  resp.StatusCode,
			Message: remoteMessage(respBody),
		}
	}

	if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, &ParseError{Err: err}
	}
	return payload, nil
}

// remoteMessage extracts a human-readable message from an eBay error
// payload, falling back to the raw body text.
func remoteMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Errors  []struct {
			Message     string `json:"message"`
			LongMessage string `json:"longMessage"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if len(parsed.Errors) > 0 {
			if parsed.Errors[0].LongMessage != "" {
				return parsed.Errors[0].LongMessage
			}
			if parsed.Errors[0].Message != "" {
				return parsed.Errors[0].Message
			}
		}
	}
	return string(body)
}
