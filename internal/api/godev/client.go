package godev

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"godev-candidate-bot/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource yields the bearer token for the next request. It is consulted on every
// request so a refreshed token is picked up without rebuilding the client.
type TokenSource interface {
	AccessToken() string
}

// Client for requests to the GoDev backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
	maxRetries int
	backoff    time.Duration
	tokens     TokenSource
	validate   *validator.Validate
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:     logger,
		userAgent:  "GoDev-Candidate-Bot/1.0",
		maxRetries: 3,
		backoff:    time.Second,
		validate:   newValidator(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTokens returns a client sharing the transport that authenticates with ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

type request struct {
	method      string
	path        string
	route       string // path template, used as metrics label
	params      url.Values
	body        []byte
	contentType string
}

// do sends req and decodes the envelope's data into dest (may be nil).
// GET requests are retried on transport failures, 429 and 5xx.
func (c *Client) do(ctx context.Context, req request, dest interface{}) error {
	fullURL := c.baseURL + req.path
	if len(req.params) > 0 {
		fullURL += "?" + req.params.Encode()
	}

	attempts := 1
	if req.method == http.MethodGet {
		attempts = c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.backoff
			c.logger.Debug("retrying request",
				zap.String("url", fullURL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s %s: %w", req.method, req.route, ctx.Err())
			case <-time.After(backoff):
			}
		}

		retry, err := c.send(ctx, req, fullURL, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("%s %s: %w", req.method, req.route, lastErr)
}

func (c *Client) send(ctx context.Context, req request, fullURL string, dest interface{}) (retry bool, err error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveAPI(req.method, req.route, 0, time.Since(start))
		c.logger.Error("API request failed",
			zap.String("request_id", requestID),
			zap.String("method", req.method),
			zap.String("url", fullURL),
			zap.Error(err),
		)
		return true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.metrics.ObserveAPI(req.method, req.route, resp.StatusCode, time.Since(start))
	if err != nil {
		return true, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("successful request",
			zap.String("request_id", requestID),
			zap.String("method", req.method),
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
		)
		if err := decodeEnvelope(resp.StatusCode, raw, dest); err != nil {
			c.logger.Error("API error",
				zap.String("request_id", requestID),
				zap.String("url", fullURL),
				zap.Error(err),
			)
			return false, err
		}
		return false, nil
	}

	apiErr := newAPIError(resp.StatusCode, raw)

	c.logger.Error("API error",
		zap.String("request_id", requestID),
		zap.String("method", req.method),
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message),
	)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn("rate limit hit, backing off")
		return true, apiErr
	case resp.StatusCode >= 500:
		return true, apiErr
	default:
		return false, apiErr
	}
}

func decodeEnvelope(status int, raw []byte, dest interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if !env.Success {
		return &APIError{Status: status, Message: stringValue(env.Message), Errors: env.Errors}
	}

	if dest == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path, route string, params url.Values, dest interface{}) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, route: route, params: params}, dest)
}

func (c *Client) sendJSON(ctx context.Context, method, path, route string, payload, dest interface{}) error {
	if err := c.validatePayload(payload); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return c.do(ctx, request{
		method:      method,
		path:        path,
		route:       route,
		body:        data,
		contentType: "application/json",
	}, dest)
}

func (c *Client) validatePayload(payload interface{}) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate payload: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, ErrorDetail{
			Field:   fe.Field(),
			Message: fe.Tag(),
			Code:    fe.Tag(),
		})
	}
	return verr
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
