package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adaptive-quiz-service/internal/domain"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

// Config describes how to reach the session backend.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	APIKey        string
	AuthToken     string
}

// Client is a JSON client for the session backend. Transient failures (network errors,
// timeouts, 429) are retried with a linearly growing delay; everything else is returned
// as is.
type Client struct {
	baseURL  string
	http     *http.Client
	headers  http.Header
	timeout  time.Duration
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// envelope is the body of every backend response.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    json.RawMessage `json:"code"`
}

// detail is the server's explanation, preferring message over error.
func (e envelope) detail() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("ngrok-skip-browser-warning", "1")
	if cfg.AuthToken != "" {
		headers.Set("Authorization", "Bearer "+cfg.AuthToken)
	}
	if cfg.APIKey != "" {
		headers.Set("X-API-Key", cfg.APIKey)
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		http:     &http.Client{},
		headers:  headers,
		timeout:  cfg.Timeout,
		attempts: cfg.RetryAttempts,
		delay:    cfg.RetryDelay,
		sleep:    sleepCtx,
	}
}

// Get issues a GET with the given query parameters and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post sends body as JSON and decodes the envelope data into out.
func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", endpoint, err)
		}
	}
	return c.do(ctx, http.MethodPost, endpoint, raw, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out interface{}) error {
	target := c.buildURL(endpoint)
	for attempt := 1; ; attempt++ {
		err := c.once(ctx, method, target, body, out)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt >= c.attempts {
			var rl *RateLimitError
			if errors.As(err, &rl) {
				rl.Attempts = attempt
			}
			return err
		}
		wait := c.delay * time.Duration(attempt)
		log.Printf("backend %s %s failed (attempt %d/%d), retrying in %s: %v", method, endpoint, attempt, c.attempts, wait, err)
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (c *Client) once(ctx context.Context, method, target string, body []byte, out interface{}) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, reqCtx, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, reqCtx, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Status: resp.StatusCode, Message: "authentication required"}
	case resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Message: "access forbidden"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Attempts: 1}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return &ServerError{
			Status: resp.StatusCode,
			Code:   strings.Trim(string(env.Code), `"`),
			Detail: env.detail(),
			Text:   http.StatusText(resp.StatusCode),
		}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if env.Success != nil && !*env.Success {
		return &ServerError{Status: resp.StatusCode, Detail: env.detail(), Text: http.StatusText(resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: missing data", domain.ErrInvalidResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}

// Health reports whether the backend answers its health endpoint with a 2xx status.
func (c *Client) Health(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.buildURL(healthPath), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, reqCtx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Text: http.StatusText(resp.StatusCode)}
	}
	return nil
}

// transportError classifies a failed round trip. Cancellation of the caller's context is
// returned as is; a per-attempt timeout is a retryable NetworkError.
func (c *Client) transportError(ctx, reqCtx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &NetworkError{Timeout: errors.Is(reqCtx.Err(), context.DeadlineExceeded), Err: err}
}

func (c *Client) buildURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
}

func retryable(err error) bool {
	var netErr *NetworkError
	var rl *RateLimitError
	return errors.As(err, &netErr) || errors.As(err, &rl)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
