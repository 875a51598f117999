// Package webhook sends chat messages to a remote webhook and returns its JSON payload.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/hookchat/hookchat/internal/errors"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// request is the JSON body posted to the webhook
type request struct {
	Message string `json:"message"`
}

// Client posts messages to a single webhook endpoint
type Client struct {
	httpClient tls_client.HttpClient
	endpoint   string
	headers    map[string]string
	timeout    time.Duration
	logger     *slog.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets a request timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeader adds a static header to every request
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for endpoint
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}

	client := &Client{
		endpoint: endpoint,
		headers:  make(map[string]string),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutMilliseconds(timeoutMilliseconds(client.timeout)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// timeoutMilliseconds converts d for the transport. Positive durations never
// round down to zero, which the transport treats as no timeout.
func timeoutMilliseconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	ms := int(d / time.Millisecond)
	if ms == 0 {
		return 1
	}
	return ms
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL
func ValidateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return apierrors.ErrNoEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return apierrors.NewConfigError("webhook_url", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apierrors.NewConfigError("webhook_url", "must be an http or https URL")
	}
	if u.Host == "" {
		return apierrors.NewConfigError("webhook_url", "missing host")
	}

	return nil
}

// Endpoint returns the webhook URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts message as {"message": ...} and returns the parsed JSON response.
// Transport failures, non-2xx statuses and non-JSON bodies are returned as errors.
func (c *Client) Send(message string) (gjson.Result, error) {
	payload, err := json.Marshal(request{Message: message})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("webhook request failed", "endpoint", c.endpoint, "error", err)
		return gjson.Result{}, apierrors.NewNetworkErrorWithEndpoint("send message", c.endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	c.logger.Debug("webhook responded",
		"endpoint", c.endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorBody []byte
		if resp.Body != nil {
			errorBody, _ = io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		}
		return gjson.Result{}, apierrors.NewAPIErrorWithBody(
			resp.StatusCode,
			c.endpoint,
			fmt.Sprintf("network response not ok, status %d", resp.StatusCode),
			string(errorBody),
		)
	}

	var body []byte
	if resp.Body != nil {
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return gjson.Result{}, apierrors.NewNetworkErrorWithEndpoint("read response", c.endpoint, err)
		}
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, apierrors.NewParseError("response body is not valid JSON", c.endpoint)
	}

	return gjson.ParseBytes(body), nil
}
