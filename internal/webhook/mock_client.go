package webhook

import (
	"bytes"
	"io"
	"net/url"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockHTTPClient is a mock implementation of tls_client.HttpClient for testing.
// Every Do call gets a fresh response built from StatusCode and Body.
type MockHTTPClient struct {
	StatusCode int
	Body       []byte
	Err        error

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest is a request captured by MockHTTPClient
type RecordedRequest struct {
	Method string
	URL    string
	Header fhttp.Header
	Body   []byte
}

// Ensure MockHTTPClient implements tls_client.HttpClient
var _ tls_client.HttpClient = (*MockHTTPClient)(nil)

// NewMockHTTPClient creates a MockHTTPClient answering with body and statusCode
func NewMockHTTPClient(body []byte, statusCode int) *MockHTTPClient {
	return &MockHTTPClient{StatusCode: statusCode, Body: body}
}

// NewMockHTTPClientWithError creates a MockHTTPClient whose Do always fails with err
func NewMockHTTPClientWithError(err error) *MockHTTPClient {
	return &MockHTTPClient{Err: err}
}

// Requests returns the requests received so far
func (m *MockHTTPClient) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Do implements the tls_client.HttpClient interface
func (m *MockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	return &fhttp.Response{
		StatusCode: m.StatusCode,
		Body:       io.NopCloser(bytes.NewReader(m.Body)),
		Header:     make(fhttp.Header),
		Request:    req,
	}, nil
}

// GetCookies implements the tls_client.HttpClient interface
func (m *MockHTTPClient) GetCookies(u *url.URL) []*fhttp.Cookie {
	return nil
}

// SetCookies implements the tls_client.HttpClient interface
func (m *MockHTTPClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

// SetCookieJar implements the tls_client.HttpClient interface
func (m *MockHTTPClient) SetCookieJar(jar fhttp.CookieJar) {}

// GetCookieJar implements the tls_client.HttpClient interface
func (m *MockHTTPClient) GetCookieJar() fhttp.CookieJar {
	return nil
}

// SetProxy implements the tls_client.HttpClient interface
func (m *MockHTTPClient) SetProxy(proxyUrl string) error {
	return nil
}

// GetProxy implements the tls_client.HttpClient interface
func (m *MockHTTPClient) GetProxy() string {
	return ""
}

// SetFollowRedirect implements the tls_client.HttpClient interface
func (m *MockHTTPClient) SetFollowRedirect(followRedirect bool) {}

// GetFollowRedirect implements the tls_client.HttpClient interface
func (m *MockHTTPClient) GetFollowRedirect() bool {
	return true
}

// CloseIdleConnections implements the tls_client.HttpClient interface
func (m *MockHTTPClient) CloseIdleConnections() {}

// Get implements the tls_client.HttpClient interface
func (m *MockHTTPClient) Get(url string) (*fhttp.Response, error) {
	req, err := fhttp.NewRequest(fhttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return m.Do(req)
}

// Head implements the tls_client.HttpClient interface
func (m *MockHTTPClient) Head(url string) (*fhttp.Response, error) {
	req, err := fhttp.NewRequest(fhttp.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	return m.Do(req)
}

// Post implements the tls_client.HttpClient interface
func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	req, err := fhttp.NewRequest(fhttp.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return m.Do(req)
}

// GetBandwidthTracker implements the tls_client.HttpClient interface
func (m *MockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker {
	return nil
}
