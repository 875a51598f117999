package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIErrorWithBody(500, "https://hooks.example.com/chat", "webhook returned status 500", "")

	expected := "API error [500] at https://hooks.example.com/chat: webhook returned status 500"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := &APIError{Endpoint: "endpoint", Message: "failed"}
	if noStatus.Error() != "API error at endpoint: failed" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestAPIErrorWithBody(t *testing.T) {
	err := NewAPIErrorWithBody(502, "endpoint", "bad gateway", "upstream down")

	if GetResponseBody(err) != "upstream down" {
		t.Errorf("GetResponseBody() = %q, want %q", GetResponseBody(err), "upstream down")
	}

	wrapped := fmt.Errorf("send: %w", err)
	if GetResponseBody(wrapped) != "upstream down" {
		t.Error("GetResponseBody should see through wrapping")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("send message", "http://localhost:1", cause)

	expected := "network error during send message at http://localhost:1: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}

	plain := &NetworkError{Operation: "send message", Err: cause}
	if plain.Error() != "network error during send message: connection refused" {
		t.Errorf("Error() = %s", plain.Error())
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("response body is not valid JSON", "body")

	if err.Error() != "parse error: response body is not valid JSON" {
		t.Errorf("Error() = %s", err.Error())
	}

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}

	if !err.Is(NewParseError("other", "")) {
		t.Error("ParseError should match another ParseError")
	}

	if err.Is(errors.New("parse error")) {
		t.Error("ParseError should not match a plain error")
	}
}

func TestConfigError(t *testing.T) {
	tests := []struct {
		name  string
		field string
		msg   string
		want  string
	}{
		{"with field", "webhook_url", "must be an http or https URL", "invalid configuration for webhook_url: must be an http or https URL"},
		{"without field", "", "file is corrupt", "invalid configuration: file is corrupt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigError(tt.field, tt.msg)
			if err.Error() != tt.want {
				t.Errorf("Error() = %s, want %s", err.Error(), tt.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	apiErr := fmt.Errorf("wrapped: %w", NewAPIErrorWithBody(404, "ep", "not found", ""))
	netErr := fmt.Errorf("wrapped: %w", NewNetworkErrorWithEndpoint("send", "ep2", errors.New("dial")))
	parseErr := NewParseError("bad", "")
	cfgErr := NewConfigError("x", "y")
	plain := errors.New("plain")

	tests := []struct {
		name      string
		err       error
		status    int
		endpoint  string
		isNetwork bool
		isParse   bool
		isConfig  bool
	}{
		{"api", apiErr, 404, "ep", false, false, false},
		{"network", netErr, 0, "ep2", true, false, false},
		{"parse", parseErr, 0, "", false, true, false},
		{"config", cfgErr, 0, "", false, false, true},
		{"plain", plain, 0, "", false, false, false},
		{"nil", nil, 0, "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.status)
			}
			if got := GetEndpoint(tt.err); got != tt.endpoint {
				t.Errorf("GetEndpoint() = %q, want %q", got, tt.endpoint)
			}
			if got := IsNetworkError(tt.err); got != tt.isNetwork {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.isNetwork)
			}
			if got := IsParseError(tt.err); got != tt.isParse {
				t.Errorf("IsParseError() = %v, want %v", got, tt.isParse)
			}
			if got := IsConfigError(tt.err); got != tt.isConfig {
				t.Errorf("IsConfigError() = %v, want %v", got, tt.isConfig)
			}
		})
	}
}
