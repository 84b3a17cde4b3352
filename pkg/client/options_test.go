package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 60 * time.Second}
	c := &Client{}
	WithHTTPClient(custom)(c)
	assert.Same(t, custom, c.httpClient)
}

func TestWithHTTPClient_NilIgnored(t *testing.T) {
	base := &http.Client{}
	c := &Client{httpClient: base}
	WithHTTPClient(nil)(c)
	assert.Same(t, base, c.httpClient)
}

func TestWithTimeout(t *testing.T) {
	base := &http.Client{Timeout: 30 * time.Second}
	c := &Client{httpClient: base}

	WithTimeout(0)(c)
	assert.Same(t, base, c.httpClient)

	WithTimeout(2 * time.Second)(c)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, base.Timeout, "caller's client must not be mutated")
}

func TestWithAPIKey(t *testing.T) {
	c := &Client{}
	WithAPIKey("secret")(c)
	assert.Equal(t, "secret", c.apiKey)
}

func TestWithRetryMax(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive value", 5, 5},
		{"zero value", 0, 0},
		{"negative value keeps default", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{retryMax: 3}
			WithRetryMax(tt.input)(c)
			assert.Equal(t, tt.expected, c.retryMax)
		})
	}
}

func TestWithRetryWait(t *testing.T) {
	tests := []struct {
		name      string
		min, max  time.Duration
		expectMin time.Duration
		expectMax time.Duration
	}{
		{"valid range", time.Second, 5 * time.Second, time.Second, 5 * time.Second},
		{"equal values", 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second},
		{"zero min ignored", 0, 5 * time.Second, 0, 0},
		{"max below min ignored", 5 * time.Second, 2 * time.Second, 5 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{}
			WithRetryWait(tt.min, tt.max)(c)
			assert.Equal(t, tt.expectMin, c.retryWaitMin)
			assert.Equal(t, tt.expectMax, c.retryWaitMax)
		})
	}
}

func TestWithLogger_NilIgnored(t *testing.T) {
	c := &Client{logger: noopLogger{}}
	WithLogger(nil)(c)
	assert.Equal(t, noopLogger{}, c.logger)
}

func TestWithUserAgent(t *testing.T) {
	c := &Client{userAgent: "default"}
	WithUserAgent("")(c)
	assert.Equal(t, "default", c.userAgent)
	WithUserAgent("custom-agent/1.0")(c)
	assert.Equal(t, "custom-agent/1.0", c.userAgent)
}

//Personal.AI order the ending
