package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molsdg/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 5*time.Millisecond)}, opts...)
	c, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return c
}

type testLogger struct {
	mu      sync.Mutex
	lastMsg string
	count   int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }

func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.mu.Lock()
	l.lastMsg = fmt.Sprintf(format, args...)
	l.mu.Unlock()
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ─────────────────────────────────────────────────────────────────────────────
// constructor
// ─────────────────────────────────────────────────────────────────────────────

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://layout.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://layout.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "molsdg-go-client/")
	assert.Empty(t, c.apiKey)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "ftp://invalid", "invalid-url", "http://[::1"} {
		_, err := NewClient(u)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation), "url %q", u)
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	custom := &http.Client{Timeout: 10 * time.Second}
	logger := &testLogger{}
	c, err := NewClient("https://layout.example.com", WithHTTPClient(custom), WithLogger(logger), WithRetryMax(5))
	require.NoError(t, err)
	assert.Same(t, custom, c.httpClient)
	assert.Equal(t, logger, c.logger)
	assert.Equal(t, 5, c.retryMax)
}

func TestClient_Layouts_LazyInit(t *testing.T) {
	c, _ := NewClient("http://layout.example.com")
	assert.Nil(t, c.layouts)

	var wg sync.WaitGroup
	got := make([]*LayoutsClient, 50)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Layouts()
		}(i)
	}
	wg.Wait()
	for _, l := range got {
		assert.Same(t, got[0], l)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// do
// ─────────────────────────────────────────────────────────────────────────────

func TestClient_Do_DecodesEnvelopeData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"value":42},"request_id":"r1"}`)
	})
	var out struct{ Value int }
	require.NoError(t, c.get(context.Background(), "thing", &out))
	assert.Equal(t, 42, out.Value)
}

func TestClient_Do_NilResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.get(context.Background(), "/thing", nil))
}

func TestClient_Do_RequestHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeEnvelope(w, http.StatusOK, `{"success":true}`)
	}, WithAPIKey("secret"), WithUserAgent("test-agent"))

	require.NoError(t, c.post(context.Background(), "/thing", map[string]string{"a": "b"}, nil))
	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "test-agent", got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_Do_NoAuthorizationWithoutKey(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, `{"success":true}`)
	})
	require.NoError(t, c.get(context.Background(), "/thing", nil))
	assert.Empty(t, auth)
}

func TestClient_Do_4xxError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusBadRequest,
			`{"success":false,"error":{"code":"LAY_001","message":"unclosed ring bond"},"request_id":"srv-1"}`)
	})

	err := c.get(context.Background(), "/thing", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "LAY_001", apiErr.Code)
	assert.Equal(t, "unclosed ring bond", apiErr.Message)
	assert.Equal(t, "srv-1", apiErr.RequestID)
	assert.True(t, apiErr.IsMalformedInput())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_NonEnvelopeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway says no", http.StatusForbidden)
	})
	err := c.get(context.Background(), "/thing", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "gateway says no", apiErr.Message)
	assert.Empty(t, apiErr.Code)
}

func TestClient_Do_5xxRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeEnvelope(w, http.StatusInternalServerError, `{"success":false,"error":{"code":"COMMON_001","message":"boom"}}`)
			return
		}
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":"ok"}`)
	})

	var out string
	require.NoError(t, c.get(context.Background(), "/thing", &out))
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_5xxRetryExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusServiceUnavailable, `{"success":false,"error":{"code":"COMMON_008","message":"down"}}`)
	}, WithRetryMax(2))

	err := c.get(context.Background(), "/thing", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_NotImplementedNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusNotImplemented, `{"success":false,"error":{"code":"COMMON_016","message":"layout archive is disabled"}}`)
	})
	err := c.get(context.Background(), "/thing", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_429RetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeEnvelope(w, http.StatusOK, `{"success":true}`)
	})
	require.NoError(t, c.get(context.Background(), "/thing", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	logger := &testLogger{}
	c, err := NewClient(url, WithRetryMax(1), WithRetryWait(time.Millisecond, time.Millisecond), WithLogger(logger))
	require.NoError(t, err)
	assert.Error(t, c.get(context.Background(), "/thing", nil))
	assert.Contains(t, logger.lastMsg, "Request failed")
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success":true}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.get(ctx, "/thing", nil), context.Canceled)
}

func TestClient_Do_MalformedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `not json`)
	})
	var out string
	err := c.get(context.Background(), "/thing", &out)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

func TestAPIError_Methods(t *testing.T) {
	e := &APIError{StatusCode: http.StatusNotFound, Code: "LAY_006", Message: "no such example", RequestID: "r"}
	assert.True(t, e.IsNotFound())
	assert.False(t, e.IsServerError())
	assert.False(t, e.IsRateLimited())
	assert.False(t, e.IsMalformedInput())
	assert.Equal(t, "molsdg: LAY_006 (HTTP 404): no such example [request_id=r]", e.Error())

	assert.True(t, (&APIError{StatusCode: http.StatusTooManyRequests}).IsRateLimited())
	assert.True(t, (&APIError{StatusCode: http.StatusBadGateway}).IsServerError())
}

func TestCalculateBackoff(t *testing.T) {
	c := &Client{retryWaitMin: 100 * time.Millisecond, retryWaitMax: time.Second}
	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 5: time.Second} {
		got := c.calculateBackoff(attempt)
		assert.GreaterOrEqual(t, got, base)
		assert.Less(t, got, base+base/4+1)
	}
}

//Personal.AI order the ending
