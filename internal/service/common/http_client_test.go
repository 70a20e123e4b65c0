package common

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
)

func TestHTTPClient_Get(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		cfg        ClientConfig
		wantBody   string
		wantStatus int
		wantErr    bool
	}{
		{
			name: "successful response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html><body>ok</body></html>"))
			},
			wantBody: "<html><body>ok</body></html>",
		},
		{
			name: "configured headers are sent",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Cookie") != "session=abc" || r.Header.Get("User-Agent") != "ytcaption-test" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.Write([]byte("authorized"))
			},
			cfg: ClientConfig{
				UserAgent: "ytcaption-test",
				Headers:   map[string]string{"Cookie": "session=abc"},
			},
			wantBody: "authorized",
		},
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewHTTPClientWithClient(server.Client(), tt.cfg)
			body, err := client.Get(context.Background(), server.URL)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.CodeTransport))
				var statusErr *StatusError
				require.True(t, stderrors.As(err, &statusErr))
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
				assert.Nil(t, body)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestHTTPClient_Get_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client, err := NewHTTPClient(ClientConfig{Timeout: 2 * time.Second})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), addr)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeTransport))
}

func TestHTTPClient_Get_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	t.Run("body at the limit is returned whole", func(t *testing.T) {
		client := NewHTTPClientWithClient(server.Client(), ClientConfig{MaxBodyBytes: 10})
		body, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(body))
	})

	t.Run("oversized body is an error", func(t *testing.T) {
		client := NewHTTPClientWithClient(server.Client(), ClientConfig{MaxBodyBytes: 4})
		body, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeTransport))
		assert.Contains(t, err.Error(), "exceeds 4 bytes")
		assert.Nil(t, body)
	})
}

func TestNewHTTPClient_InvalidProxy(t *testing.T) {
	_, err := NewHTTPClient(ClientConfig{ProxyURL: "://bad"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArg))
}

// countingRoundTripper counts attempts and fails each one with err, or answers 200 when err is nil
type countingRoundTripper struct {
	attempts atomic.Int32
	err      error
	agents   []string
}

func (c *countingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.attempts.Add(1)
	c.agents = append(c.agents, req.Header.Get("User-Agent"))
	if c.err != nil {
		return nil, c.err
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestTransport_Retries(t *testing.T) {
	dialErr := stderrors.New("connection refused")

	tests := []struct {
		name         string
		method       string
		retryMax     int
		err          error
		wantAttempts int32
	}{
		{name: "success is sent once", method: http.MethodGet, retryMax: 2, wantAttempts: 1},
		{name: "retry is off by default", method: http.MethodGet, retryMax: 0, err: dialErr, wantAttempts: 1},
		{name: "GET failure is retried RetryMax times", method: http.MethodGet, retryMax: 2, err: dialErr, wantAttempts: 3},
		{name: "HEAD failure is retried", method: http.MethodHead, retryMax: 1, err: dialErr, wantAttempts: 2},
		{name: "POST is never replayed", method: http.MethodPost, retryMax: 3, err: dialErr, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &countingRoundTripper{err: tt.err}
			tr := &Transport{Base: base, ua: defaultUserAgents, RetryMax: tt.retryMax}

			req, err := http.NewRequest(tt.method, "http://example.invalid/search", nil)
			require.NoError(t, err)

			resp, err := tr.RoundTrip(req)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
				resp.Body.Close()
			}
			assert.Equal(t, tt.wantAttempts, base.attempts.Load())
			for _, ua := range base.agents {
				assert.NotEmpty(t, ua)
			}
		})
	}
}

func TestTransport_CanceledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	base := &countingRoundTripper{err: context.Canceled}
	tr := &Transport{Base: base, RetryMax: 5}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid", nil)
	require.NoError(t, err)

	_, err = tr.RoundTrip(req)
	require.Error(t, err)
	assert.Equal(t, int32(1), base.attempts.Load())
}

func TestTransport_NilBase(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
	require.NoError(t, err)

	_, err = (&Transport{}).RoundTrip(req)
	assert.Error(t, err)
}
