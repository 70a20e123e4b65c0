package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 16 << 20
)

// HTTPClient is interface for fetching remote pages
type HTTPClient interface {
	// Get fetches rawURL and returns the response body of a 2xx response
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// ClientConfig configures the outbound HTTP client
type ClientConfig struct {
	Timeout      time.Duration
	ProxyURL     string
	RetryMax     int
	RateLimit    float64 // requests per second, 0 disables limiting
	UserAgent    string  // fixed User-Agent, empty picks one from the built-in pool
	Headers      map[string]string
	MaxBodyBytes int64
}

// StatusError reports a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *StatusError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s location=%s", e.StatusCode, e.URL, e.Location)
}

// realHTTPClient implements HTTPClient using net/http
type realHTTPClient struct {
	client  *http.Client
	headers http.Header
	limiter *rate.Limiter
	maxBody int64
}

// NewHTTPClient creates a new HTTPClient from configuration
func NewHTTPClient(cfg ClientConfig) (HTTPClient, error) {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 20 * time.Second,
	}

	disableKeepAlives := false
	if proxy := strings.TrimSpace(cfg.ProxyURL); proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidArg, "invalid proxy URL")
		}
		base.Proxy = http.ProxyURL(u)
		// rotating proxies expect a fresh connection per request
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{
		Transport: &Transport{
			Base:              base,
			ua:                defaultUserAgents,
			RetryMax:          cfg.RetryMax,
			DisableKeepAlives: disableKeepAlives,
		},
		Timeout: timeout,
	}
	return NewHTTPClientWithClient(client, cfg), nil
}

// NewHTTPClientWithClient creates a new HTTPClient around an existing *http.Client (for testing)
func NewHTTPClientWithClient(client *http.Client, cfg ClientConfig) HTTPClient {
	headers := make(http.Header, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &realHTTPClient{
		client:  client,
		headers: headers,
		limiter: limiter,
		maxBody: maxBody,
	}
}

// Get performs a GET request and returns the body of a successful response
func (c *realHTTPClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CodeTransport, "rate limiter wait aborted")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTransport, "failed to build request")
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTransport, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
		return nil, errors.Wrap(statusErr, errors.CodeTransport, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTransport, "failed to read response body")
	}
	if int64(len(body)) > c.maxBody {
		return nil, errors.New(errors.CodeTransport, fmt.Sprintf("response body from %s exceeds %d bytes", rawURL, c.maxBody))
	}
	return body, nil
}
