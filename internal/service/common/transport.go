package common

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// Transport sets the outbound request policy for every remote call: a
// User-Agent from a small pool and optional connection reuse.
type Transport struct {
	Base http.RoundTripper

	ua *uaPool

	// RetryMax is an opt-in number of extra attempts for GET/HEAD requests
	// without a body, used only after a transport error (never after an HTTP
	// status). The default of zero sends each request exactly once, and
	// failures go straight back to the caller.
	RetryMax int

	// DisableKeepAlives marks every request with Close=true.
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	attempts := 1
	if t.RetryMax > 0 && replayable(req) {
		attempts += t.RetryMax
	}

	var lastErr error
	for range attempts {
		resp, err := t.Base.RoundTrip(t.prepare(req))
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// prepare returns a copy of req with the User-Agent and connection policy applied
func (t *Transport) prepare(req *http.Request) *http.Request {
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" && t.ua != nil {
		r.Header.Set("User-Agent", t.ua.random())
	}
	if t.DisableKeepAlives {
		r.Close = true
	}
	return r
}

func replayable(req *http.Request) bool {
	return (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
}

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var defaultUserAgents = newUAPool()

func newUAPool() *uaPool {
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		},
	}
}
