package scraper

import (
	"errors"
	"net/http"
	"time"
)

const (
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
	userAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

	defaultTimeout  = 20 * time.Second
	defaultRetryMax = 2
)

// Transport adds browser-like headers and retries replayable requests
// (GET/HEAD without a body) that fail at the transport level.
type Transport struct {
	Base http.RoundTripper

	// RetryMax counts retries after the first attempt.
	RetryMax int
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	max := t.RetryMax
	if max < 0 {
		max = 0
	}
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	if !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		r := req.Clone(req.Context())
		if r.Header.Get("Accept") == "" {
			r.Header.Set("Accept", acceptHeader)
		}
		if r.Header.Get("User-Agent") == "" {
			r.Header.Set("User-Agent", userAgent)
		}

		resp, err := base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// NewClient builds the crawler's HTTP client. Zero values pick defaults.
func NewClient(timeout time.Duration, retryMax int) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retryMax < 0 {
		retryMax = defaultRetryMax
	}
	return &http.Client{
		Transport: &Transport{
			Base: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 15 * time.Second,
			},
			RetryMax: retryMax,
		},
		Timeout: timeout,
	}
}
