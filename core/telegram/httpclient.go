package telegram

import (
	"context"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/m3rciful/rentalbot/core/telegram/netutil"
)

// ClientOptions tunes the Bot API HTTP client. Zero fields take defaults.
type ClientOptions struct {
	DialTimeout     time.Duration
	ResponseTimeout time.Duration
	RequestTimeout  time.Duration
	Retries         int
	Backoff         time.Duration
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	if o.ResponseTimeout <= 0 {
		o.ResponseTimeout = 5 * time.Second
	}
	// Long polling holds the request open, so this must exceed the poll timeout.
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	if o.Retries <= 0 {
		o.Retries = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 2 * time.Second
	}
	return o
}

// BuildHTTPClient returns the client used for every Bot API call.
func BuildHTTPClient(opts ClientOptions) *http.Client {
	opts = opts.withDefaults()
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: opts.DialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   opts.DialTimeout,
		ResponseHeaderTimeout: opts.ResponseTimeout,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   opts.RequestTimeout,
		Transport: &retryTransport{base: base, maxRetries: opts.Retries, backoff: opts.Backoff},
	}
}

// retryableMethods lists Bot API methods that are safe to repeat. Message
// sends are never retried so a delivery is attempted exactly once.
var retryableMethods = map[string]struct{}{
	"getUpdates": {},
	"getMe":      {},
}

func isRetryable(req *http.Request) bool {
	if req == nil || req.URL == nil {
		return false
	}
	_, ok := retryableMethods[path.Base(req.URL.Path)]
	return ok
}

// retryTransport repeats idempotent polling calls on transient network
// errors with linear backoff.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if !isRetryable(req) {
		return base.RoundTrip(req)
	}

	resp, err := base.RoundTrip(req)
	for attempt := 1; attempt <= t.maxRetries && err != nil && netutil.ShouldRetry(err); attempt++ {
		if werr := sleepCtx(req.Context(), t.backoff*time.Duration(attempt)); werr != nil {
			return nil, werr
		}
		next, rerr := rewind(req)
		if rerr != nil {
			return nil, err
		}
		resp, err = base.RoundTrip(next)
	}
	return resp, err
}

// rewind clones req with a fresh body so it can be sent again.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, http.ErrBodyNotAllowed
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
