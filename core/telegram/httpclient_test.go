package telegram

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

type countingTransport struct{ calls int }

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls++
	return nil, timeoutErr{}
}

func TestRetryTransportRetriesPolling(t *testing.T) {
	base := &countingTransport{}
	rt := &retryTransport{base: base, maxRetries: 2, backoff: time.Millisecond}
	req, _ := http.NewRequest(http.MethodPost, "https://api.telegram.org/botTOKEN/getUpdates", nil)

	_, err := rt.RoundTrip(req)
	if !errors.As(err, new(timeoutErr)) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if base.calls != 3 {
		t.Fatalf("calls = %d, want 3", base.calls)
	}
}

func TestRetryTransportNeverRetriesSends(t *testing.T) {
	for _, method := range []string{"sendMessage", "sendMediaGroup", "editMessageText"} {
		base := &countingTransport{}
		rt := &retryTransport{base: base, maxRetries: 3, backoff: time.Millisecond}
		req, _ := http.NewRequest(http.MethodPost, "https://api.telegram.org/botTOKEN/"+method, nil)
		if _, err := rt.RoundTrip(req); err == nil {
			t.Fatalf("%s: expected error", method)
		}
		if base.calls != 1 {
			t.Fatalf("%s: calls = %d, want 1", method, base.calls)
		}
	}
}

func TestRetryTransportReplaysBody(t *testing.T) {
	var bodies []string
	base := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		bodies = append(bodies, string(b))
		if len(bodies) < 2 {
			return nil, timeoutErr{}
		}
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	rt := &retryTransport{base: base, maxRetries: 3, backoff: time.Millisecond}
	req, _ := http.NewRequest(http.MethodPost, "https://api.telegram.org/botTOKEN/getUpdates", strings.NewReader("offset=5"))

	resp, err := rt.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("RoundTrip = %v, %v", resp, err)
	}
	if len(bodies) != 2 || bodies[1] != "offset=5" {
		t.Fatalf("bodies = %q", bodies)
	}
}

func TestRetryTransportStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	base := roundTripFunc(func(*http.Request) (*http.Response, error) {
		cancel()
		return nil, timeoutErr{}
	})
	rt := &retryTransport{base: base, maxRetries: 3, backoff: time.Hour}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.telegram.org/botTOKEN/getMe", nil)
	if _, err := rt.RoundTrip(req); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestClientOptionsDefaults(t *testing.T) {
	o := ClientOptions{Retries: 1}.withDefaults()
	if o.Retries != 1 || o.Backoff != 2*time.Second || o.RequestTimeout != 30*time.Second {
		t.Fatalf("defaults = %+v", o)
	}
	c := BuildHTTPClient(ClientOptions{})
	if c.Timeout != 30*time.Second {
		t.Fatalf("client timeout = %v", c.Timeout)
	}
	if _, ok := c.Transport.(*retryTransport); !ok {
		t.Fatalf("transport = %T", c.Transport)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
