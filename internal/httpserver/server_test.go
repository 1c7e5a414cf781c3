package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func serve(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := New(Config{}, nil)
	w := serve(t, s, http.MethodGet, "/")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("GET / = %d %q", w.Code, w.Body.String())
	}
}

func TestWebhookSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		path   string
		code   int
	}{
		{"no secret accepts any path", "", "/webhook/anything", http.StatusOK},
		{"matching secret", "s3cr3t", "/webhook/s3cr3t", http.StatusOK},
		{"mismatched secret", "s3cr3t", "/webhook/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{WebhookSecret: tt.secret}, nil)
			w := serve(t, s, http.MethodPost, tt.path)
			if w.Code != tt.code {
				t.Fatalf("code = %d, want %d", w.Code, tt.code)
			}
			if tt.code == http.StatusOK && strings.TrimSpace(w.Body.String()) != `{"ok":true}` {
				t.Fatalf("body = %q", w.Body.String())
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_hits_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	w := serve(t, New(Config{}, reg), http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "test_hits_total 1") {
		t.Fatalf("metrics body missing counter:\n%s", w.Body.String())
	}
}

func TestStartShutdown(t *testing.T) {
	s := New(Config{Listen: "127.0.0.1", Port: 0}, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
