// Package httpserver serves the ops endpoints: health, webhook stub and metrics.
package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/rentalbot/core/logger"
)

// Config controls the listener and the webhook path secret.
type Config struct {
	Listen        string `yaml:"listen" envconfig:"HTTP_LISTEN"`
	Port          int    `yaml:"port" envconfig:"PORT"`
	WebhookSecret string `yaml:"webhook_secret" envconfig:"WEBHOOK_SECRET"`
}

// Enabled reports whether a port is configured.
func (c Config) Enabled() bool { return c.Port > 0 }

// Addr returns host:port for the listener.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Listen, strconv.Itoa(c.Port))
}

// Server wraps a gin engine and its http.Server.
type Server struct {
	cfg    Config
	engine *gin.Engine
	srv    *http.Server
	done   chan struct{}
}

// New builds the router. gatherer backs /metrics.
func New(cfg Config, gatherer prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), accessLog())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.POST("/webhook/:secret", webhook(cfg.WebhookSecret))
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{cfg: cfg, engine: r}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Start listens in the background. Bind errors are returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("httpserver: listen %s: %w", s.cfg.Addr(), err)
	}
	s.srv = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.done = make(chan struct{})
	logger.Info(ctx, logger.CompHTTP, "http.listen", slog.String("listen", ln.Addr().String()))

	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, logger.CompHTTP, "http.serve_failed",
				logger.Err(err),
			)
		}
	}()
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	<-s.done
	logger.Info(ctx, logger.CompHTTP, "http.stopped")
	return err
}

// webhook acknowledges pushes; updates arrive through the bot poller.
func webhook(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(secret)) != 1 {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		logger.Debug(c.Request.Context(), logger.CompHTTP, "http.request",
			slog.String("http_method", c.Request.Method),
			slog.String("http_path", path),
			slog.Int("http_code", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
