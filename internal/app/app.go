// Package app wires configuration, storage, metrics and the intake bot.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/m3rciful/rentalbot/core/logger"
	coretelegram "github.com/m3rciful/rentalbot/core/telegram"
	"github.com/m3rciful/rentalbot/core/telegram/router"
	"github.com/m3rciful/rentalbot/core/telegram/state"
	"github.com/m3rciful/rentalbot/internal/httpserver"
	"github.com/m3rciful/rentalbot/internal/intake"
	"github.com/m3rciful/rentalbot/internal/listing"
	"github.com/m3rciful/rentalbot/internal/metrics"
	"github.com/m3rciful/rentalbot/internal/store"
)

// App owns the long-lived components of the bot.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	sessions *state.MemoryStore[listing.Session]
	service  *intake.Service
	metrics  *metrics.Collector
	gatherer *prometheus.Registry
	http     *httpserver.Server

	stopSweeper context.CancelFunc
	sweeperDone chan struct{}
}

// New builds the application. db may be nil, in which case submissions are
// recorded in memory only.
func New(cfg *Config, db *sqlx.DB) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	var ledger store.Ledger = store.NewMemory()
	if db != nil {
		ledger = store.NewPostgres(db)
	}

	sessions := state.NewMemoryStore[listing.Session]()
	collector := metrics.New()
	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := collector.Register(gatherer, sessions.Len); err != nil {
		return nil, fmt.Errorf("app: register metrics: %w", err)
	}

	machine := &listing.Machine{AdminChatID: cfg.Intake.AdminChatID}
	service := intake.NewService(machine, sessions, intake.NewExecutor(ledger, collector))

	a := &App{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		service:  service,
		metrics:  collector,
		gatherer: gatherer,
	}
	if cfg.HTTP.Enabled() {
		a.http = httpserver.New(cfg.HTTP, gatherer)
	}

	sessions.OnEvict = func(k state.Key) {
		logger.Debug(logger.Background(), logger.CompIntake, "session.evicted",
			slog.Int64("chat_id", k.ChatID),
			slog.Int64("user_id", k.UserID),
		)
	}
	return a, nil
}

// TelegramRunOptions assembles registry, middlewares, routes and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.service.Register(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}

	core := a.cfg.CoreConfig()
	var routes []coretelegram.Route
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Intake.StatsAdminID(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.service, reg, router.TextOptions{})...)

	if a.cfg.Intake.AdminChatID == 0 {
		logger.Warn(logger.Background(), logger.CompIntake, "admin_chat.unset",
			slog.String("reason", "submissions will be refused until ADMIN_CHAT_ID is set"),
		)
	}
	if a.cfg.Intake.StatsAdminID() == 0 {
		logger.Warn(logger.Background(), logger.CompIntake, "admin_user.unset",
			slog.String("reason", "admin commands are disabled until ADMIN_USER_ID is set"),
		)
	}

	return coretelegram.RunOptions{
		Config:   core,
		Registry: reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, coretelegram.MiddlewareOptions{
			OnUpdate: a.metrics.ObserveUpdate,
		}),
		Routes:  routes,
		OnStart: a.start,
		OnStop:  a.stop,
	}, nil
}

func (a *App) start(ctx context.Context, rt coretelegram.Runtime) error {
	if rt.Bot != nil {
		a.service.Sink = intake.BotSink{API: rt.Bot}
	}
	if a.http != nil {
		if err := a.http.Start(ctx); err != nil {
			return err
		}
	}

	ttl := a.cfg.Intake.SessionIdleTTL
	if ttl > 0 {
		sweepCtx, cancel := context.WithCancel(ctx)
		a.stopSweeper = cancel
		a.sweeperDone = make(chan struct{})
		go func() {
			defer close(a.sweeperDone)
			a.sessions.RunSweeper(sweepCtx, ttl, sweepInterval(ttl))
		}()
		logger.Info(ctx, logger.CompIntake, "sweeper.started", slog.Duration("idle_ttl", ttl))
	}
	return nil
}

func (a *App) stop(ctx context.Context, _ coretelegram.Runtime) error {
	if a.stopSweeper != nil {
		a.stopSweeper()
		<-a.sweeperDone
	}
	var errs []error
	if a.http != nil {
		if err := a.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// sweepInterval checks a few times per ttl, bounded to [1s, 1m].
func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Second), time.Minute)
}
