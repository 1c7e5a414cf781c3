package telegram

import (
	coreconfig "github.com/m3rciful/rentalbot/core/config"
	"github.com/m3rciful/rentalbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// MiddlewareOptions carries the optional hooks of the default chain.
type MiddlewareOptions struct {
	OnLimited tele.HandlerFunc
	OnUpdate  middleware.UpdateObserver
}

// DefaultMiddlewares builds the shared middleware chain:
// recover, optional rate limit, update logging and message metrics.
func DefaultMiddlewares(cfg *coreconfig.Config, opts MiddlewareOptions) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil && cfg.RateLimit.Interval() > 0 {
		mws = append(mws, Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval:  cfg.RateLimit.Interval(),
				Exclude:   cfg.RateLimit.Excluded(),
				OnLimited: opts.OnLimited,
			}),
		})
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetrics(opts.OnUpdate)},
	)
	return mws
}
