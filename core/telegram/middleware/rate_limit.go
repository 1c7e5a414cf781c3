package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/rentalbot/core/logger"
	tghelpers "github.com/m3rciful/rentalbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures RateLimitMiddleware. Exclude holds update
// kinds ("message", "callback", "inline_query") that bypass the limit.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// userClock tracks the last accepted update per user.
type userClock struct {
	mu   sync.Mutex
	last map[int64]time.Time
}

// allow records now for user unless the previous accepted update is closer
// than interval.
func (u *userClock) allow(user int64, now time.Time, interval time.Duration) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if prev, ok := u.last[user]; ok && now.Sub(prev) < interval {
		return false
	}
	u.last[user] = now
	return true
}

// RateLimitMiddleware drops updates that arrive faster than Interval from
// the same user. Photos and documents count as messages.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	clock := &userClock{last: make(map[int64]time.Time)}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			kind := limitKind(UpdateKind(c.Update()))
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}
			if clock.allow(user.ID, time.Now(), opts.Interval) {
				return next(c)
			}

			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit",
				slog.String("status", "rate_limited"),
				slog.String("input", kind),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}

func limitKind(kind string) string {
	if kind == "photo" || kind == "document" {
		return "message"
	}
	return kind
}
