package router

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/rentalbot/core/logger"
	tghelpers "github.com/m3rciful/rentalbot/core/telegram/helpers"
	"github.com/m3rciful/rentalbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// summary describes one handled update for the "handler.handled" line.
// Empty status and outcome are derived from the handler error.
type summary struct {
	handler string
	start   time.Time
	status  string
	outcome string
	extras  []slog.Attr
}

func newSummary(handler string, extras ...slog.Attr) summary {
	return summary{handler: handler, start: time.Now(), extras: extras}
}

// run tags the context with the handler name, calls fn and logs the result.
func (s summary) run(c tele.Context, fn tele.HandlerFunc) error {
	tghelpers.WithHandler(c, s.handler)
	err := fn(c)
	s.log(c, err)
	return err
}

// skip logs an update that no handler consumed.
func (s summary) skip(c tele.Context) error {
	s.status, s.outcome = "skip", "ok"
	s.log(c, nil)
	return nil
}

func (s summary) log(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.handler)
	msgs, kb := middleware.GetCounters(c)

	result := "ok"
	if err != nil {
		result = "fail"
	}
	attrs := []slog.Attr{
		slog.String("status", firstNonEmpty(s.status, result)),
		slog.String("handler", s.handler),
		slog.String("outcome", firstNonEmpty(s.outcome, result)),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(s.start)).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, logger.Err(err), slog.String("err_code", errorCode(err)))
	}
	attrs = append(attrs, s.extras...)
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// handlerName turns a command or callback key into a log-friendly name.
func handlerName(key string) string {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(key, " ", "_"))
}

// errorCode classifies handler errors for log aggregation.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return "TELEGRAM_FLOOD"
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("TELEGRAM_%d", apiErr.Code)
	}
	return "HANDLER_ERROR"
}
