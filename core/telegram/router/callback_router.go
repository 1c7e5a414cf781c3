package router

import (
	"log/slog"

	tg "github.com/m3rciful/rentalbot/core/telegram"
	"github.com/m3rciful/rentalbot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute dispatches button presses by callback key. Every press is
// acknowledged first, including unknown and stale ones, so the client stops
// showing a spinner.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		key := callbacks.CallbackKey(c)
		_ = c.Respond()

		if h, ok := reg.GetCallback(key); ok && h != nil {
			return newSummary("callback."+handlerName(key), slog.String("cb_key", key)).run(c, h)
		}

		s := newSummary("callback."+handlerName(key),
			slog.String("cb_key", key),
			slog.String("reason", "not_found"),
		)
		if fb := firstHandler(reg.CallbackNotFound(), opts.NotFound); fb != nil {
			return s.run(c, fb)
		}
		return s.skip(c)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: wrap(handler)}
}

func firstHandler(hs ...tele.HandlerFunc) tele.HandlerFunc {
	for _, h := range hs {
		if h != nil {
			return h
		}
	}
	return nil
}
