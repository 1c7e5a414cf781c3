package router

import (
	"strings"

	tg "github.com/m3rciful/rentalbot/core/telegram"
	"github.com/m3rciful/rentalbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM is a conversation that consumes free-form input while in progress.
type FSM interface {
	InProgress(c tele.Context) bool
	HandleText(c tele.Context) error
	HandlePhoto(c tele.Context) error
	HandleDocument(c tele.Context) error
}

// TextOptions controls fallback behaviour for input outside a conversation.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes builds the text, photo and document routes. Input goes to the
// FSM while it is in progress, otherwise to commands and fallbacks.
func TextRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	inConversation := func(c tele.Context) bool {
		return fsm != nil && fsm.InProgress(c)
	}

	text := func(c tele.Context) error {
		if inConversation(c) {
			if isCommand(c) {
				return newSummary("unknown_command").skip(c)
			}
			return newSummary("fsm.text").run(c, fsm.HandleText)
		}
		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return newSummary(handlerName(key)).run(c, cmd.Handler)
			}
			if fb := reg.TextFallback(); fb != nil {
				return newSummary("fallback").run(c, fb)
			}
		}
		if opts.UnknownText != nil {
			return newSummary("unknown_text").run(c, opts.UnknownText)
		}
		return newSummary("unknown_text").skip(c)
	}

	photo := func(c tele.Context) error {
		if inConversation(c) {
			return newSummary("fsm.photo").run(c, fsm.HandlePhoto)
		}
		return newSummary("unexpected_photo").skip(c)
	}

	document := func(c tele.Context) error {
		if inConversation(c) {
			return newSummary("fsm.document").run(c, fsm.HandleDocument)
		}
		if opts.UnknownDocument != nil {
			return newSummary("unexpected_document").run(c, opts.UnknownDocument)
		}
		return newSummary("unexpected_document").skip(c)
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(text)},
		{Endpoint: tele.OnPhoto, Handler: wrap(photo)},
		{Endpoint: tele.OnDocument, Handler: wrap(document)},
	}
}

// isCommand reports whether the message is a bot command. Registered
// commands have their own endpoints, so anything reaching the text route is
// unknown and must not be taken as conversation input.
func isCommand(c tele.Context) bool {
	msg := c.Update().Message
	if msg == nil {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type == tele.EntityCommand && e.Offset == 0 {
			return true
		}
	}
	return strings.HasPrefix(msg.Text, "/")
}

// wrap applies the per-route middlewares shared by every router.
func wrap(h tele.HandlerFunc) tele.HandlerFunc {
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
}
