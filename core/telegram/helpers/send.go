package helpers

import (
	"log/slog"
	"time"

	"github.com/m3rciful/rentalbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Sends run inline on the update goroutine so replies keep their order.
func send(c tele.Context, action string, run func() error) error {
	start := time.Now()
	err := run()
	if err != nil {
		logger.Warn(BuildContext(c), "tg.sender", "send.failed",
			slog.String("action", action),
			slog.Duration("duration", time.Since(start)),
			logger.Err(err),
		)
	}
	return err
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	return send(c, "send.text", func() error {
		if len(opts) > 0 && opts[0] != nil {
			return c.Send(text, opts[0])
		}
		return c.Send(text)
	})
}

// SendMD sends a message with Markdown parse mode and optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return SendText(c, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: first(markup)})
}

// EditOrSendMD tries to edit the message (Markdown) or sends a new one if edit fails.
func EditOrSendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return send(c, "edit_or_send.text", func() error {
		return c.EditOrSend(text, &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: first(markup)})
	})
}

func first(markup []*tele.ReplyMarkup) *tele.ReplyMarkup {
	if len(markup) > 0 {
		return markup[0]
	}
	return nil
}
