package telegram

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/rentalbot/core/config"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10 * time.Second

// BuildPoller selects a webhook or long-polling poller from the core config.
// Anything other than webhook mode falls back to long polling.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg != nil && isWebhookMode(cfg.Telegram.RunMode) {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	timeout := defaultLongPollTimeout
	if cfg != nil && cfg.Telegram.LongPollTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Telegram.LongPollTimeoutSeconds) * time.Second
	}
	return &tele.LongPoller{Timeout: timeout}
}

func isWebhookMode(mode string) bool {
	return strings.EqualFold(strings.TrimSpace(mode), coreconfig.RunModeWebhook)
}

// pollerAttrs describes a poller for the startup log line.
func pollerAttrs(p tele.Poller) []slog.Attr {
	switch v := p.(type) {
	case *tele.Webhook:
		attrs := []slog.Attr{slog.String("mode", coreconfig.RunModeWebhook), slog.String("listen", v.Listen)}
		if v.Endpoint != nil {
			attrs = append(attrs, slog.String("public_url", v.Endpoint.PublicURL))
		}
		return attrs
	case *tele.LongPoller:
		return []slog.Attr{
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Int("timeout_seconds", int(v.Timeout/time.Second)),
		}
	}
	return []slog.Attr{slog.String("mode", fmt.Sprintf("%T", p))}
}
