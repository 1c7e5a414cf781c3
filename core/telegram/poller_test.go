package telegram

import (
	"testing"
	"time"

	coreconfig "github.com/m3rciful/rentalbot/core/config"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPollerLongpollDefaults(t *testing.T) {
	p, ok := BuildPoller(&coreconfig.Config{}).(*tele.LongPoller)
	if !ok {
		t.Fatalf("expected long poller")
	}
	if p.Timeout != 10*time.Second {
		t.Fatalf("timeout = %v, want 10s", p.Timeout)
	}

	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = "longpoll"
	cfg.Telegram.LongPollTimeoutSeconds = 25
	if p := BuildPoller(cfg).(*tele.LongPoller); p.Timeout != 25*time.Second {
		t.Fatalf("timeout = %v, want 25s", p.Timeout)
	}
}

func TestBuildPollerWebhook(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = " Webhook "
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	cfg.Webhook.URL = "https://example.org/hook"

	p, ok := BuildPoller(cfg).(*tele.Webhook)
	if !ok {
		t.Fatalf("expected webhook poller")
	}
	if p.Listen != "0.0.0.0:8443" {
		t.Fatalf("listen = %q", p.Listen)
	}
	if p.Endpoint.PublicURL != cfg.Webhook.URL {
		t.Fatalf("public url = %q", p.Endpoint.PublicURL)
	}

	attrs := pollerAttrs(p)
	if attrs[0].Value.String() != "webhook" {
		t.Fatalf("mode attr = %v", attrs[0])
	}
}
