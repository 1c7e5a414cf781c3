package app

import (
	"context"
	"testing"
	"time"

	coretelegram "github.com/m3rciful/rentalbot/core/telegram"
)

func testConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Intake.AdminChatID = -100
	return cfg
}

func TestTelegramRunOptions(t *testing.T) {
	a, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatalf("TelegramRunOptions: %v", err)
	}
	if opts.Registry == nil || len(opts.Registry.ListCallbacks()) != 7 {
		t.Fatalf("expected seven review callbacks")
	}
	// five commands, one callback route, text/photo/document
	if len(opts.Routes) != 9 {
		t.Fatalf("routes = %d, want 9", len(opts.Routes))
	}
	if opts.OnStart == nil || opts.OnStop == nil {
		t.Fatal("lifecycle hooks missing")
	}
}

func TestLifecycleWithSweeper(t *testing.T) {
	cfg := testConfig()
	cfg.Intake.SessionIdleTTL = time.Hour
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := a.start(ctx, coretelegram.Runtime{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if a.stopSweeper == nil {
		t.Fatal("sweeper not started")
	}
	if err := a.stop(ctx, coretelegram.Runtime{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestSweepInterval(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		2 * time.Second: time.Second,
		time.Minute:     15 * time.Second,
		time.Hour:       time.Minute,
	}
	for ttl, want := range cases {
		if got := sweepInterval(ttl); got != want {
			t.Errorf("sweepInterval(%v) = %v, want %v", ttl, got, want)
		}
	}
}
