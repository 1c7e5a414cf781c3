package logger

import (
	"log/slog"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/rentalbot/core/config"
)

func TestResolveOptionsDefaults(t *testing.T) {
	t.Setenv("TRACE", "")
	t.Setenv("LOG_TRACE", "")
	opts := resolveOptions(nil)
	if opts.format != formatJSON || opts.level != slog.LevelInfo || opts.profile != "prod" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.sampleNum != 1 || opts.sampleDen != 50 || opts.traceAll {
		t.Fatalf("unexpected sampling defaults: %+v", opts)
	}
	if opts.filePath != "" {
		t.Fatalf("file path = %q", opts.filePath)
	}
}

func TestResolveOptionsFromConfig(t *testing.T) {
	t.Setenv("LOG_TRACE", "yes")
	cfg := &coreconfig.Config{}
	cfg.Logging.Profile = "Dev"
	cfg.Logging.Level = "WARNING"
	cfg.Logging.KeysOrder = "ts, level,,msg"
	cfg.Logging.DebugSample = "0/0"
	cfg.Logging.Dir = "logs"
	cfg.Logging.BotFile = "bot.log"

	opts := resolveOptions(cfg)
	if opts.format != formatKV {
		t.Fatalf("dev profile should default to kv, got %v", opts.format)
	}
	if opts.level != slog.LevelWarn {
		t.Fatalf("level = %v", opts.level)
	}
	if len(opts.keyOrder) != 3 || opts.keyOrder[2] != "msg" {
		t.Fatalf("key order = %v", opts.keyOrder)
	}
	if opts.sampleNum != 0 || opts.sampleDen != 0 {
		t.Fatalf("0/0 must disable sampling, got %d/%d", opts.sampleNum, opts.sampleDen)
	}
	if opts.filePath != filepath.Join("logs", "bot.log") {
		t.Fatalf("file path = %q", opts.filePath)
	}
	if !opts.traceAll {
		t.Fatal("LOG_TRACE=yes should enable trace")
	}

	cfg.Logging.Format = "json"
	if got := resolveOptions(cfg).format; got != formatJSON {
		t.Fatalf("explicit json ignored: %v", got)
	}
}

func TestParseSample(t *testing.T) {
	tests := []struct {
		in       string
		num, den int
	}{
		{"", 1, 50},
		{"3/10", 3, 10},
		{"20", 1, 20},
		{"-1/4", 1, 50},
	}
	for _, tt := range tests {
		num, den := parseSample(tt.in)
		if num != tt.num || den != tt.den {
			t.Errorf("parseSample(%q) = %d/%d, want %d/%d", tt.in, num, den, tt.num, tt.den)
		}
	}
}

func TestSummarizeStrings(t *testing.T) {
	got, truncated := SummarizeStrings([]string{"a", "b", "c"}, 2)
	if got != "a, b" || !truncated {
		t.Fatalf("got %q truncated=%v", got, truncated)
	}
	got, truncated = SummarizeStrings([]string{"a"}, 5)
	if got != "a" || truncated {
		t.Fatalf("got %q truncated=%v", got, truncated)
	}
}
