// Package logger wires the process-wide slog logger and the component
// helpers every package logs through.
package logger

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/m3rciful/rentalbot/core/buildinfo"
	coreconfig "github.com/m3rciful/rentalbot/core/config"
)

// Component names used by the bot's own packages.
const (
	CompIntake = "intake"
	CompHTTP   = "http"
	CompStore  = "store"
)

var (
	initOnce sync.Once

	shutdownMu sync.Mutex
	closed     bool
	logWriter  *asyncWriter
	logFile    io.Closer

	levelVar     slog.LevelVar
	debugSampler = newRatioSampler(defaultSampleNum, defaultSampleDen)
	traceAll     bool

	components sync.Map // name -> *slog.Logger

	// L is the root logger; nil until InitLogger runs.
	L *slog.Logger
)

// InitLogger configures the global structured logger. Only the first call has effect.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		opts := resolveOptions(cfg)
		levelVar.Set(opts.level)
		debugSampler.Set(opts.sampleNum, opts.sampleDen)
		traceAll = opts.traceAll

		outputs := []io.Writer{os.Stdout}
		if f := openLogFile(opts.filePath); f != nil {
			outputs = append(outputs, f)
			logFile = f
		}
		logWriter = newAsyncWriter(outputs, 64*1024)

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   logWriter,
			format:   opts.format,
			keyOrder: opts.keyOrder,
		}))
		slog.SetDefault(L)

		build := buildinfo.Get()
		Info(context.Background(), "app", "startup",
			slog.String("go_version", runtime.Version()),
			slog.String("version", build.Version),
			slog.String("build_commit", build.Commit),
			slog.String("build_time", build.Date),
			slog.String("cfg_profile", opts.profile),
		)
	})
	return nil
}

// openLogFile returns nil when no file is configured or it cannot be opened;
// stdout logging always stays available.
func openLogFile(path string) *os.File {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("logger: create log dir: %v", err)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("logger: open log file: %v", err)
		return nil
	}
	return f
}

// Shutdown flushes buffered output and closes the log file. Safe to call twice.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if closed {
		return nil
	}
	closed = true

	var errs []error
	if logWriter != nil {
		errs = append(errs, logWriter.Flush(), logWriter.Close())
	}
	if logFile != nil {
		errs = append(errs, logFile.Close())
	}
	return errors.Join(errs...)
}

// Background returns context.Background().
func Background() context.Context {
	return context.Background()
}

// Component returns the root logger scoped to name, or nil before InitLogger.
func Component(name string) *slog.Logger {
	root := L
	if root == nil {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return root
	}
	if cached, ok := components.Load(name); ok {
		return cached.(*slog.Logger)
	}
	scoped, _ := components.LoadOrStore(name, root.With("component", name))
	return scoped.(*slog.Logger)
}

// LogEvent writes an event line through logg, falling back to the context logger
// and then the root logger. It is a no-op before InitLogger.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	for _, candidate := range []*slog.Logger{logg, FromContext(ctx), L} {
		if candidate == nil {
			continue
		}
		if event != "" {
			attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
		}
		candidate.LogAttrs(ctx, level, "", attrs...)
		return
	}
}

// Event logs an event scoped to component.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := Component(component)
	if logg == nil {
		if fromCtx := FromContext(ctx); fromCtx != nil && strings.TrimSpace(component) != "" {
			logg = fromCtx.With("component", strings.TrimSpace(component))
		}
	}
	LogEvent(ctx, logg, level, event, attrs...)
}

func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

// ShouldSampleDebug reports whether a high-volume debug line should be emitted.
// TRACE=1 or LOG_TRACE=1 disables sampling.
func ShouldSampleDebug() bool {
	return traceAll || debugSampler.Allow()
}
