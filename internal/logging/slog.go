package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Swapped out by tests capturing console output.
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)

const otelScope = "github.com/skybreak/forcepool"

// Options selects the sinks of a SlogManager.
type Options struct {
	Level string

	// File receives text output. When nil, output goes to stdout instead.
	File io.Writer

	// Graylog receives JSON records, usually a *gelf.Writer.
	Graylog io.Writer

	// Provider enables the OTel bridge.
	Provider *sdklog.LoggerProvider

	// Context adds dynamic attributes to every record.
	Context AttrsFunc
}

// SlogManager manages slog-based logging with optional GELF and OTel sinks.
type SlogManager struct {
	logger *slog.Logger

	logProvider *sdklog.LoggerProvider
}

func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// NewGraylogWriter dials a GELF UDP endpoint such as "localhost:12201".
func NewGraylogWriter(address string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("failed to create graylog writer: %w", err)
	}
	return w, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the logger. Calling it again replaces the previous sinks.
func (m *SlogManager) Setup(opts Options) {
	lvl := parseLevel(opts.Level)
	m.logProvider = opts.Provider

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if opts.File != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.File, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}

	if opts.Graylog != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.Graylog, handlerOpts))
	}

	if opts.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler(otelScope, otelslog.WithLoggerProvider(opts.Provider)))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if opts.Context != nil {
		handler = NewContextHandler(handler, opts.Context)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", lvl.String())
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
