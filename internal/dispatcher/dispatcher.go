// Package dispatcher routes campaign driver commands to their handlers.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrUnknownCommand is returned by Dispatch for unregistered commands.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingArg is returned when a command lacks a required argument.
	ErrMissingArg = errors.New("missing argument")
)

// Event is one command issued by the campaign driver.
type Event struct {
	Command string
	Target  string // control point the command applies to, if any
	Args    map[string]any
	Turn    int
}

// Arg returns the named argument and whether it was given.
func (e Event) Arg(name string) (any, bool) {
	v, ok := e.Args[name]
	return v, ok
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	required []string
	target   bool
	logged   bool
}

// Requires rejects events missing any of the named arguments.
func Requires(args ...string) Option {
	return func(c *config) {
		c.required = append(c.required, args...)
	}
}

// Targeted rejects events without a Target.
func Targeted() Option {
	return func(c *config) {
		c.target = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes events to registered handlers. Handlers run synchronously
// on the caller's goroutine.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   Logger

	processed metric.Int64Counter
	failed    metric.Int64Counter
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error

	d.processed, err = m.Int64Counter(
		"driver.commands.processed",
		metric.WithDescription("Total commands processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"driver.commands.failed",
		metric.WithDescription("Total commands that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given command with optional configuration.
// Registering a command twice replaces the earlier handler.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.target || len(cfg.required) > 0 {
		handler = withValidation(command, cfg.target, cfg.required, handler)
	}

	if cfg.logged && d.logger != nil {
		handler = d.withLogging(command, handler)
	}

	d.mu.Lock()
	d.handlers[command] = handler
	d.mu.Unlock()
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	d.mu.RLock()
	h, ok := d.handlers[e.Command]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}

	cmdAttr := metric.WithAttributes(attribute.String("command", e.Command))
	result, err := h(e)
	d.processed.Add(context.Background(), 1, cmdAttr)
	if err != nil {
		d.failed.Add(context.Background(), 1, cmdAttr)
	}
	return result, err
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[command]
	return ok
}

// Commands returns the registered command names in ascending order.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.handlers))
	for cmd := range d.handlers {
		out = append(out, cmd)
	}
	slices.Sort(out)
	return out
}

func withValidation(command string, target bool, required []string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		if target && e.Target == "" {
			return nil, fmt.Errorf("%s: %w: target", command, ErrMissingArg)
		}
		for _, name := range required {
			if _, ok := e.Args[name]; !ok {
				return nil, fmt.Errorf("%s: %w: %s", command, ErrMissingArg, name)
			}
		}
		return h(e)
	}
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling command", "command", command, "target", e.Target, "args", len(e.Args))

		result, err := h(e)

		if err != nil {
			d.logger.Error("command failed", "command", command, "target", e.Target, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", command, "target", e.Target, "duration", time.Since(start))
		}

		return result, err
	}
}
