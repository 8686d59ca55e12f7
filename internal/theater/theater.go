// Package theater keeps the control points of a campaign, each owning its own base.
package theater

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/skybreak/forcepool/internal/base"
	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/pkg/core"
)

var (
	// ErrDuplicateControlPoint is returned when a name is registered twice.
	ErrDuplicateControlPoint = errors.New("control point already exists")
	// ErrUnknownControlPoint is returned for names not in the theater.
	ErrUnknownControlPoint = errors.New("unknown control point")
)

// Dependencies holds what every base in the theater is built with.
type Dependencies struct {
	Catalog catalog.Lookup
	Logger  *slog.Logger
	Sizing  *base.Sizing
}

// Station pairs a control point with the base it owns.
type Station struct {
	ControlPoint core.ControlPoint
	Base         *base.Base
}

// Theater holds the campaign's control points and tracks the current turn.
type Theater struct {
	deps Dependencies

	mu       sync.RWMutex
	stations map[string]*Station
	turn     int
}

// New creates an empty theater.
func New(deps Dependencies) *Theater {
	return &Theater{
		deps:     deps,
		stations: make(map[string]*Station),
	}
}

// Add registers a control point and creates its empty base.
func (t *Theater) Add(cp core.ControlPoint) (*Station, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.stations[cp.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateControlPoint, cp.Name)
	}

	b, err := base.New(base.Dependencies{
		Name:    cp.Name,
		Catalog: t.deps.Catalog,
		Logger:  t.deps.Logger,
		Sizing:  t.deps.Sizing,
	})
	if err != nil {
		return nil, fmt.Errorf("creating base for %s: %w", cp.Name, err)
	}

	s := &Station{ControlPoint: cp, Base: b}
	t.stations[cp.Name] = s
	return s, nil
}

// Get returns the station for name.
func (t *Theater) Get(name string) (*Station, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.stations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownControlPoint, name)
	}
	return s, nil
}

// Names returns all control point names in ascending order.
func (t *Theater) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.stations))
	for name := range t.stations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Turn returns the current campaign turn.
func (t *Theater) Turn() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.turn
}

// NextTurn advances the campaign turn and returns it.
func (t *Theater) NextTurn() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turn++
	return t.turn
}

// LogAttrs returns the attributes attached to every log record while the
// campaign runs.
func (t *Theater) LogAttrs() []slog.Attr {
	return []slog.Attr{slog.Int("turn", t.Turn())}
}
