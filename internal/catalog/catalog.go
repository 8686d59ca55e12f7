// Package catalog provides the unit tables a base consults: which tasks a unit
// type can fly or fight, which inventory it is routed to, and what it costs.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/skybreak/forcepool/pkg/core"
)

var (
	// ErrUnknownUnitType is returned when a unit type is not in the catalog.
	ErrUnknownUnitType = errors.New("unknown unit type")
	// ErrDuplicateUnitType is returned when an entry is registered twice.
	ErrDuplicateUnitType = errors.New("duplicate unit type")
	// ErrInvalidEntry is returned for entries that fail validation.
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// Lookup is what a base needs from a catalog.
type Lookup interface {
	// Capable reports whether t can perform task.
	Capable(t core.UnitType, task core.Task) bool
	// PrimaryTask returns the task used to route t to an inventory.
	PrimaryTask(t core.UnitType) (core.Task, error)
	// Price returns the acquisition cost of t, or 0 for unknown types.
	Price(t core.UnitType) float64
}

// Entry describes one unit type.
type Entry struct {
	Type         core.UnitType `yaml:"type" json:"type"`
	Price        float64       `yaml:"price" json:"price"`
	Task         core.Task     `yaml:"task" json:"task"`
	Capabilities []core.Task   `yaml:"capabilities" json:"capabilities"`
}

// Can reports whether the entry lists task among its capabilities.
func (e Entry) Can(task core.Task) bool {
	return slices.Contains(e.Capabilities, task)
}

// Catalog is an immutable unit table.
type Catalog struct {
	entries map[core.UnitType]Entry
	byTask  map[core.Task][]core.UnitType
}

var _ Lookup = (*Catalog)(nil)

// New validates entries and builds a catalog. The primary task of every entry
// is always part of its capabilities.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[core.UnitType]Entry, len(entries)),
		byTask:  make(map[core.Task][]core.UnitType),
	}

	for _, e := range entries {
		if e.Type == "" {
			return nil, fmt.Errorf("%w: empty unit type", ErrInvalidEntry)
		}
		if _, ok := c.entries[e.Type]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUnitType, e.Type)
		}
		if !e.Task.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown task %q", ErrInvalidEntry, e.Type, e.Task)
		}
		if e.Price < 0 {
			return nil, fmt.Errorf("%w: %s has negative price", ErrInvalidEntry, e.Type)
		}

		caps := make([]core.Task, 0, len(e.Capabilities)+1)
		caps = append(caps, e.Task)
		for _, task := range e.Capabilities {
			if !task.Valid() {
				return nil, fmt.Errorf("%w: %s has unknown capability %q", ErrInvalidEntry, e.Type, task)
			}
			if !slices.Contains(caps, task) {
				caps = append(caps, task)
			}
		}
		e.Capabilities = caps
		c.entries[e.Type] = e

		for _, task := range caps {
			c.byTask[task] = append(c.byTask[task], e.Type)
		}
	}

	for task := range c.byTask {
		slices.Sort(c.byTask[task])
	}

	return c, nil
}

// MustNew is New that panics on invalid entries.
func MustNew(entries ...Entry) *Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Entry returns the entry for t.
func (c *Catalog) Entry(t core.UnitType) (Entry, bool) {
	e, ok := c.entries[t]
	return e, ok
}

// Len returns the number of unit types in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Types returns every unit type in ascending order.
func (c *Catalog) Types() []core.UnitType {
	out := make([]core.UnitType, 0, len(c.entries))
	for t := range c.entries {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Entries returns every entry ordered by unit type.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, t := range c.Types() {
		out = append(out, c.entries[t])
	}
	return out
}

// UnitsByTask returns the unit types able to perform task, in ascending order.
func (c *Catalog) UnitsByTask(task core.Task) []core.UnitType {
	return slices.Clone(c.byTask[task])
}

func (c *Catalog) Capable(t core.UnitType, task core.Task) bool {
	e, ok := c.entries[t]
	return ok && e.Can(task)
}

func (c *Catalog) PrimaryTask(t core.UnitType) (core.Task, error) {
	e, ok := c.entries[t]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownUnitType, t)
	}
	return e.Task, nil
}

func (c *Catalog) Price(t core.UnitType) float64 {
	return c.entries[t].Price
}
