// Package sam generates air-defense emplacements to place on the map.
package sam

import (
	"errors"
	"fmt"
	"math/rand/v2"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/skybreak/forcepool/internal/geo"
	"github.com/skybreak/forcepool/pkg/core"
)

// ErrUnknownRange is returned when parsing an unrecognised range class.
var ErrUnknownRange = errors.New("unknown range")

// Range classifies how far an emplacement can engage.
type Range int

const (
	Short Range = iota
	Medium
	Long
)

func (r Range) String() string {
	switch r {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// ParseRange parses "short", "medium" or "long".
func ParseRange(s string) (Range, error) {
	for _, r := range []Range{Short, Medium, Long} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRange, s)
}

// Unit is one vehicle of a generated group.
type Unit struct {
	Type     core.UnitType
	Name     string
	Position core.Position3D
	Heading  float64
}

// Group is a generated emplacement.
type Group struct {
	Name  string
	Units []Unit
}

// Footprint returns the unit positions as a single geometry.
func (g Group) Footprint() (geom.MultiPoint, error) {
	positions := make([]core.Position3D, 0, len(g.Units))
	for _, u := range g.Units {
		positions = append(positions, u.Position)
	}
	return geo.Footprint(positions)
}

// Count returns how many units of t the group contains.
func (g Group) Count(t core.UnitType) int {
	n := 0
	for _, u := range g.Units {
		if u.Type == t {
			n++
		}
	}
	return n
}

// Generator builds one kind of emplacement. Price and Range are used by the
// force composition planner to choose among generators.
type Generator interface {
	Name() string
	Price() float64
	Range() Range
	Generate(position core.Position3D, heading float64) Group
}

// coinFlip reports heads with 50% probability; nil rng uses the global source.
func coinFlip(rng *rand.Rand) bool {
	if rng == nil {
		return rand.IntN(2) == 1
	}
	return rng.IntN(2) == 1
}

// ByRange returns the generators of the given range class.
func ByRange(gens []Generator, r Range) []Generator {
	var out []Generator
	for _, g := range gens {
		if g.Range() == r {
			out = append(out, g)
		}
	}
	return out
}
