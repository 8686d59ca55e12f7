// pkg/core/counts.go
package core

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNonPositiveCount is returned for unit counts of zero or less.
	ErrNonPositiveCount = errors.New("unit count must be positive")
	// ErrNonIntegralCount is returned for fractional unit counts.
	ErrNonIntegralCount = errors.New("unit count must be a whole number")
	// ErrEmptyUnitType is returned for entries without a unit type.
	ErrEmptyUnitType = errors.New("unit type must not be empty")
)

// CountError reports which entry of a unit count mapping was rejected.
type CountError struct {
	Type  UnitType
	Count float64
	Err   error
}

func (e *CountError) Error() string {
	return fmt.Sprintf("invalid count %v for unit type %q: %v", e.Count, e.Type, e.Err)
}

func (e *CountError) Unwrap() error {
	return e.Err
}

// UnitCounts is a validated mapping of unit type to a positive whole count.
// The zero value is an empty, usable mapping.
type UnitCounts struct {
	m map[UnitType]int
}

// NewUnitCounts validates counts and copies them into a UnitCounts.
func NewUnitCounts(counts map[UnitType]int) (UnitCounts, error) {
	out := make(map[UnitType]int, len(counts))
	for _, t := range sortedKeys(counts) {
		n := counts[t]
		if t == "" {
			return UnitCounts{}, &CountError{Type: t, Count: float64(n), Err: ErrEmptyUnitType}
		}
		if n <= 0 {
			return UnitCounts{}, &CountError{Type: t, Count: float64(n), Err: ErrNonPositiveCount}
		}
		out[t] = n
	}
	return UnitCounts{m: out}, nil
}

// MustUnitCounts is NewUnitCounts that panics on invalid input.
// Intended for literals in tests and builtin tables.
func MustUnitCounts(counts map[UnitType]int) UnitCounts {
	uc, err := NewUnitCounts(counts)
	if err != nil {
		panic(err)
	}
	return uc
}

// ParseUnitCounts validates loosely typed counts, e.g. decoded from YAML or JSON,
// rejecting fractional and non-positive values.
func ParseUnitCounts(raw map[string]float64) (UnitCounts, error) {
	counts := make(map[UnitType]int, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := raw[k]
		t := UnitType(k)
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Floor(v) {
			return UnitCounts{}, &CountError{Type: t, Count: v, Err: ErrNonIntegralCount}
		}
		if v > math.MaxInt32 {
			return UnitCounts{}, &CountError{Type: t, Count: v, Err: ErrNonIntegralCount}
		}
		counts[t] = int(v)
	}
	return NewUnitCounts(counts)
}

// Get returns the count for t, or 0.
func (u UnitCounts) Get(t UnitType) int {
	return u.m[t]
}

// Len returns the number of unit types.
func (u UnitCounts) Len() int {
	return len(u.m)
}

// Total returns the sum of all counts.
func (u UnitCounts) Total() int {
	total := 0
	for _, n := range u.m {
		total += n
	}
	return total
}

// Types returns the unit types in ascending order.
func (u UnitCounts) Types() []UnitType {
	return sortedKeys(u.m)
}

// Map returns a copy of the underlying mapping.
func (u UnitCounts) Map() map[UnitType]int {
	out := make(map[UnitType]int, len(u.m))
	for t, n := range u.m {
		out[t] = n
	}
	return out
}

func sortedKeys(m map[UnitType]int) []UnitType {
	keys := make([]UnitType, 0, len(m))
	for t := range m {
		keys = append(keys, t)
	}
	slices.Sort(keys)
	return keys
}
