// Package base implements the force pool held at a control point: the
// aircraft, armor and air-defense inventories, the allocation engine that picks
// units for a mission, sortie sizing, the commission ledger and base strength.
//
// A Base is owned by a single simulation driver and is not safe for concurrent
// use. Allocation queries never deduct stock. Callers either follow a query with
// a matching CommitLosses before issuing another query, or hold the allocated
// units with Reserve until the outcome is known.
package base

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/pkg/core"
)

// Default sizing constants.
const (
	PlanesInGroup          = 2
	PlanesImportanceFactor = 2
	ArmorImportanceFactor  = 4
)

// ErrNoCatalog is returned by New when no unit lookup is provided.
var ErrNoCatalog = errors.New("base requires a unit catalog")

// Sizing holds the factors used to turn importance and strength into unit counts.
type Sizing struct {
	PlanesImportanceFactor float64
	ArmorImportanceFactor  float64
	PlanesInGroup          int
}

// DefaultSizing returns the stock sizing factors.
func DefaultSizing() Sizing {
	return Sizing{
		PlanesImportanceFactor: PlanesImportanceFactor,
		ArmorImportanceFactor:  ArmorImportanceFactor,
		PlanesInGroup:          PlanesInGroup,
	}
}

// Dependencies holds everything a Base needs from its owner.
type Dependencies struct {
	Name    string // control point name, used in logs and metrics
	Catalog catalog.Lookup
	Logger  *slog.Logger
	Sizing  *Sizing // nil means DefaultSizing
}

// Base is the force pool of one control point.
type Base struct {
	name   string
	lookup catalog.Lookup
	log    *slog.Logger
	sizing Sizing
	inst   *instruments

	aircraft map[core.UnitType]int
	armor    map[core.UnitType]int
	aa       map[core.UnitType]int

	commisionPoints map[core.Task]float64
	strength        float64

	reservations    map[uint64]*Reservation
	nextReservation uint64
}

// New creates an empty base at full strength.
func New(deps Dependencies) (*Base, error) {
	if deps.Catalog == nil {
		return nil, ErrNoCatalog
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sizing := DefaultSizing()
	if deps.Sizing != nil {
		sizing = *deps.Sizing
	}

	inst, err := newInstruments()
	if err != nil {
		return nil, fmt.Errorf("creating base instruments: %w", err)
	}

	return &Base{
		name:            deps.Name,
		lookup:          deps.Catalog,
		log:             logger.With("controlPoint", deps.Name),
		sizing:          sizing,
		inst:            inst,
		aircraft:        make(map[core.UnitType]int),
		armor:           make(map[core.UnitType]int),
		aa:              make(map[core.UnitType]int),
		commisionPoints: make(map[core.Task]float64),
		strength:        1,
		reservations:    make(map[uint64]*Reservation),
	}, nil
}

// Name returns the owning control point's name.
func (b *Base) Name() string {
	return b.name
}

// Sizing returns the factors in use.
func (b *Base) Sizing() Sizing {
	return b.sizing
}

func (b *Base) inventory(c core.Category) map[core.UnitType]int {
	switch c {
	case core.Aircraft:
		return b.aircraft
	case core.Armor:
		return b.armor
	case core.AirDefense:
		return b.aa
	default:
		return nil
	}
}
