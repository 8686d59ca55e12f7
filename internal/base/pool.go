package base

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/skybreak/forcepool/pkg/core"
)

// ErrUnsupportedTask is returned when a unit type's primary task has no inventory.
var ErrUnsupportedTask = errors.New("unsupported task")

// taskInventory routes a unit type's primary task to the inventory holding it.
var taskInventory = map[core.Task]core.Category{
	core.CAS:          core.Aircraft,
	core.FighterSweep: core.Aircraft,
	core.CAP:          core.Armor,
	core.AirDefence:   core.AirDefense,
}

// Total returns the number of units held in one inventory.
func (b *Base) Total(c core.Category) int {
	total := 0
	for _, n := range b.inventory(c) {
		total += n
	}
	return total
}

// TotalPlanes returns the number of aircraft held.
func (b *Base) TotalPlanes() int { return b.Total(core.Aircraft) }

// TotalArmor returns the number of armored vehicles held.
func (b *Base) TotalArmor() int { return b.Total(core.Armor) }

// TotalAA returns the number of air-defense units held.
func (b *Base) TotalAA() int { return b.Total(core.AirDefense) }

// TotalUnits returns the number of units, across all inventories, able to perform task.
func (b *Base) TotalUnits(task core.Task) int {
	total := 0
	for t, n := range b.AllUnits() {
		if b.lookup.Capable(t, task) {
			total += n
		}
	}
	return total
}

// TotalUnitsOfType returns how many units of exactly type t are held.
func (b *Base) TotalUnitsOfType(t core.UnitType) int {
	total := 0
	for _, c := range core.Categories {
		total += b.inventory(c)[t]
	}
	return total
}

// AllUnits yields every held (type, count) pair: aircraft, then armor, then
// air defense, each ordered by unit type.
func (b *Base) AllUnits() iter.Seq2[core.UnitType, int] {
	return func(yield func(core.UnitType, int) bool) {
		for _, c := range core.Categories {
			for t, n := range sortedStock(b.inventory(c)) {
				if !yield(t, n) {
					return
				}
			}
		}
	}
}

// Inventory returns a copy of one inventory.
func (b *Base) Inventory(c core.Category) core.UnitCounts {
	return core.MustUnitCounts(b.inventory(c))
}

// FilterUnits drops every unit type not in allowed, from each inventory
// independently. Open reservations give up the dropped units.
func (b *Base) FilterUnits(allowed []core.UnitType) {
	for _, c := range core.Categories {
		inv := b.inventory(c)
		for t := range inv {
			if !slices.Contains(allowed, t) {
				delete(inv, t)
				b.trimReservations(t)
			}
		}
	}
}

// CommisionUnits adds units to the inventory matching each type's primary task.
// Every type is routed before anything is added, so a rejected call leaves the
// base unchanged.
func (b *Base) CommisionUnits(delta core.UnitCounts) error {
	routes := make(map[core.UnitType]core.Category, delta.Len())
	for _, t := range delta.Types() {
		c, err := b.categoryFor(t)
		if err != nil {
			return fmt.Errorf("commissioning %s: %w", t, err)
		}
		routes[t] = c
	}

	for _, t := range delta.Types() {
		n := delta.Get(t)
		c := routes[t]
		b.inventory(c)[t] += n
		b.recordInventoryChange(b.inst.commissioned, c, n)
		b.log.Debug("commissioned units", "type", t, "count", n, "category", c)
	}
	return nil
}

// CommitLosses removes lost units. Types not held by the base are ignored.
// Entries reaching zero are deleted; losses beyond the held count remove the
// entry and are logged. Open reservations are shrunk to what remains held.
func (b *Base) CommitLosses(losses core.UnitCounts) {
	for _, t := range losses.Types() {
		c, inv, ok := b.holder(t)
		if !ok {
			continue
		}

		lost := losses.Get(t)
		held := inv[t]
		if lost > held {
			b.log.Warn("losses exceed held units", "type", t, "held", held, "lost", lost)
			lost = held
		}

		if remaining := held - lost; remaining > 0 {
			inv[t] = remaining
		} else {
			delete(inv, t)
		}
		b.recordInventoryChange(b.inst.losses, c, lost)
		b.log.Debug("committed losses", "type", t, "count", lost, "category", c)
		b.trimReservations(t)
	}
}

func (b *Base) categoryFor(t core.UnitType) (core.Category, error) {
	task, err := b.lookup.PrimaryTask(t)
	if err != nil {
		return 0, err
	}
	c, ok := taskInventory[task]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedTask, task)
	}
	return c, nil
}

// holder finds the inventory currently holding t.
func (b *Base) holder(t core.UnitType) (core.Category, map[core.UnitType]int, bool) {
	for _, c := range core.Categories {
		inv := b.inventory(c)
		if _, ok := inv[t]; ok {
			return c, inv, true
		}
	}
	return 0, nil, false
}

func sortedStock(m map[core.UnitType]int) iter.Seq2[core.UnitType, int] {
	return func(yield func(core.UnitType, int) bool) {
		keys := make([]core.UnitType, 0, len(m))
		for t := range m {
			keys = append(keys, t)
		}
		slices.Sort(keys)
		for _, t := range keys {
			if !yield(t, m[t]) {
				return
			}
		}
	}
}
