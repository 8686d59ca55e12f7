package base

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/skybreak/forcepool/pkg/core"
)

var (
	// ErrReservationClosed is returned when a committed or released reservation is reused.
	ErrReservationClosed = errors.New("reservation already closed")
	// ErrLossExceedsReservation is returned when committed losses are not covered by the reservation.
	ErrLossExceedsReservation = errors.New("losses exceed reserved units")
)

// Reservation holds allocated units so that later allocation queries cannot
// hand them out again. It must end with exactly one Commit or Release.
type Reservation struct {
	id     uint64
	base   *Base
	task   core.Task
	units  core.UnitCounts
	closed bool
}

// ID returns the reservation's identifier, unique within its base.
func (r *Reservation) ID() uint64 { return r.id }

// Task returns the task the units were allocated for.
func (r *Reservation) Task() core.Task { return r.task }

// Units returns the held units.
func (r *Reservation) Units() core.UnitCounts { return r.units }

// Closed reports whether the reservation was committed or released.
func (r *Reservation) Closed() bool { return r.closed }

// Reserve holds the units of a, failing without side effects if any of them
// are no longer available.
func (b *Base) Reserve(a Allocation) (*Reservation, error) {
	for _, t := range a.Units.Types() {
		want := a.Units.Get(t)
		if free := b.TotalUnitsOfType(t) - b.Reserved(t); want > free {
			return nil, fmt.Errorf("reserving %s: %w", t, &InsufficientInventoryError{
				Task:      a.Task,
				Requested: want,
				Allocated: max(free, 0),
			})
		}
	}

	b.nextReservation++
	r := &Reservation{
		id:    b.nextReservation,
		base:  b,
		task:  a.Task,
		units: a.Units,
	}
	b.reservations[r.id] = r
	b.log.Debug("units reserved", "reservation", r.id, "task", a.Task, "units", a.Units.Total())
	return r, nil
}

// Reserved returns how many units of t are held by open reservations.
func (b *Base) Reserved(t core.UnitType) int {
	n := 0
	for _, r := range b.reservations {
		n += r.units.Get(t)
	}
	return n
}

// trimReservations shrinks the open reservations of t, newest first, until
// together they hold no more than the base still has.
func (b *Base) trimReservations(t core.UnitType) {
	excess := b.Reserved(t) - b.TotalUnitsOfType(t)
	if excess <= 0 {
		return
	}

	ids := slices.Sorted(maps.Keys(b.reservations))
	for _, id := range slices.Backward(ids) {
		r := b.reservations[id]
		cut := min(r.units.Get(t), excess)
		if cut == 0 {
			continue
		}

		units := r.units.Map()
		if units[t] -= cut; units[t] == 0 {
			delete(units, t)
		}
		r.units = core.MustUnitCounts(units)
		excess -= cut
		b.log.Warn("reservation trimmed to held units", "reservation", id, "type", t, "count", cut)

		if excess == 0 {
			return
		}
	}
}

// OpenReservations returns the number of reservations not yet closed.
func (b *Base) OpenReservations() int {
	return len(b.reservations)
}

// Commit removes losses, which must be covered by the reservation, from the
// base and returns the surviving units to the pool.
func (r *Reservation) Commit(losses core.UnitCounts) error {
	if r.closed {
		return fmt.Errorf("committing reservation %d: %w", r.id, ErrReservationClosed)
	}
	for _, t := range losses.Types() {
		if lost, held := losses.Get(t), r.units.Get(t); lost > held {
			return fmt.Errorf("committing reservation %d: %s lost %d, reserved %d: %w",
				r.id, t, lost, held, ErrLossExceedsReservation)
		}
	}

	r.close()
	r.base.CommitLosses(losses)
	r.base.log.Debug("reservation committed", "reservation", r.id, "lost", losses.Total())
	return nil
}

// Release returns every held unit to the pool.
func (r *Reservation) Release() error {
	if r.closed {
		return fmt.Errorf("releasing reservation %d: %w", r.id, ErrReservationClosed)
	}
	r.close()
	r.base.log.Debug("reservation released", "reservation", r.id)
	return nil
}

func (r *Reservation) close() {
	r.closed = true
	delete(r.base.reservations, r.id)
}
