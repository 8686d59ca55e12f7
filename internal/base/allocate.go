package base

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/pkg/core"
)

// ErrInsufficientInventory signals that fewer units were available than requested.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// InsufficientInventoryError describes a partially filled request.
type InsufficientInventoryError struct {
	Task      core.Task
	Requested int
	Allocated int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("%s: requested %d %s units, %d available",
		ErrInsufficientInventory, e.Requested, e.Task, e.Allocated)
}

func (e *InsufficientInventoryError) Unwrap() error {
	return ErrInsufficientInventory
}

// Allocation is the answer to an allocation query. It does not hold the units;
// see Base.Reserve.
type Allocation struct {
	Task      core.Task
	Requested int
	Units     core.UnitCounts
}

// Allocated returns the number of units actually allocated.
func (a Allocation) Allocated() int {
	return a.Units.Total()
}

// Shortfall returns how many requested units could not be allocated.
func (a Allocation) Shortfall() int {
	return max(0, a.Requested-a.Allocated())
}

// Err returns an *InsufficientInventoryError if the request was only partly
// filled, nil otherwise.
func (a Allocation) Err() error {
	if a.Shortfall() == 0 {
		return nil
	}
	return &InsufficientInventoryError{Task: a.Task, Requested: a.Requested, Allocated: a.Allocated()}
}

type candidate struct {
	t     core.UnitType
	n     int
	price float64
}

// FindBest picks up to count units able to perform task from stock, taking the
// most expensive types first. Equal prices are ordered by unit type. The result
// may hold fewer than count units.
func FindBest(stock iter.Seq2[core.UnitType, int], lookup catalog.Lookup, task core.Task, count int) Allocation {
	a := Allocation{Task: task, Requested: max(count, 0)}
	if count <= 0 {
		return a
	}

	var candidates []candidate
	for t, n := range stock {
		if n > 0 && lookup.Capable(t, task) {
			candidates = append(candidates, candidate{t: t, n: n, price: lookup.Price(t)})
		}
	}
	slices.SortFunc(candidates, func(x, y candidate) int {
		if c := cmp.Compare(y.price, x.price); c != 0 {
			return c
		}
		return cmp.Compare(x.t, y.t)
	})

	picked := make(map[core.UnitType]int)
	remaining := count
	for _, c := range candidates {
		if remaining <= 0 {
			break
		}
		take := min(remaining, c.n)
		picked[c.t] += take
		remaining -= take
	}

	a.Units = core.MustUnitCounts(picked)
	return a
}

// findBest allocates from one inventory, net of reserved units.
func (b *Base) findBest(c core.Category, task core.Task, count int) Allocation {
	a := FindBest(b.available(c), b.lookup, task, count)
	b.recordAllocation(a)
	if short := a.Shortfall(); short > 0 {
		b.log.Debug("allocation short", "task", task, "requested", a.Requested, "allocated", a.Allocated())
	}
	return a
}

// available yields the unreserved stock of one inventory.
func (b *Base) available(c core.Category) iter.Seq2[core.UnitType, int] {
	return func(yield func(core.UnitType, int) bool) {
		for t, n := range sortedStock(b.inventory(c)) {
			free := n - b.Reserved(t)
			if free <= 0 {
				continue
			}
			if !yield(t, free) {
				return
			}
		}
	}
}
