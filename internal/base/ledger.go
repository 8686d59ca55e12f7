package base

import (
	"fmt"
	"math"

	"github.com/skybreak/forcepool/pkg/core"
)

// AppendCommisionPoints accrues points towards task. Whenever a whole unit's
// worth has accrued the whole part is removed and returned; the remainder stays
// in [0, 1). Non-positive, infinite or NaN points are ignored.
func (b *Base) AppendCommisionPoints(task core.Task, points float64) int {
	if !(points > 0) || math.IsInf(points, 1) {
		return 0
	}

	total := b.commisionPoints[task] + points
	if total >= 1 {
		whole := math.Floor(total)
		b.commisionPoints[task] = total - whole
		return int(whole)
	}

	b.commisionPoints[task] = total
	return 0
}

// CommisionPoints returns the fractional points accrued towards task.
func (b *Base) CommisionPoints(task core.Task) float64 {
	return b.commisionPoints[task]
}

// Deliver accrues points towards unitType's primary task and commissions any
// whole units that became available. It returns the number delivered.
func (b *Base) Deliver(unitType core.UnitType, points float64) (int, error) {
	// route first so a bad type never consumes points
	if _, err := b.categoryFor(unitType); err != nil {
		return 0, fmt.Errorf("delivering %s: %w", unitType, err)
	}
	task, err := b.lookup.PrimaryTask(unitType)
	if err != nil {
		return 0, err
	}

	n := b.AppendCommisionPoints(task, points)
	if n == 0 {
		return 0, nil
	}

	delta, err := core.NewUnitCounts(map[core.UnitType]int{unitType: n})
	if err != nil {
		return 0, err
	}
	if err := b.CommisionUnits(delta); err != nil {
		return 0, err
	}
	b.log.Info("units delivered", "type", unitType, "count", n, "task", task)
	return n, nil
}
