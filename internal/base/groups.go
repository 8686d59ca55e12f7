package base

import (
	"iter"
	"math"

	"github.com/skybreak/forcepool/pkg/core"
)

// GroupSizes splits total units into groups of perGroup, the last group taking
// the remainder: GroupSizes(5, 2) yields 2, 2, 1. A non-positive perGroup puts
// everything in one group.
func GroupSizes(total, perGroup int) iter.Seq[int] {
	return func(yield func(int) bool) {
		size := perGroup
		if size <= 0 {
			size = total
		}
		for remaining := total; remaining > 0; remaining -= size {
			if !yield(min(size, remaining)) {
				return
			}
		}
	}
}

// GroupSizes splits total aircraft into flights of the configured size.
func (b *Base) GroupSizes(total int) iter.Seq[int] {
	return GroupSizes(total, b.sizing.PlanesInGroup)
}

// GroupSizesFor splits the aircraft a target warrants into flights.
func (b *Base) GroupSizesFor(target core.ControlPoint) iter.Seq[int] {
	total := int(math.Ceil(target.Importance * b.sizing.PlanesImportanceFactor))
	return b.GroupSizes(total)
}
