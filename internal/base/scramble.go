package base

import (
	"fmt"
	"math"

	"github.com/skybreak/forcepool/pkg/core"
)

// required scales a basis by a category factor and the current strength.
// Results too large for an int saturate at math.MaxInt.
func (b *Base) required(basis, factor float64) int {
	n := math.Ceil(basis * factor * b.strength)
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// ScrambleCAS picks aircraft for close air support over target.
func (b *Base) ScrambleCAS(target core.ControlPoint) Allocation {
	return b.findBest(core.Aircraft, core.CAS, b.required(target.Importance, b.sizing.PlanesImportanceFactor))
}

// ScrambleSweep picks aircraft for a fighter sweep over target.
func (b *Base) ScrambleSweep(target core.ControlPoint) Allocation {
	return b.findBest(core.Aircraft, core.FighterSweep, b.required(target.Importance, b.sizing.PlanesImportanceFactor))
}

// ScrambleInterceptors picks a share of the base's aircraft as interceptors.
func (b *Base) ScrambleInterceptors(ratio float64) Allocation {
	return b.findBest(core.Aircraft, core.FighterSweep, b.required(float64(b.TotalPlanes()), ratio))
}

// ScrambleInterceptorsCount picks exactly count interceptors, or as many as are
// available. Strength does not apply.
func (b *Base) ScrambleInterceptorsCount(count int) (Allocation, error) {
	if count <= 0 {
		return Allocation{}, fmt.Errorf("scrambling %d interceptors: %w", count, core.ErrNonPositiveCount)
	}
	return b.findBest(core.Aircraft, core.FighterSweep, count), nil
}

// AssembleCAP picks armor to hold target.
func (b *Base) AssembleCAP(target core.ControlPoint) Allocation {
	return b.findBest(core.Armor, core.CAP, b.required(target.Importance, b.sizing.ArmorImportanceFactor))
}

// AssembleDefense picks a share of the base's armor to defend it.
func (b *Base) AssembleDefense(ratio float64) Allocation {
	return b.findBest(core.Armor, core.CAP, b.required(float64(b.TotalArmor()), ratio))
}
