package base

import "math"

// Strength returns the base condition factor in [0, 1].
func (b *Base) Strength() float64 {
	return b.strength
}

// AffectStrength adjusts strength by delta, clamped to [0, 1].
func (b *Base) AffectStrength(delta float64) {
	if math.IsNaN(delta) {
		return
	}
	b.strength = min(max(b.strength+delta, 0), 1)
	b.log.Debug("strength changed", "delta", delta, "strength", b.strength)
}
