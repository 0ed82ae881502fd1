package systems

import "github.com/pthm-cable/ecosim/components"

// Metabolize charges the per-tick upkeep and ages the agent by one tick.
func Metabolize(e *components.Energy, cost float64) {
	e.Value -= cost
	e.Age++
}

// IsAlive reports whether an agent is alive: positive energy and a position inside
// [0, width] x [0, height].
func IsAlive(pos components.Position, e components.Energy, width, height float64) bool {
	return e.Value > 0 &&
		pos.X >= 0 && pos.X <= width &&
		pos.Y >= 0 && pos.Y <= height
}

// CanReproduce reports whether a mobile agent's energy exceeds the threshold.
func CanReproduce(e components.Energy, threshold float64) bool {
	return e.Value > threshold
}

// SplitEnergy halves the parent's energy for a birth.
func SplitEnergy(e *components.Energy) {
	e.Value /= 2
}

// Feed credits a predation or grazing gain.
func Feed(e *components.Energy, gain float64) {
	e.Value += gain
}

// Graze removes damage from a plant and reports whether the plant is exhausted.
func Graze(plant *components.Energy, damage float64) bool {
	plant.Value -= damage
	return plant.Value <= 0
}
