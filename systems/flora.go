package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
)

// Photosynthesize adds growth energy, capped at the plant's maximum.
func Photosynthesize(e *components.Energy, f components.Flora, growth float64) {
	e.Value = math.Min(e.Value+growth, f.MaxEnergy)
}

// ReadyToSeed reports whether a plant has reached its reproduction threshold.
func ReadyToSeed(e components.Energy, f components.Flora) bool {
	return e.Value >= f.ReproThreshold
}

// Placement holds the constraints for seeding a plant.
type Placement struct {
	Trials    int
	Spread    float64 // offsets drawn from [-Spread, Spread] on each axis
	Border    float64 // keep-out band along each wall
	Clearance float64 // extra distance beyond every obstacle radius
	Width     float64
	Height    float64
}

// PlacePlant draws up to p.Trials random offsets around (x, y) and returns the first
// one inside the bordered world and clear of every obstacle. ok is false when all
// trials fail.
func PlacePlant(rng *rand.Rand, x, y float64, p Placement, obstacles *ObstacleIndex) (px, py float64, ok bool) {
	for i := 0; i < p.Trials; i++ {
		nx := x + (rng.Float64()*2-1)*p.Spread
		ny := y + (rng.Float64()*2-1)*p.Spread

		if nx < p.Border || nx > p.Width-p.Border || ny < p.Border || ny > p.Height-p.Border {
			continue
		}
		if obstacles != nil && !obstacles.Clear(nx, ny, p.Clearance) {
			continue
		}
		return nx, ny, true
	}
	return 0, 0, false
}
