package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
)

// Step is the position displacement chosen by steering for one tick.
type Step struct {
	DX, DY float64
}

// RandomWalk rotates the velocity by a uniform offset in [-maxTurn, maxTurn] while
// keeping its speed, and returns the rotated velocity as the step.
func RandomWalk(vel *components.Velocity, rng *rand.Rand, maxTurn float64) Step {
	angle := math.Atan2(vel.Y, vel.X) + (rng.Float64()*2-1)*maxTurn
	speed := math.Hypot(vel.X, vel.Y)

	vel.X = math.Cos(angle) * speed
	vel.Y = math.Sin(angle) * speed

	return Step{DX: vel.X, DY: vel.Y}
}

// Seek faces the target exactly and moves toward it at speed, never past it.
// Velocity becomes direction*speed; the step is direction*min(speed, distance).
// Returns false without touching vel when the target is closer than minDist.
func Seek(pos components.Position, vel *components.Velocity, tx, ty, speed, minDist float64) (Step, bool) {
	return steerAlong(vel, tx-pos.X, ty-pos.Y, speed, minDist)
}

// Flee faces directly away from the threat at speed. The step length is capped at
// the current distance to the threat.
// Returns false without touching vel when the threat is closer than minDist.
func Flee(pos components.Position, vel *components.Velocity, tx, ty, speed, minDist float64) (Step, bool) {
	return steerAlong(vel, pos.X-tx, pos.Y-ty, speed, minDist)
}

func steerAlong(vel *components.Velocity, dx, dy, speed, minDist float64) (Step, bool) {
	dist := math.Hypot(dx, dy)
	if dist < minDist {
		return Step{}, false
	}

	nx := dx / dist
	ny := dy / dist
	vel.X = nx * speed
	vel.Y = ny * speed

	travel := math.Min(speed, dist)
	return Step{DX: nx * travel, DY: ny * travel}, true
}
