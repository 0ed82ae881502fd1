package systems

import (
	"math"

	"github.com/pthm-cable/ecosim/components"
)

// BounceWalls inverts the velocity component of every wall crossed by the agent's
// radius-inflated bounding box, then clamps the position into [radius, dim-radius].
// Returns true if any component was inverted.
func BounceWalls(pos *components.Position, vel *components.Velocity, radius, width, height float64) bool {
	bounced := false
	if pos.X-radius < 0 || pos.X+radius > width {
		vel.X = -vel.X
		bounced = true
	}
	if pos.Y-radius < 0 || pos.Y+radius > height {
		vel.Y = -vel.Y
		bounced = true
	}

	pos.X = clamp(pos.X, radius, width-radius)
	pos.Y = clamp(pos.Y, radius, height-radius)
	return bounced
}

// ClampToWalls clamps the position into [radius, dim-radius] without touching velocity.
func ClampToWalls(pos *components.Position, radius, width, height float64) {
	pos.X = clamp(pos.X, radius, width-radius)
	pos.Y = clamp(pos.Y, radius, height-radius)
}

// SettleInsideWalls clamps the position into the walls. If the clamp pushed the
// agent back into an obstacle, it slides along the wall it is pinned to until it
// sits pushback*radius outside that obstacle. Velocity is untouched.
// A corner fully covered by an obstacle cannot be cleared; walls win there.
func SettleInsideWalls(pos *components.Position, radius, width, height float64, obstacles *ObstacleIndex, pushback float64) {
	ClampToWalls(pos, radius, width, height)
	if obstacles == nil {
		return
	}

	hit := obstacles.FirstHit(pos.X, pos.Y, radius)
	if hit < 0 {
		return
	}

	obs := obstacles.At(hit)
	clearance := obs.Radius + radius + pushback*radius
	switch {
	case pos.X == radius || pos.X == width-radius:
		pos.Y = slide(pos.Y, obs.Y, pos.X-obs.X, clearance)
	case pos.Y == radius || pos.Y == height-radius:
		pos.X = slide(pos.X, obs.X, pos.Y-obs.Y, clearance)
	default:
		return
	}

	ClampToWalls(pos, radius, width, height)
}

// slide returns the coordinate along a wall line at distance clearance from the
// obstacle center, on the side v already lies. across is the fixed offset from
// the center perpendicular to the wall.
func slide(v, center, across, clearance float64) float64 {
	off := math.Sqrt(math.Max(clearance*clearance-across*across, 0))
	if v < center {
		return center - off
	}
	return center + off
}

// Move commits a steering step against the obstacle set. The tentative position is
// pos+step; the first obstacle (lowest index) that it overlaps reflects the velocity
// and places the agent just outside that obstacle. Returns the obstacle index hit,
// or -1 when the step was committed unchanged.
func Move(pos *components.Position, vel *components.Velocity, radius float64, step Step, obstacles *ObstacleIndex, pushback float64) int {
	nextX := pos.X + step.DX
	nextY := pos.Y + step.DY

	hit := -1
	if obstacles != nil {
		hit = obstacles.FirstHit(nextX, nextY, radius)
	}
	if hit < 0 {
		pos.X = nextX
		pos.Y = nextY
		return -1
	}

	ResolveObstacle(pos, vel, radius, nextX, nextY, obstacles.At(hit), pushback)
	return hit
}

// ResolveObstacle reflects vel off the obstacle surface (tangential component kept,
// normal component inverted) and moves the agent to sit pushback*radius outside the
// surface along the normal through the tentative position (nextX, nextY).
func ResolveObstacle(pos *components.Position, vel *components.Velocity, radius, nextX, nextY float64, obs Obstacle, pushback float64) {
	nx := nextX - obs.X
	ny := nextY - obs.Y
	dist := math.Hypot(nx, ny)

	if dist < 1e-9 {
		// Tentative position at the obstacle center: back out against the velocity.
		nx, ny = -vel.X, -vel.Y
		dist = math.Hypot(nx, ny)
		if dist < 1e-9 {
			nx, ny, dist = 1, 0, 1
		}
	}
	nx /= dist
	ny /= dist

	// v' = v_t - v_n = v - 2(v·n)n
	dot := vel.X*nx + vel.Y*ny
	vel.X -= 2 * dot * nx
	vel.Y -= 2 * dot * ny

	clearance := obs.Radius + radius + pushback*radius
	pos.X = obs.X + nx*clearance
	pos.Y = obs.Y + ny*clearance
}
