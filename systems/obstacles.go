package systems

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// Obstacle is a static circle. Obstacles never move and never die.
type Obstacle struct {
	X, Y, Radius float64

	index  int
	bounds rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (o *Obstacle) Bounds() rtreego.Rect {
	return o.bounds
}

// Collides reports whether a circle at (x, y) with radius overlaps the obstacle.
func (o Obstacle) Collides(x, y, radius float64) bool {
	return distanceSq(o.X, o.Y, x, y) < (o.Radius+radius)*(o.Radius+radius)
}

// ObstacleIndex is an R-tree over obstacle bounding boxes. Queries resolve
// overlapping candidates in creation order, so "first match" always means the
// lowest obstacle index.
type ObstacleIndex struct {
	obstacles []*Obstacle
	tree      *rtreego.Rtree
}

// NewObstacleIndex builds an index over the given obstacles. The slice order
// defines obstacle indices.
func NewObstacleIndex(obstacles []Obstacle) *ObstacleIndex {
	ix := &ObstacleIndex{
		obstacles: make([]*Obstacle, len(obstacles)),
	}

	spatials := make([]rtreego.Spatial, 0, len(obstacles))
	for i, o := range obstacles {
		ob := &Obstacle{X: o.X, Y: o.Y, Radius: o.Radius, index: i}
		ob.bounds = squareAround(o.X, o.Y, o.Radius)
		ix.obstacles[i] = ob
		spatials = append(spatials, ob)
	}
	ix.tree = rtreego.NewTree(2, 25, 50, spatials...)

	return ix
}

// Len returns the number of obstacles.
func (ix *ObstacleIndex) Len() int {
	return len(ix.obstacles)
}

// At returns obstacle i.
func (ix *ObstacleIndex) At(i int) Obstacle {
	return *ix.obstacles[i]
}

// All returns a copy of the obstacles in index order.
func (ix *ObstacleIndex) All() []Obstacle {
	out := make([]Obstacle, len(ix.obstacles))
	for i, o := range ix.obstacles {
		out[i] = *o
	}
	return out
}

// FirstHit returns the lowest index of an obstacle whose center is closer than
// obstacle.Radius+radius to (x, y), or -1 if none is.
func (ix *ObstacleIndex) FirstHit(x, y, radius float64) int {
	for _, o := range ix.candidates(x, y, radius) {
		if o.Collides(x, y, radius) {
			return o.index
		}
	}
	return -1
}

// Clear reports whether (x, y) is at least obstacle.Radius+clearance away from
// every obstacle center.
func (ix *ObstacleIndex) Clear(x, y, clearance float64) bool {
	return ix.FirstHit(x, y, clearance) < 0
}

// candidates returns obstacles whose boxes intersect the query box, sorted by index.
func (ix *ObstacleIndex) candidates(x, y, radius float64) []*Obstacle {
	if len(ix.obstacles) == 0 {
		return nil
	}

	found := ix.tree.SearchIntersect(squareAround(x, y, radius))
	out := make([]*Obstacle, 0, len(found))
	for _, s := range found {
		out = append(out, s.(*Obstacle))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// squareAround returns the axis-aligned box of a circle.
func squareAround(x, y, radius float64) rtreego.Rect {
	side := 2 * math.Max(radius, 1e-9)
	r, err := rtreego.NewRect(rtreego.Point{x - side/2, y - side/2}, []float64{side, side})
	if err != nil {
		// Only reachable with non-positive lengths, which side excludes.
		panic(err)
	}
	return r
}
