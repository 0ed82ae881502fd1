// Package systems provides the per-agent rules of the simulation: steering,
// collision response, energy bookkeeping, plant growth and spatial queries.
package systems

// Neighbor holds a nearby agent with precomputed spatial data.
type Neighbor struct {
	Index  int     // position in the species list the grid was built from
	DX, DY float64 // delta from query origin
	DistSq float64
}

type gridEntry struct {
	index int
	x, y  float64
}

// SpatialGrid buckets one species list into square cells for radius queries.
// The world is bounded, so there is no wraparound.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]gridEntry
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds list entry index at the given position.
func (g *SpatialGrid) Insert(index int, x, y float64) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridEntry{index: index, x: x, y: y})
}

// QueryRadiusInto appends every entry strictly closer than radius to (x, y) to dst
// and returns it.
// Reuse dst across calls to avoid allocations. Order is by cell, not by index.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float64) []Neighbor {
	if radius < 0 {
		return dst
	}
	radiusSq := radius * radius

	minCol, minRow := g.cell(x-radius, y-radius)
	maxCol, maxRow := g.cell(x+radius, y+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				dx := e.x - x
				dy := e.y - y
				distSq := dx*dx + dy*dy
				if distSq < radiusSq {
					dst = append(dst, Neighbor{Index: e.index, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// Nearest returns the neighbor with the smallest distance, breaking ties by the
// lowest list index, and whether any neighbor passed accept.
// Nil accept admits every neighbor.
func Nearest(neighbors []Neighbor, accept func(index int) bool) (Neighbor, bool) {
	var best Neighbor
	found := false
	for _, n := range neighbors {
		if accept != nil && !accept(n.Index) {
			continue
		}
		if !found || n.DistSq < best.DistSq || (n.DistSq == best.DistSq && n.Index < best.Index) {
			best = n
			found = true
		}
	}
	return best, found
}

// FirstWithin returns the neighbor with the lowest list index whose squared
// distance is strictly below rangeSq, and whether one passed accept.
func FirstWithin(neighbors []Neighbor, rangeSq float64, accept func(index int) bool) (Neighbor, bool) {
	var best Neighbor
	found := false
	for _, n := range neighbors {
		if n.DistSq >= rangeSq {
			continue
		}
		if accept != nil && !accept(n.Index) {
			continue
		}
		if !found || n.Index < best.Index {
			best = n
			found = true
		}
	}
	return best, found
}

// cell returns the clamped column and row for a world position.
func (g *SpatialGrid) cell(x, y float64) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	if x < 0 {
		col = 0
	}
	if y < 0 {
		row = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
