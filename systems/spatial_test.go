package systems

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestSpatialGrid_QueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const w, h = 300.0, 200.0

	type pt struct{ x, y float64 }
	points := make([]pt, 400)
	grid := NewSpatialGrid(w, h, 32)
	for i := range points {
		points[i] = pt{rng.Float64() * w, rng.Float64() * h}
		grid.Insert(i, points[i].x, points[i].y)
	}

	var buf []Neighbor
	for q := 0; q < 100; q++ {
		x, y := rng.Float64()*w, rng.Float64()*h
		radius := rng.Float64() * 80

		buf = grid.QueryRadiusInto(buf[:0], x, y, radius)
		got := make([]int, len(buf))
		for i, n := range buf {
			got[i] = n.Index
			if math.Abs(n.DistSq-(n.DX*n.DX+n.DY*n.DY)) > 1e-9 {
				t.Fatalf("DistSq inconsistent with delta for %+v", n)
			}
		}
		sort.Ints(got)

		var want []int
		for i, p := range points {
			if distanceSq(x, y, p.x, p.y) < radius*radius {
				want = append(want, i)
			}
		}

		if len(got) != len(want) {
			t.Fatalf("query %d: got %d neighbors, want %d", q, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("query %d: neighbor mismatch at %d: %d vs %d", q, i, got[i], want[i])
			}
		}
	}
}

func TestSpatialGrid_NoWrap(t *testing.T) {
	grid := NewSpatialGrid(100, 100, 10)
	grid.Insert(0, 99, 50)

	// A toroidal grid would report this neighbor across the left edge
	if got := grid.QueryRadiusInto(nil, 1, 50, 5); len(got) != 0 {
		t.Errorf("got %d neighbors across the edge, want 0", len(got))
	}
}

func TestSpatialGrid_RadiusIsExclusive(t *testing.T) {
	grid := NewSpatialGrid(100, 100, 10)
	grid.Insert(0, 53, 50)

	if got := grid.QueryRadiusInto(nil, 50, 50, 3); len(got) != 0 {
		t.Errorf("entry exactly at the radius was returned: %+v", got)
	}
	if got := grid.QueryRadiusInto(nil, 50, 50, 3.001); len(got) != 1 {
		t.Errorf("got %d neighbors just inside the radius, want 1", len(got))
	}
}

func TestSpatialGrid_Clear(t *testing.T) {
	grid := NewSpatialGrid(100, 100, 10)
	grid.Insert(0, 50, 50)
	grid.Clear()
	if got := grid.QueryRadiusInto(nil, 50, 50, 10); len(got) != 0 {
		t.Errorf("got %d neighbors after Clear, want 0", len(got))
	}
}

func TestNearest_TieBreaksByIndex(t *testing.T) {
	neighbors := []Neighbor{
		{Index: 7, DistSq: 4},
		{Index: 3, DistSq: 4},
		{Index: 5, DistSq: 9},
	}

	got, ok := Nearest(neighbors, nil)
	if !ok || got.Index != 3 {
		t.Errorf("Nearest = %+v (ok=%v), want index 3", got, ok)
	}

	got, ok = Nearest(neighbors, func(i int) bool { return i != 3 })
	if !ok || got.Index != 7 {
		t.Errorf("Nearest with filter = %+v, want index 7", got)
	}

	if _, ok := Nearest(neighbors, func(int) bool { return false }); ok {
		t.Error("Nearest should report nothing when every neighbor is rejected")
	}
}

func TestFirstWithin(t *testing.T) {
	neighbors := []Neighbor{
		{Index: 9, DistSq: 0.1},
		{Index: 4, DistSq: 0.81},
		{Index: 2, DistSq: 1.0}, // exactly at range: excluded
	}

	got, ok := FirstWithin(neighbors, 1.0, nil)
	if !ok || got.Index != 4 {
		t.Errorf("FirstWithin = %+v (ok=%v), want index 4", got, ok)
	}
}
