package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestPhotosynthesize(t *testing.T) {
	f := components.Flora{MaxEnergy: 100, ReproThreshold: 80}

	e := components.Energy{Value: 50}
	Photosynthesize(&e, f, 0.1)
	if math.Abs(e.Value-50.1) > 1e-9 {
		t.Errorf("energy = %v, want 50.1", e.Value)
	}

	e.Value = 99.95
	Photosynthesize(&e, f, 0.1)
	if e.Value != 100 {
		t.Errorf("energy = %v, want capped 100", e.Value)
	}
}

func TestReadyToSeed(t *testing.T) {
	f := components.Flora{MaxEnergy: 100, ReproThreshold: 80}
	if ReadyToSeed(components.Energy{Value: 79.9}, f) {
		t.Error("79.9 should be below threshold")
	}
	if !ReadyToSeed(components.Energy{Value: 80}, f) {
		t.Error("80 should reach threshold")
	}
}

func defaultPlacement() Placement {
	return Placement{Trials: 100, Spread: 50, Border: 10, Clearance: 20, Width: 400, Height: 300}
}

func TestPlacePlant_WithinSquareAndBorder(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := defaultPlacement()

	for i := 0; i < 500; i++ {
		x, y, ok := PlacePlant(rng, 200, 150, p, nil)
		if !ok {
			t.Fatal("open field placement should succeed")
		}
		if math.Abs(x-200) > 50 || math.Abs(y-150) > 50 {
			t.Fatalf("child at (%v, %v) outside 50-unit square", x, y)
		}
	}

	// Near a corner, children stay inside the border band
	for i := 0; i < 500; i++ {
		x, y, ok := PlacePlant(rng, 12, 12, p, nil)
		if !ok {
			continue
		}
		if x < 10 || y < 10 {
			t.Fatalf("child at (%v, %v) inside the border", x, y)
		}
	}
}

func TestPlacePlant_AvoidsObstacles(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	obs := Obstacle{X: 230, Y: 150, Radius: 15}
	ix := NewObstacleIndex([]Obstacle{obs})
	p := defaultPlacement()

	for i := 0; i < 500; i++ {
		x, y, ok := PlacePlant(rng, 200, 150, p, ix)
		if !ok {
			continue
		}
		if Distance(x, y, obs.X, obs.Y) < obs.Radius+p.Clearance {
			t.Fatalf("child at (%v, %v) within clearance of obstacle", x, y)
		}
	}
}

func TestPlacePlant_Infeasible(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// One obstacle swallows the whole reachable square
	ix := NewObstacleIndex([]Obstacle{{X: 200, Y: 150, Radius: 100}})

	if _, _, ok := PlacePlant(rng, 200, 150, defaultPlacement(), ix); ok {
		t.Error("placement should fail when every trial hits the obstacle")
	}
}
