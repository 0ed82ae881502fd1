package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestMetabolize(t *testing.T) {
	e := components.Energy{Value: 100, Age: 4}
	Metabolize(&e, 0.2)

	if math.Abs(e.Value-99.8) > 1e-9 {
		t.Errorf("energy = %v, want 99.8", e.Value)
	}
	if e.Age != 5 {
		t.Errorf("age = %d, want 5", e.Age)
	}
}

func TestIsAlive(t *testing.T) {
	tests := []struct {
		name   string
		pos    components.Position
		energy float64
		want   bool
	}{
		{"healthy inside", components.Position{X: 10, Y: 10}, 5, true},
		{"on the edge", components.Position{X: 100, Y: 0}, 5, true},
		{"zero energy", components.Position{X: 10, Y: 10}, 0, false},
		{"negative energy", components.Position{X: 10, Y: 10}, -0.1, false},
		{"out of bounds x", components.Position{X: 100.5, Y: 10}, 5, false},
		{"out of bounds y", components.Position{X: 10, Y: -0.01}, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAlive(tt.pos, components.Energy{Value: tt.energy}, 100, 50)
			if got != tt.want {
				t.Errorf("IsAlive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanReproduce(t *testing.T) {
	if CanReproduce(components.Energy{Value: 200}, 200) {
		t.Error("energy equal to threshold should not reproduce")
	}
	if !CanReproduce(components.Energy{Value: 200.1}, 200) {
		t.Error("energy above threshold should reproduce")
	}
}

func TestSplitEnergy(t *testing.T) {
	e := components.Energy{Value: 250.5}
	SplitEnergy(&e)
	if e.Value != 125.25 {
		t.Errorf("energy = %v, want exactly half 125.25", e.Value)
	}
}

func TestGraze(t *testing.T) {
	plant := components.Energy{Value: 50}
	if Graze(&plant, 15) {
		t.Error("plant with 35 left should not be exhausted")
	}
	if plant.Value != 35 {
		t.Errorf("plant energy = %v, want 35", plant.Value)
	}

	plant.Value = 15
	if !Graze(&plant, 15) {
		t.Error("plant reduced to exactly 0 should be exhausted")
	}
}
