package traits

import (
	"math"
	"math/rand"
	"testing"
)

var defaultRanges = FounderRanges{
	MaxSpeed:         Range{1.2, 2.0},
	Perception:       Range{10, 15},
	Aggression:       Range{0.5, 2.0},
	ReproductionRate: Range{0.5, 2.0},
}

var defaultMutation = MutationParams{Rate: 0.05, MinFactor: 0.8, MaxFactor: 1.2}

func TestFounderWithinRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		g := Founder(rng, defaultRanges)
		checks := []struct {
			name string
			r    Range
		}{
			{MaxSpeed, defaultRanges.MaxSpeed},
			{Perception, defaultRanges.Perception},
			{Aggression, defaultRanges.Aggression},
			{ReproductionRate, defaultRanges.ReproductionRate},
		}
		for _, c := range checks {
			v, ok := g[c.name]
			if !ok {
				t.Fatalf("founder missing %s", c.name)
			}
			if v < c.r.Min || v > c.r.Max {
				t.Fatalf("%s = %v outside [%v, %v]", c.name, v, c.r.Min, c.r.Max)
			}
		}
		if g.Has(Radius) {
			t.Fatal("founder should not carry a radius gene")
		}
	}
}

func TestGetFallback(t *testing.T) {
	g := Genes{EatRange: 22}
	if got := g.Get(EatRange, 15); got != 22 {
		t.Errorf("Get(eat_range) = %v, want 22", got)
	}
	if got := g.Get(SeekPlant, 1.1); got != 1.1 {
		t.Errorf("Get(seek_plant) = %v, want fallback 1.1", got)
	}
}

func TestMutateIdenticalOrScaled(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	parent := Founder(rng, defaultRanges)
	parent[EatRange] = 15

	for i := 0; i < 5000; i++ {
		child := Mutate(parent, rng, defaultMutation)
		if len(child) != len(parent) {
			t.Fatalf("child has %d traits, parent %d", len(child), len(parent))
		}
		for name, pv := range parent {
			cv := child[name]
			if cv == pv {
				continue
			}
			factor := cv / pv
			if factor < 0.8-1e-12 || factor > 1.2+1e-12 {
				t.Fatalf("%s scaled by %v, want factor in [0.8, 1.2]", name, factor)
			}
			if cv <= 0 {
				t.Fatalf("%s became non-positive: %v", name, cv)
			}
		}
	}
}

func TestMutateDoesNotTouchParent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	parent := Genes{MaxSpeed: 1.5, Perception: 12}
	before := parent.Clone()

	// Rate 1 forces every trait to mutate
	Mutate(parent, rng, MutationParams{Rate: 1, MinFactor: 0.8, MaxFactor: 1.2})

	for name, v := range before {
		if parent[name] != v {
			t.Errorf("parent %s changed from %v to %v", name, v, parent[name])
		}
	}
}

func TestMutationRateConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	parent := Founder(rng, defaultRanges)

	const trials = 20000
	changed := 0
	total := 0
	for i := 0; i < trials; i++ {
		child := Mutate(parent, rng, defaultMutation)
		for name, pv := range parent {
			total++
			if child[name] != pv {
				changed++
			}
		}
	}

	rate := float64(changed) / float64(total)
	if math.Abs(rate-0.05) > 0.005 {
		t.Errorf("observed mutation rate %.4f, want ~0.05", rate)
	}
}

func TestMutateDeterministicForSeed(t *testing.T) {
	parent := Genes{MaxSpeed: 1.5, Perception: 12, Aggression: 1, ReproductionRate: 1}
	p := MutationParams{Rate: 0.5, MinFactor: 0.8, MaxFactor: 1.2}

	a := Mutate(parent, rand.New(rand.NewSource(42)), p)
	b := Mutate(parent, rand.New(rand.NewSource(42)), p)
	for name := range parent {
		if a[name] != b[name] {
			t.Errorf("%s differs between identical seeds: %v vs %v", name, a[name], b[name])
		}
	}
}
