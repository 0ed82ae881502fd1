// Package traits defines the heritable gene vector and its mutation operator.
package traits

import (
	"maps"
	"math/rand"
	"slices"
)

// Gene names.
const (
	MaxSpeed         = "max_speed"
	Perception       = "perception"
	Aggression       = "aggression"
	ReproductionRate = "reproduction_rate"

	// Species extras, read with a fallback when absent.
	EatRange       = "eat_range"
	SeekPlant      = "seek_plant"
	ReproThreshold = "repro_thresh"
	Radius         = "radius"
)

// Genes maps trait names to strictly positive values.
// A Genes value is never modified after creation; Mutate returns a copy.
type Genes map[string]float64

// Get returns the named trait, or fallback if the vector does not carry it.
func (g Genes) Get(name string, fallback float64) float64 {
	if v, ok := g[name]; ok {
		return v
	}
	return fallback
}

// Has reports whether the vector carries the named trait.
func (g Genes) Has(name string) bool {
	_, ok := g[name]
	return ok
}

// Clone returns an independent copy.
func (g Genes) Clone() Genes {
	return maps.Clone(g)
}

// Names returns the trait names in sorted order.
// Iterating in this order keeps rng consumption reproducible for a given seed.
func (g Genes) Names() []string {
	return slices.Sorted(maps.Keys(g))
}

// Range is a closed sampling interval.
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// FounderRanges holds the sampling interval of each core trait.
type FounderRanges struct {
	MaxSpeed         Range
	Perception       Range
	Aggression       Range
	ReproductionRate Range
}

// Founder samples a fresh gene vector, each trait independently and uniformly.
func Founder(rng *rand.Rand, r FounderRanges) Genes {
	return Genes{
		MaxSpeed:         r.MaxSpeed.sample(rng),
		Perception:       r.Perception.sample(rng),
		Aggression:       r.Aggression.sample(rng),
		ReproductionRate: r.ReproductionRate.sample(rng),
	}
}

// MutationParams controls Mutate.
type MutationParams struct {
	Rate      float64 // per-trait probability
	MinFactor float64
	MaxFactor float64
}

// Mutate returns a child vector: each trait is, with probability Rate, scaled by a
// factor drawn uniformly from [MinFactor, MaxFactor], and copied unchanged otherwise.
// Values are never clamped, so positive factors keep every trait positive.
func Mutate(parent Genes, rng *rand.Rand, p MutationParams) Genes {
	child := make(Genes, len(parent))
	for _, name := range parent.Names() {
		v := parent[name]
		if rng.Float64() < p.Rate {
			v *= p.MinFactor + rng.Float64()*(p.MaxFactor-p.MinFactor)
		}
		child[name] = v
	}
	return child
}
