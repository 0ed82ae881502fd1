// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/ecosim/traits"

// Species tags an agent's variant.
type Species uint8

const (
	SpeciesPredator Species = iota
	SpeciesPrey
	SpeciesPlant
)

// String returns the lowercase species name used in logs and CSV output.
func (s Species) String() string {
	switch s {
	case SpeciesPredator:
		return "predator"
	case SpeciesPrey:
		return "prey"
	case SpeciesPlant:
		return "plant"
	default:
		return "unknown"
	}
}

// Mobile reports whether agents of this species steer and collide.
func (s Species) Mobile() bool {
	return s != SpeciesPlant
}

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in world units per tick.
type Velocity struct {
	X, Y float64
}

// Body holds collision geometry.
type Body struct {
	Radius float64
}

// Energy holds the life signal and age.
type Energy struct {
	Value float64
	Age   int32 // ticks lived
}

// Organism holds identity and lineage.
type Organism struct {
	ID         uint32
	ParentID   uint32 // 0 for founders
	Species    Species
	Generation uint32
	Consumed   bool // eaten this tick; excluded from every later alive check
}

// Motion holds locomotion stats derived once from genes and species multipliers.
type Motion struct {
	MaxSpeed   float64
	Perception float64
	Aggression float64
}

// Genome holds the agent's immutable gene vector.
type Genome struct {
	Genes traits.Genes
}

// Forage holds prey plant-seeking parameters.
type Forage struct {
	EatRange  float64
	SeekPlant float64
}

// Flora holds plant growth parameters.
type Flora struct {
	MaxEnergy      float64
	ReproThreshold float64
}
