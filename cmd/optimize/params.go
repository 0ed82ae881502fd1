// Package main provides CMA-ES optimization for ecosim simulation parameters.
package main

import (
	"github.com/pthm-cable/ecosim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Energy
			{Name: "metabolism", Path: "energy.metabolism", Min: 0.05, Max: 0.5, Default: 0.2},
			{Name: "predation_gain", Path: "energy.predation_gain", Min: 40, Max: 200, Default: 100},
			{Name: "capture_range", Path: "energy.capture_range", Min: 0.5, Max: 12, Default: 1.0},
			{Name: "graze_range", Path: "energy.graze_range", Min: 0.5, Max: 10, Default: 1.0},
			{Name: "graze_gain", Path: "energy.graze_gain", Min: 5, Max: 40, Default: 20},
			{Name: "graze_damage", Path: "energy.graze_damage", Min: 5, Max: 30, Default: 15},
			// Reproduction
			{Name: "repro_threshold", Path: "reproduction.threshold", Min: 120, Max: 300, Default: 200},
			// Plants
			{Name: "plant_growth", Path: "plant.growth", Min: 0.05, Max: 1.0, Default: 0.1},
			{Name: "plant_repro_threshold", Path: "plant.repro_threshold", Min: 55, Max: 100, Default: 80},
			// Locomotion
			{Name: "pred_speed_mult", Path: "predator.speed_multiplier", Min: 0.8, Max: 2.0, Default: 1.5},
			{Name: "pred_perception_mult", Path: "predator.perception_multiplier", Min: 1.0, Max: 5.0, Default: 1.5},
			{Name: "prey_perception_mult", Path: "prey.perception_multiplier", Min: 1.0, Max: 5.0, Default: 1.0},
			// Mutation
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.0, Max: 0.3, Default: 0.05},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and refreshes
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0

	cfg.Energy.Metabolism = clamped[i]; i++
	cfg.Energy.PredationGain = clamped[i]; i++
	cfg.Energy.CaptureRange = clamped[i]; i++
	cfg.Energy.GrazeRange = clamped[i]; i++
	cfg.Energy.GrazeGain = clamped[i]; i++
	cfg.Energy.GrazeDamage = clamped[i]; i++

	cfg.Reproduction.Threshold = clamped[i]; i++

	cfg.Plant.Growth = clamped[i]; i++
	cfg.Plant.ReproThreshold = clamped[i]; i++

	cfg.Predator.SpeedMultiplier = clamped[i]; i++
	cfg.Predator.PerceptionMultiplier = clamped[i]; i++
	cfg.Prey.PerceptionMultiplier = clamped[i]; i++

	cfg.Mutation.Rate = clamped[i]

	cfg.Refresh()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Energy.Metabolism,
		cfg.Energy.PredationGain,
		cfg.Energy.CaptureRange,
		cfg.Energy.GrazeRange,
		cfg.Energy.GrazeGain,
		cfg.Energy.GrazeDamage,
		cfg.Reproduction.Threshold,
		cfg.Plant.Growth,
		cfg.Plant.ReproThreshold,
		cfg.Predator.SpeedMultiplier,
		cfg.Predator.PerceptionMultiplier,
		cfg.Prey.PerceptionMultiplier,
		cfg.Mutation.Rate,
	}
}
