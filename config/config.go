// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Population   PopulationConfig   `yaml:"population"`
	Obstacles    ObstacleConfig     `yaml:"obstacles"`
	Genes        GenesConfig        `yaml:"genes"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Predator     FaunaConfig        `yaml:"predator"`
	Prey         PreyConfig         `yaml:"prey"`
	Plant        PlantConfig        `yaml:"plant"`
	Steering     SteeringConfig     `yaml:"steering"`
	Collision    CollisionConfig    `yaml:"collision"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Flora        FloraConfig        `yaml:"flora"`
	Spatial      SpatialConfig      `yaml:"spatial"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Bookmarks    BookmarksConfig    `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PopulationConfig holds founder counts.
type PopulationConfig struct {
	Predators int `yaml:"predators"`
	Prey      int `yaml:"prey"`
	Plants    int `yaml:"plants"`
	Obstacles int `yaml:"obstacles"`
}

// ObstacleConfig holds rock generation parameters.
type ObstacleConfig struct {
	MinRadius int     `yaml:"min_radius"` // inclusive integer draw
	MaxRadius int     `yaml:"max_radius"`
	Margin    float64 `yaml:"margin"` // centers lie in [margin, dim-margin]
}

// Range is a closed interval for uniform sampling.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// GenesConfig holds founder gene ranges.
type GenesConfig struct {
	MaxSpeed         Range `yaml:"max_speed"`
	Perception       Range `yaml:"perception"`
	Aggression       Range `yaml:"aggression"`
	ReproductionRate Range `yaml:"reproduction_rate"`
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate      float64 `yaml:"rate"`
	MinFactor float64 `yaml:"min_factor"`
	MaxFactor float64 `yaml:"max_factor"`
}

// FaunaConfig holds per-species parameters for mobile agents.
type FaunaConfig struct {
	Radius               float64 `yaml:"radius"`
	InitialEnergy        float64 `yaml:"initial_energy"`
	SpeedMultiplier      float64 `yaml:"speed_multiplier"`
	PerceptionMultiplier float64 `yaml:"perception_multiplier"`
}

// PreyConfig extends FaunaConfig with foraging defaults.
type PreyConfig struct {
	FaunaConfig `yaml:",inline"`
	EatRange    float64 `yaml:"eat_range"`  // fallback when the gene is absent
	SeekPlant   float64 `yaml:"seek_plant"` // fallback when the gene is absent
}

// PlantConfig holds plant parameters.
type PlantConfig struct {
	Radius         float64 `yaml:"radius"`
	InitialEnergy  float64 `yaml:"initial_energy"`
	MaxEnergy      float64 `yaml:"max_energy"`
	ReproThreshold float64 `yaml:"repro_threshold"` // fallback when the gene is absent
	Growth         float64 `yaml:"growth"`          // energy per tick
	Border         float64 `yaml:"border"`          // founders placed in [border, dim-border]
}

// SteeringConfig holds movement parameters.
type SteeringConfig struct {
	MaxTurn     float64 `yaml:"max_turn"`     // radians per tick during random walk
	MinDistance float64 `yaml:"min_distance"` // degenerate geometry threshold
}

// CollisionConfig holds obstacle response parameters.
type CollisionConfig struct {
	Pushback float64 `yaml:"pushback"` // fraction of agent radius kept clear of the surface
}

// EnergyConfig holds energy economics.
type EnergyConfig struct {
	Metabolism    float64 `yaml:"metabolism"`
	CaptureRange  float64 `yaml:"capture_range"`
	PredationGain float64 `yaml:"predation_gain"`
	GrazeRange    float64 `yaml:"graze_range"`
	GrazeGain     float64 `yaml:"graze_gain"`
	GrazeDamage   float64 `yaml:"graze_damage"`
}

// ReproductionConfig holds fauna reproduction parameters.
type ReproductionConfig struct {
	Threshold   float64 `yaml:"threshold"`
	SpawnJitter float64 `yaml:"spawn_jitter"`
}

// FloraConfig holds plant seeding parameters.
type FloraConfig struct {
	PlacementTrials   int     `yaml:"placement_trials"`
	Spread            float64 `yaml:"spread"`
	ObstacleClearance float64 `yaml:"obstacle_clearance"`
}

// SpatialConfig holds spatial index parameters.
type SpatialConfig struct {
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	HuntBreakthrough HuntBreakthroughConfig `yaml:"hunt_breakthrough"`
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	StableEcosystem  StableEcosystemConfig  `yaml:"stable_ecosystem"`
}

// HuntBreakthroughConfig holds hunt breakthrough detection parameters.
type HuntBreakthroughConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinKills   int     `yaml:"min_kills"`
}

// PredatorRecoveryConfig holds predator recovery detection parameters.
type PredatorRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPred       int     `yaml:"min_pred"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CaptureRangeSq float64
	GrazeRangeSq   float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a copy that can be modified without touching c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CaptureRangeSq = c.Energy.CaptureRange * c.Energy.CaptureRange
	c.Derived.GrazeRangeSq = c.Energy.GrazeRange * c.Energy.GrazeRange

	if c.Spatial.GridCellSize <= 0 {
		c.Spatial.GridCellSize = 32
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
}

// Refresh recomputes derived values after fields were edited in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world dimensions must be positive, got %gx%g", ErrInvalid, c.World.Width, c.World.Height)
	case c.Population.Predators < 1 || c.Population.Prey < 1 || c.Population.Plants < 1:
		return fmt.Errorf("%w: founder counts must be at least 1 (predators=%d prey=%d plants=%d)",
			ErrInvalid, c.Population.Predators, c.Population.Prey, c.Population.Plants)
	case c.Population.Obstacles < 0:
		return fmt.Errorf("%w: obstacle count must not be negative, got %d", ErrInvalid, c.Population.Obstacles)
	case c.Obstacles.MinRadius <= 0 || c.Obstacles.MaxRadius < c.Obstacles.MinRadius:
		return fmt.Errorf("%w: obstacle radius range [%d, %d]", ErrInvalid, c.Obstacles.MinRadius, c.Obstacles.MaxRadius)
	case c.Mutation.Rate < 0 || c.Mutation.Rate > 1:
		return fmt.Errorf("%w: mutation rate %g outside [0, 1]", ErrInvalid, c.Mutation.Rate)
	case c.Mutation.MinFactor <= 0 || c.Mutation.MaxFactor < c.Mutation.MinFactor:
		return fmt.Errorf("%w: mutation factor range [%g, %g]", ErrInvalid, c.Mutation.MinFactor, c.Mutation.MaxFactor)
	case c.Predator.Radius <= 0 || c.Prey.Radius <= 0 || c.Plant.Radius <= 0:
		return fmt.Errorf("%w: radii must be positive", ErrInvalid)
	case c.Reproduction.Threshold <= 0 || c.Plant.ReproThreshold <= 0:
		return fmt.Errorf("%w: reproduction thresholds must be positive", ErrInvalid)
	case c.Flora.PlacementTrials < 0:
		return fmt.Errorf("%w: placement trials must not be negative", ErrInvalid)
	}

	ranges := map[string]Range{
		"max_speed":         c.Genes.MaxSpeed,
		"perception":        c.Genes.Perception,
		"aggression":        c.Genes.Aggression,
		"reproduction_rate": c.Genes.ReproductionRate,
	}
	for name, r := range ranges {
		if r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("%w: gene range %s [%g, %g]", ErrInvalid, name, r.Min, r.Max)
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
