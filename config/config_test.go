package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.World.Width != 1100 || cfg.World.Height != 600 {
		t.Errorf("world = %gx%g, want 1100x600", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Population.Predators != 10 || cfg.Population.Prey != 50 || cfg.Population.Plants != 70 {
		t.Errorf("population = %+v", cfg.Population)
	}
	if cfg.Prey.Radius != 5 || cfg.Predator.Radius != 11 {
		t.Errorf("radii prey=%g predator=%g", cfg.Prey.Radius, cfg.Predator.Radius)
	}
	if cfg.Prey.EatRange != 15 || cfg.Prey.SeekPlant != 1.1 {
		t.Errorf("prey extras = %g, %g", cfg.Prey.EatRange, cfg.Prey.SeekPlant)
	}
	if cfg.Predator.SpeedMultiplier != 1.5 || cfg.Prey.SpeedMultiplier != 1.0 {
		t.Errorf("speed multipliers predator=%g prey=%g", cfg.Predator.SpeedMultiplier, cfg.Prey.SpeedMultiplier)
	}
	if math.Abs(cfg.Steering.MinDistance-1e-6) > 1e-12 {
		t.Errorf("min distance = %g, want 1e-6", cfg.Steering.MinDistance)
	}
	if cfg.Derived.CaptureRangeSq != 1 {
		t.Errorf("derived capture range sq = %g, want 1", cfg.Derived.CaptureRangeSq)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("world:\n  width: 400\nprey:\n  eat_range: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.World.Width != 400 {
		t.Errorf("width = %g, want 400", cfg.World.Width)
	}
	// Keys absent from the override keep their defaults
	if cfg.World.Height != 600 {
		t.Errorf("height = %g, want default 600", cfg.World.Height)
	}
	if cfg.Prey.EatRange != 30 {
		t.Errorf("eat_range = %g, want 30", cfg.Prey.EatRange)
	}
	if cfg.Prey.Radius != 5 {
		t.Errorf("inline prey radius = %g, want default 5", cfg.Prey.Radius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative height", func(c *Config) { c.World.Height = -5 }},
		{"no predators", func(c *Config) { c.Population.Predators = 0 }},
		{"no prey", func(c *Config) { c.Population.Prey = 0 }},
		{"no plants", func(c *Config) { c.Population.Plants = 0 }},
		{"negative obstacles", func(c *Config) { c.Population.Obstacles = -1 }},
		{"inverted obstacle radius", func(c *Config) { c.Obstacles.MaxRadius = 5 }},
		{"mutation rate above one", func(c *Config) { c.Mutation.Rate = 1.5 }},
		{"inverted gene range", func(c *Config) { c.Genes.Perception = Range{Min: 15, Max: 10} }},
		{"zero radius", func(c *Config) { c.Prey.Radius = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}

	t.Run("zero obstacles allowed", func(t *testing.T) {
		cfg, _ := Load("")
		cfg.Population.Obstacles = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Energy.GrazeGain = 33

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if reloaded.Energy.GrazeGain != 33 {
		t.Errorf("graze gain = %g, want 33", reloaded.Energy.GrazeGain)
	}
}
