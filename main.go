package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 1000, "Stop after N ticks (0 = until an animal species dies out)")

	// World overrides (0 = use config)
	width := flag.Float64("width", 0, "World width")
	height := flag.Float64("height", 0, "World height")
	predators := flag.Int("predators", 0, "Initial predator count")
	prey := flag.Int("prey", 0, "Initial prey count")
	plants := flag.Int("plants", 0, "Initial plant count")
	obstacles := flag.Int("obstacles", -1, "Obstacle count (-1 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg().Clone()

	if *width > 0 {
		cfg.World.Width = *width
	}
	if *height > 0 {
		cfg.World.Height = *height
	}
	if *predators > 0 {
		cfg.Population.Predators = *predators
	}
	if *prey > 0 {
		cfg.Population.Prey = *prey
	}
	if *plants > 0 {
		cfg.Population.Plants = *plants
	}
	if *obstacles >= 0 {
		cfg.Population.Obstacles = *obstacles
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:        rngSeed,
		Config:      cfg,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		OutputDir:   *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"output_dir", *outputDir,
	)

	start := time.Now()
	for {
		g.Step()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
		if *maxTicks == 0 && (g.PredatorCount() == 0 || g.PreyCount() == 0) {
			slog.Info("animal species extinct", "tick", g.Tick())
			break
		}
	}

	slog.Info("simulation finished",
		"ticks", g.Tick(),
		"predators", g.PredatorCount(),
		"prey", g.PreyCount(),
		"plants", g.PlantCount(),
		"elapsed", time.Since(start).String(),
	)
}
