package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// ErrInvalidConfig is returned when the world cannot be initialized with the
// requested dimensions or founder counts.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Counts holds founder counts for Initialize.
type Counts struct {
	Predators int
	Prey      int
	Plants    int
	Obstacles int
}

// Options configures game initialization.
type Options struct {
	Seed          int64
	Config        *config.Config // nil uses config.Cfg()
	LogStats      bool
	StatsWindow   int    // ticks per telemetry window, 0 uses config
	OutputDir     string // empty disables CSV output
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	// Entity mappers per species archetype
	predMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Organism,
		components.Motion,
		components.Genome,
	]
	preyMapper *ecs.Map8[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Organism,
		components.Motion,
		components.Genome,
		components.Forage,
	]
	plantMapper *ecs.Map6[
		components.Position,
		components.Body,
		components.Energy,
		components.Organism,
		components.Genome,
		components.Flora,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	bodyMap   *ecs.Map[components.Body]
	energyMap *ecs.Map[components.Energy]
	orgMap    *ecs.Map[components.Organism]
	motionMap *ecs.Map[components.Motion]
	genomeMap *ecs.Map[components.Genome]
	forageMap *ecs.Map[components.Forage]
	floraMap  *ecs.Map[components.Flora]

	// Species lists in stable iteration order
	predators []ecs.Entity
	prey      []ecs.Entity
	plants    []ecs.Entity

	obstacles *systems.ObstacleIndex

	// Spatial indices, rebuilt per phase over the list they are named after
	predGrid  *systems.SpatialGrid
	preyGrid  *systems.SpatialGrid
	plantGrid *systems.SpatialGrid
	neighbors []systems.Neighbor

	// Births queued during a phase, applied at commit
	births []birth

	history []telemetry.PopulationSample

	tick          int32
	nextID        uint32
	width, height float64

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	historyWritten   int
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game and populates it from the configured world
// size and founder counts.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		rng:              rand.New(rand.NewSource(opts.Seed)),
		rngSeed:          opts.Seed,
		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	counts := Counts{
		Predators: cfg.Population.Predators,
		Prey:      cfg.Population.Prey,
		Plants:    cfg.Population.Plants,
		Obstacles: cfg.Population.Obstacles,
	}
	if err := g.Initialize(cfg.World.Width, cfg.World.Height, counts); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if om != nil {
		slog.Info("writing output", "dir", om.Dir())
	}
	if err := om.WriteConfig(g.cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	return g, nil
}

// Initialize discards any existing state and populates the world with obstacles
// and randomly placed founders.
func (g *Game) Initialize(width, height float64, counts Counts) error {
	switch {
	case width <= 0 || height <= 0:
		return fmt.Errorf("%w: world dimensions must be positive, got %gx%g", ErrInvalidConfig, width, height)
	case counts.Predators < 1:
		return fmt.Errorf("%w: predators must be at least 1, got %d", ErrInvalidConfig, counts.Predators)
	case counts.Prey < 1:
		return fmt.Errorf("%w: prey must be at least 1, got %d", ErrInvalidConfig, counts.Prey)
	case counts.Plants < 1:
		return fmt.Errorf("%w: plants must be at least 1, got %d", ErrInvalidConfig, counts.Plants)
	case counts.Obstacles < 0:
		return fmt.Errorf("%w: obstacles must not be negative, got %d", ErrInvalidConfig, counts.Obstacles)
	}

	g.reset(width, height)
	g.cfg.World.Width = width
	g.cfg.World.Height = height
	g.cfg.Population.Predators = counts.Predators
	g.cfg.Population.Prey = counts.Prey
	g.cfg.Population.Plants = counts.Plants
	g.cfg.Population.Obstacles = counts.Obstacles

	g.spawnObstacles(counts.Obstacles)
	g.spawnInitialPopulation(counts)

	slog.Info("world initialized",
		"seed", g.rngSeed,
		"width", width,
		"height", height,
		"predators", len(g.predators),
		"prey", len(g.prey),
		"plants", len(g.plants),
		"obstacles", g.obstacles.Len(),
	)
	return nil
}

// reset creates an empty world of the given size.
func (g *Game) reset(width, height float64) {
	world := ecs.NewWorld()

	g.world = world
	g.width = width
	g.height = height
	g.tick = 0
	g.nextID = 1
	g.predators = nil
	g.prey = nil
	g.plants = nil
	g.births = nil
	g.history = nil
	g.historyWritten = 0
	g.obstacles = systems.NewObstacleIndex(nil)

	g.predMapper = ecs.NewMap7[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Organism,
		components.Motion,
		components.Genome,
	](world)
	g.preyMapper = ecs.NewMap8[
		components.Position,
		components.Velocity,
		components.Body,
		components.Energy,
		components.Organism,
		components.Motion,
		components.Genome,
		components.Forage,
	](world)
	g.plantMapper = ecs.NewMap6[
		components.Position,
		components.Body,
		components.Energy,
		components.Organism,
		components.Genome,
		components.Flora,
	](world)

	g.posMap = ecs.NewMap[components.Position](world)
	g.velMap = ecs.NewMap[components.Velocity](world)
	g.bodyMap = ecs.NewMap[components.Body](world)
	g.energyMap = ecs.NewMap[components.Energy](world)
	g.orgMap = ecs.NewMap[components.Organism](world)
	g.motionMap = ecs.NewMap[components.Motion](world)
	g.genomeMap = ecs.NewMap[components.Genome](world)
	g.forageMap = ecs.NewMap[components.Forage](world)
	g.floraMap = ecs.NewMap[components.Flora](world)

	cell := g.cfg.Spatial.GridCellSize
	g.predGrid = systems.NewSpatialGrid(width, height, cell)
	g.preyGrid = systems.NewSpatialGrid(width, height, cell)
	g.plantGrid = systems.NewSpatialGrid(width, height, cell)
}

// Close flushes remaining history and closes output files.
func (g *Game) Close() error {
	if g.outputManager == nil {
		return nil
	}
	g.writeHistory()
	return g.outputManager.Close()
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Config returns the effective configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Width returns the world width.
func (g *Game) Width() float64 {
	return g.width
}

// Height returns the world height.
func (g *Game) Height() float64 {
	return g.height
}
