package telemetry

import "github.com/pthm-cable/ecosim/components"

// DeathCause classifies why an agent left the world.
type DeathCause uint8

const (
	CauseStarvation DeathCause = iota // energy reached zero
	CauseOutOfBounds
	CausePredation
	CauseGrazedOut
)

// String returns the cause name used in logs.
func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseOutOfBounds:
		return "out_of_bounds"
	case CausePredation:
		return "predation"
	case CauseGrazedOut:
		return "grazed_out"
	default:
		return "unknown"
	}
}

const numSpecies = 3

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window, indexed by species
	births [numSpecies]int
	deaths [numSpecies]int

	starved           int
	outOfBounds       int
	kills             int
	grazes            int
	plantsGrazedOut   int
	placementFailures int
	obstacleHits      int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(s components.Species) {
	c.births[s]++
}

// RecordDeath records a removal and its cause.
func (c *Collector) RecordDeath(s components.Species, cause DeathCause) {
	c.deaths[s]++
	switch cause {
	case CauseStarvation:
		c.starved++
	case CauseOutOfBounds:
		c.outOfBounds++
	case CausePredation:
		c.kills++
	case CauseGrazedOut:
		c.plantsGrazedOut++
	}
}

// RecordGraze records a prey eating from a plant.
func (c *Collector) RecordGraze() {
	c.grazes++
}

// RecordPlacementFailure records a plant seeding attempt with no valid spot.
func (c *Collector) RecordPlacementFailure() {
	c.placementFailures++
}

// RecordObstacleHit records a mobile agent bouncing off an obstacle.
func (c *Collector) RecordObstacleHit() {
	c.obstacleHits++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Sample holds the population state read at window end.
type Sample struct {
	PredCount, PreyCount, PlantCount int
	PredEnergies, PreyEnergies       []float64
	PlantEnergyTotal                 float64
	PredGenes, PreyGenes             GeneSample
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	preyMean, preyP10, preyP50, preyP90 := ComputeEnergyStats(s.PreyEnergies)
	predMean, predP10, predP50, predP90 := ComputeEnergyStats(s.PredEnergies)

	var killsPerPred float64
	if s.PredCount > 0 {
		killsPerPred = float64(c.kills) / float64(s.PredCount)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		PredCount:  s.PredCount,
		PreyCount:  s.PreyCount,
		PlantCount: s.PlantCount,

		PredBirths:  c.births[components.SpeciesPredator],
		PreyBirths:  c.births[components.SpeciesPrey],
		PlantBirths: c.births[components.SpeciesPlant],
		PredDeaths:  c.deaths[components.SpeciesPredator],
		PreyDeaths:  c.deaths[components.SpeciesPrey],
		PlantDeaths: c.deaths[components.SpeciesPlant],

		Starved:           c.starved,
		OutOfBounds:       c.outOfBounds,
		Kills:             c.kills,
		KillsPerPred:      killsPerPred,
		Grazes:            c.grazes,
		PlantsGrazedOut:   c.plantsGrazedOut,
		PlacementFailures: c.placementFailures,
		ObstacleHits:      c.obstacleHits,

		PreyEnergyMean: preyMean,
		PreyEnergyP10:  preyP10,
		PreyEnergyP50:  preyP50,
		PreyEnergyP90:  preyP90,

		PredEnergyMean: predMean,
		PredEnergyP10:  predP10,
		PredEnergyP50:  predP50,
		PredEnergyP90:  predP90,

		PlantEnergyTotal: s.PlantEnergyTotal,
	}
	stats.applyGenes(s.PredGenes, s.PreyGenes)

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = [numSpecies]int{}
	c.deaths = [numSpecies]int{}
	c.starved = 0
	c.outOfBounds = 0
	c.kills = 0
	c.grazes = 0
	c.plantsGrazedOut = 0
	c.placementFailures = 0
	c.obstacleHits = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}
