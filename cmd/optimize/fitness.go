package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu           sync.Mutex
	lastQuality  float64 // quality from most recent Evaluate call
	lastSurvival float64 // mean survival ticks from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 200,
	}
}

// Last returns the mean survival ticks and quality of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (survival, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival, fe.lastQuality
}

// Minimum viable population: if either animal species stays below this for
// extinctionGraceTicks consecutive ticks, it counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceTicks = 500
	warmupTicks          = 100
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	history       []telemetry.PopulationSample
	config        *config.Config // effective config of the run
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	quality  float64
	survival float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks: longer coexistence = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s, "")
			if err != nil {
				// Invalid parameters score as an immediate collapse
				results[idx] = seedResult{}
				return
			}
			results[idx] = seedResult{
				fitness:  fe.computeFitness(result),
				quality:  fe.computeQuality(result.windowStats),
				survival: float64(result.survivalTicks),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalSurvival float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalSurvival += r.survival
	}

	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSurvival = totalSurvival / n
	fe.mu.Unlock()

	return totalFitness / n
}

// Replay reruns one seed with the given raw parameters, writing CSV output to
// outputDir, and returns the run's population history and effective config.
func (fe *FitnessEvaluator) Replay(x []float64, seed int64, outputDir string) ([]telemetry.PopulationSample, *config.Config, error) {
	result, err := fe.runSimulation(x, seed, outputDir)
	if err != nil {
		return nil, nil, err
	}
	return result.history, result.config, nil
}

// runSimulation executes a single headless simulation run.
// Runs until functional extinction or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64, outputDir string) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:        seed,
		Config:      cfg,
		StatsWindow: fe.statsWindow,
		OutputDir:   outputDir,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		result.history = g.History()
		result.config = g.Config()
		g.Close()
	}()

	// Track how long each species has been below minimum viable population
	var preyBelow, predBelow int32

	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		prey := g.PreyCount()
		pred := g.PredatorCount()

		// Hard extinction: either species completely gone
		if prey == 0 || pred == 0 {
			result.survivalTicks = tick
			return result, nil
		}

		// Let population establish before checking functional extinction
		if tick < warmupTicks {
			continue
		}

		if prey < minViablePop {
			preyBelow++
		} else {
			preyBelow = 0
		}
		if pred < minViablePop {
			predBelow++
		} else {
			predBelow = 0
		}

		if preyBelow >= extinctionGraceTicks || predBelow >= extinctionGraceTicks {
			result.survivalTicks = tick
			return result, nil
		}
	}

	// Survived the full run
	result.survivalTicks = fe.maxTicks
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := fe.computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.30

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either species < this
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	valid := windows[qualityWarmupWindows:]

	var ratioSum, huntSum float64
	var ratioCount, huntCount int

	preyCounts := make([]float64, 0, len(valid))
	predCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.PreyCount < qualityMinPop || w.PredCount < qualityMinPop {
			continue
		}

		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))

		// Population ratio score, peaking at 5 prey per predator
		ratio := float64(w.PreyCount) / float64(w.PredCount)
		logErr := math.Log(ratio / 5.0)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		// Hunting activity: some kills per predator, not a massacre
		huntSum += math.Exp(-math.Pow((w.KillsPerPred-1.0)/1.0, 2))
		huntCount++
	}

	if ratioCount == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(ratioCount)

	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := cv(preyCounts)
		cvPred := cv(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	huntScore := huntSum / float64(huntCount)

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
