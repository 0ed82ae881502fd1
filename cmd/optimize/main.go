// Command optimize searches for simulation parameters under which predators
// and prey coexist for as long as possible.
//
// Each candidate is scored by running several seeds headless and averaging a
// coexistence fitness (see FitnessEvaluator). The best candidate is written as a
// full config and replayed once so its population history can be inspected.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
)

// evalRecord is one row of evals.csv.
type evalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	SurvivalTicks float64 `csv:"survival_ticks"`
	Quality       float64 `csv:"quality"`
	Improved      bool    `csv:"improved"`
}

// evalLog appends evalRecords to a CSV file, writing the header once.
type evalLog struct {
	f       *os.File
	started bool
}

func (l *evalLog) write(r evalRecord) error {
	rows := []evalRecord{r}
	if !l.started {
		l.started = true
		return gocsv.Marshal(rows, l.f)
	}
	return gocsv.MarshalWithoutHeaders(rows, l.f)
}

// search tracks the best candidate seen across all evaluations. CMA-ES only
// reports its final mean, which is not necessarily the best sample.
type search struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       *evalLog
	maxEvals  int

	evals       int
	bestFitness float64
	best        []float64 // raw, clamped
	start       time.Time
}

// objective evaluates a normalized candidate and records it.
func (s *search) objective(x []float64) float64 {
	raw := s.params.Clamp(s.params.Denormalize(x))
	fitness := s.evaluator.Evaluate(raw)
	survival, quality := s.evaluator.Last()
	s.evals++

	improved := fitness < s.bestFitness
	if improved {
		s.bestFitness = fitness
		s.best = raw
	}

	if err := s.log.write(evalRecord{
		Eval:          s.evals,
		Fitness:       fitness,
		SurvivalTicks: survival,
		Quality:       quality,
		Improved:      improved,
	}); err != nil {
		slog.Error("failed to write eval log", "error", err)
	}

	elapsed := time.Since(s.start)
	eta := elapsed / time.Duration(s.evals) * time.Duration(max(s.maxEvals-s.evals, 0))
	slog.Info("eval",
		"eval", s.evals,
		"max_evals", s.maxEvals,
		"survival_ticks", int(survival),
		"quality", quality,
		"improved", improved,
		"elapsed", elapsed.Round(time.Second).String(),
		"eta", eta.Round(time.Second).String(),
	)
	if improved {
		s.logParams("new best", raw)
	}

	return fitness
}

func (s *search) logParams(msg string, raw []float64) {
	attrs := make([]any, 0, 2*len(raw))
	for i, spec := range s.params.Specs {
		attrs = append(attrs, spec.Name, raw[i])
	}
	slog.Info(msg, attrs...)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 20000, "Ticks per run when both species survive")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation, run in parallel")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = 4 + 3 ln n)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(*configPath, *outputDir, *maxTicks, *seeds, *maxEvals, *population); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks, seeds, maxEvals, population int) error {
	if outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(maxTicks), evalSeeds, config.Cfg())

	f, err := os.Create(filepath.Join(outputDir, "evals.csv"))
	if err != nil {
		return fmt.Errorf("creating eval log: %w", err)
	}
	defer f.Close()

	s := &search{
		params:      params,
		evaluator:   evaluator,
		log:         &evalLog{f: f},
		maxEvals:    maxEvals,
		bestFitness: math.Inf(1),
		start:       time.Now(),
	}

	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}

	slog.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", popSize,
		"max_evals", maxEvals,
		"seeds", seeds,
		"max_ticks", maxTicks,
	)

	// Evaluations run sequentially; each one already fans out over seeds
	_, err = optimize.Minimize(
		optimize.Problem{Func: s.objective},
		params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if s.best == nil {
		return fmt.Errorf("no evaluation completed")
	}

	slog.Info("optimization complete",
		"evals", s.evals,
		"best_fitness", s.bestFitness,
		"elapsed", time.Since(s.start).Round(time.Second).String(),
	)
	s.logParams("best parameters", s.best)

	// Replay the best candidate on the first seed with full CSV output
	replayDir := filepath.Join(outputDir, "best_run")
	history, cfg, err := evaluator.Replay(s.best, evalSeeds[0], replayDir)
	if err != nil {
		return fmt.Errorf("replaying best parameters: %w", err)
	}
	slog.Info("best run", "seed", evalSeeds[0], "dir", replayDir, "population", telemetry.SummarizePopulation(history))

	bestPath := filepath.Join(outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(bestPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", bestPath)
	return nil
}
