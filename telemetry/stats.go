package telemetry

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population counts at window end
	PredCount  int `csv:"pred"`
	PreyCount  int `csv:"prey"`
	PlantCount int `csv:"plants"`

	// Events during window
	PredBirths  int `csv:"pred_births"`
	PreyBirths  int `csv:"prey_births"`
	PlantBirths int `csv:"plant_births"`
	PredDeaths  int `csv:"pred_deaths"`
	PreyDeaths  int `csv:"prey_deaths"`
	PlantDeaths int `csv:"plant_deaths"`

	// Death causes and feeding
	Starved           int     `csv:"starved"`
	OutOfBounds       int     `csv:"out_of_bounds"`
	Kills             int     `csv:"kills"`
	KillsPerPred      float64 `csv:"kills_per_pred"`
	Grazes            int     `csv:"grazes"`
	PlantsGrazedOut   int     `csv:"plants_grazed_out"`
	PlacementFailures int     `csv:"placement_failures"`
	ObstacleHits      int     `csv:"obstacle_hits"`

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`

	PlantEnergyTotal float64 `csv:"plant_energy_total"`

	// Gene drift
	PredSpeedMean      float64 `csv:"pred_speed_mean"`
	PredSpeedStd       float64 `csv:"pred_speed_std"`
	PredPerceptionMean float64 `csv:"pred_perception_mean"`
	PredAggressionMean float64 `csv:"pred_aggression_mean"`
	PreySpeedMean      float64 `csv:"prey_speed_mean"`
	PreySpeedStd       float64 `csv:"prey_speed_std"`
	PreyPerceptionMean float64 `csv:"prey_perception_mean"`
	PreyAggressionMean float64 `csv:"prey_aggression_mean"`
}

// GeneSample holds raw gene values of one species at window end.
type GeneSample struct {
	MaxSpeed   []float64
	Perception []float64
	Aggression []float64
}

// Add appends one agent's genes.
func (g *GeneSample) Add(maxSpeed, perception, aggression float64) {
	g.MaxSpeed = append(g.MaxSpeed, maxSpeed)
	g.Perception = append(g.Perception, perception)
	g.Aggression = append(g.Aggression, aggression)
}

func (s *WindowStats) applyGenes(pred, prey GeneSample) {
	s.PredSpeedMean, s.PredSpeedStd = MeanStd(pred.MaxSpeed)
	s.PredPerceptionMean, _ = MeanStd(pred.Perception)
	s.PredAggressionMean, _ = MeanStd(pred.Aggression)
	s.PreySpeedMean, s.PreySpeedStd = MeanStd(prey.MaxSpeed)
	s.PreyPerceptionMean, _ = MeanStd(prey.Perception)
	s.PreyAggressionMean, _ = MeanStd(prey.Aggression)
}

// MeanStd returns the mean and sample standard deviation, or zeros for an empty
// slice. A single value has zero deviation.
func MeanStd(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean, std = stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "stats", s.attrs()...)
}

func (s WindowStats) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("pred", s.PredCount),
		slog.Int("prey", s.PreyCount),
		slog.Int("plants", s.PlantCount),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("plant_births", s.PlantBirths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("plant_deaths", s.PlantDeaths),
		slog.Int("starved", s.Starved),
		slog.Int("out_of_bounds", s.OutOfBounds),
		slog.Int("kills", s.Kills),
		slog.Float64("kills_per_pred", s.KillsPerPred),
		slog.Int("grazes", s.Grazes),
		slog.Int("plants_grazed_out", s.PlantsGrazedOut),
		slog.Int("placement_failures", s.PlacementFailures),
		slog.Int("obstacle_hits", s.ObstacleHits),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("prey_energy_p50", s.PreyEnergyP50),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("pred_energy_p50", s.PredEnergyP50),
		slog.Float64("plant_energy_total", s.PlantEnergyTotal),
		slog.Float64("pred_speed_mean", s.PredSpeedMean),
		slog.Float64("prey_speed_mean", s.PreySpeedMean),
	}
}
