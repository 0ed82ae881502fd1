package telemetry

import "log/slog"

// PopulationSample is one entry of the per-tick population history.
type PopulationSample struct {
	Tick      int32 `csv:"tick"`
	Predators int   `csv:"predators"`
	Prey      int   `csv:"prey"`
	Plants    int   `csv:"plants"`
}

// Total returns the number of agents across all species.
func (p PopulationSample) Total() int {
	return p.Predators + p.Prey + p.Plants
}

// PopulationSummary condenses a population history.
type PopulationSummary struct {
	Ticks     int32
	Final     PopulationSample
	PeakTotal int
	PeakTick  int32
	MinPred   int
	MinPrey   int
	// First tick at which predators or prey reached zero, 0 if both survived
	CollapseTick int32
}

// LogValue implements slog.LogValuer for structured logging.
func (s PopulationSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", int(s.Ticks)),
		slog.Int("final_predators", s.Final.Predators),
		slog.Int("final_prey", s.Final.Prey),
		slog.Int("final_plants", s.Final.Plants),
		slog.Int("peak_total", s.PeakTotal),
		slog.Int("peak_tick", int(s.PeakTick)),
		slog.Int("min_predators", s.MinPred),
		slog.Int("min_prey", s.MinPrey),
		slog.Int("collapse_tick", int(s.CollapseTick)),
	)
}

// SummarizePopulation scans a history in tick order.
func SummarizePopulation(history []PopulationSample) PopulationSummary {
	var s PopulationSummary
	if len(history) == 0 {
		return s
	}

	s.MinPred = history[0].Predators
	s.MinPrey = history[0].Prey
	for _, p := range history {
		if total := p.Total(); total > s.PeakTotal {
			s.PeakTotal = total
			s.PeakTick = p.Tick
		}
		s.MinPred = min(s.MinPred, p.Predators)
		s.MinPrey = min(s.MinPrey, p.Prey)
		if s.CollapseTick == 0 && (p.Predators == 0 || p.Prey == 0) {
			s.CollapseTick = p.Tick
		}
	}

	s.Final = history[len(history)-1]
	s.Ticks = s.Final.Tick
	return s
}
