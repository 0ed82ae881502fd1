package telemetry

import "testing"

func TestSummarizePopulation(t *testing.T) {
	history := []PopulationSample{
		{Tick: 1, Predators: 10, Prey: 50, Plants: 70},
		{Tick: 2, Predators: 12, Prey: 60, Plants: 72},
		{Tick: 3, Predators: 4, Prey: 20, Plants: 90},
		{Tick: 4, Predators: 0, Prey: 25, Plants: 95},
		{Tick: 5, Predators: 0, Prey: 30, Plants: 80},
	}

	s := SummarizePopulation(history)

	if s.Ticks != 5 || s.Final != history[4] {
		t.Errorf("final = tick %d %+v, want tick 5 %+v", s.Ticks, s.Final, history[4])
	}
	if s.PeakTotal != 144 || s.PeakTick != 2 {
		t.Errorf("peak = %d at %d, want 144 at 2", s.PeakTotal, s.PeakTick)
	}
	if s.MinPred != 0 || s.MinPrey != 20 {
		t.Errorf("minimums = %d/%d, want 0/20", s.MinPred, s.MinPrey)
	}
	if s.CollapseTick != 4 {
		t.Errorf("collapse tick = %d, want 4", s.CollapseTick)
	}
}

func TestSummarizePopulation_Empty(t *testing.T) {
	if s := SummarizePopulation(nil); s != (PopulationSummary{}) {
		t.Errorf("summary of empty history = %+v, want zero", s)
	}
}
