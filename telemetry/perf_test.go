package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollector_PhaseShares(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePlants)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhasePrey)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("Ticks = %d, want 5", stats.Ticks)
	}
	if stats.AvgTick <= 0 || stats.TicksPerSecond <= 0 {
		t.Fatalf("expected positive timings, got %+v", stats)
	}
	if stats.PhasePct[PhasePrey] <= stats.PhasePct[PhasePlants] {
		t.Errorf("prey share %v%% should exceed plants share %v%%", stats.PhasePct[PhasePrey], stats.PhasePct[PhasePlants])
	}

	var sum float64
	for _, pct := range stats.PhasePct {
		sum += pct
	}
	if sum > 100+1e-6 {
		t.Errorf("phase shares sum to %v%%, want <= 100", sum)
	}
	if stats.PhasePct[PhaseCommit] != 0 {
		t.Errorf("untimed phase share = %v, want 0", stats.PhasePct[PhaseCommit])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 12; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseHistory)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("Ticks = %d, want window size 5", stats.Ticks)
	}
	if stats.MinTick > stats.P95Tick || stats.P95Tick > stats.MaxTick {
		t.Errorf("expected min <= p95 <= max, got %v %v %v", stats.MinTick, stats.P95Tick, stats.MaxTick)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats != (PerfStats{}) {
		t.Errorf("empty collector stats = %+v, want zero", stats)
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhasePlants, "plants"},
		{PhaseCommit, "commit"},
		{PhaseTelemetry, "telemetry"},
		{numPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	var s PerfStats
	s.AvgTick = 1500 * time.Microsecond
	s.P95Tick = 2 * time.Millisecond
	s.PhasePct[PhasePrey] = 42.5
	s.PhasePct[PhaseCommit] = 3
	s.TicksPerSecond = 666

	row := s.ToCSV(900)
	if row.WindowEnd != 900 {
		t.Errorf("WindowEnd = %d, want 900", row.WindowEnd)
	}
	if row.AvgTickUS != 1500 || row.P95TickUS != 2000 {
		t.Errorf("tick us = %d/%d, want 1500/2000", row.AvgTickUS, row.P95TickUS)
	}
	if math.Abs(row.PreyPct-42.5) > 1e-12 || row.CommitPct != 3 {
		t.Errorf("phase pct = %v/%v, want 42.5/3", row.PreyPct, row.CommitPct)
	}
	if row.PlantsPct != 0 {
		t.Errorf("untracked phase pct = %v, want 0", row.PlantsPct)
	}
}
