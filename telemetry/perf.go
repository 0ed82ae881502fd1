package telemetry

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase identifies a timed section of a simulation tick.
type Phase uint8

// Tick phases in execution order. Commit time is shared by all three species commits.
const (
	PhasePlants Phase = iota
	PhasePredators
	PhasePrey
	PhaseCommit
	PhaseHistory
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"plants", "predators", "prey", "commit", "history", "telemetry"}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickTiming is the wall time of one tick split by phase.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps per-phase tick timings for the most recent window of ticks.
type PerfCollector struct {
	ring   []tickTiming
	next   int
	filled int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector over the last window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window)}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickTiming{}
	p.tickStart = time.Now()
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase < numPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// PerfStats summarizes the timing window.
type PerfStats struct {
	Ticks   int
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	P95Tick time.Duration

	// Share of total tick time per phase, in percent
	PhasePct [numPhases]float64

	TicksPerSecond float64
}

// Stats summarizes the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	if p.filled == 0 {
		return PerfStats{}
	}

	totals := make([]float64, p.filled)
	var phaseSum [numPhases]float64
	for i, t := range p.ring[:p.filled] {
		totals[i] = float64(t.total)
		for ph, d := range t.phases {
			phaseSum[ph] += float64(d)
		}
	}

	s := PerfStats{
		Ticks:   p.filled,
		AvgTick: time.Duration(stat.Mean(totals, nil)),
		MinTick: time.Duration(floats.Min(totals)),
		MaxTick: time.Duration(floats.Max(totals)),
	}

	sort.Float64s(totals)
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))

	if sum := floats.Sum(totals); sum > 0 {
		for ph := range phaseSum {
			s.PhasePct[ph] = phaseSum[ph] / sum * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return attrs
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	PlantsPct    float64 `csv:"plants_pct"`
	PredatorsPct float64 `csv:"predators_pct"`
	PreyPct      float64 `csv:"prey_pct"`
	CommitPct    float64 `csv:"commit_pct"`
	HistoryPct   float64 `csv:"history_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		P95TickUS:    s.P95Tick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		PlantsPct:    s.PhasePct[PhasePlants],
		PredatorsPct: s.PhasePct[PhasePredators],
		PreyPct:      s.PhasePct[PhasePrey],
		CommitPct:    s.PhasePct[PhaseCommit],
		HistoryPct:   s.PhasePct[PhaseHistory],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
