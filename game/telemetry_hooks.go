package game

import (
	"log/slog"

	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/traits"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		g.writeHistory()
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// writeHistory appends history samples not yet written to population.csv.
func (g *Game) writeHistory() {
	pending := g.history[g.historyWritten:]
	if err := g.outputManager.WritePopulation(pending); err != nil {
		slog.Error("failed to write population", "error", err)
		return
	}
	g.historyWritten = len(g.history)
}

// sample collects the population state the collector needs at window end.
func (g *Game) sample() telemetry.Sample {
	s := telemetry.Sample{
		PredCount:  len(g.predators),
		PreyCount:  len(g.prey),
		PlantCount: len(g.plants),
	}

	for _, e := range g.predators {
		s.PredEnergies = append(s.PredEnergies, g.energyMap.Get(e).Value)
		genes := g.genomeMap.Get(e).Genes
		s.PredGenes.Add(genes.Get(traits.MaxSpeed, 0), genes.Get(traits.Perception, 0), genes.Get(traits.Aggression, 0))
	}
	for _, e := range g.prey {
		s.PreyEnergies = append(s.PreyEnergies, g.energyMap.Get(e).Value)
		genes := g.genomeMap.Get(e).Genes
		s.PreyGenes.Add(genes.Get(traits.MaxSpeed, 0), genes.Get(traits.Perception, 0), genes.Get(traits.Aggression, 0))
	}
	for _, e := range g.plants {
		s.PlantEnergyTotal += g.energyMap.Get(e).Value
	}

	return s
}
