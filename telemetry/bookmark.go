package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkExtinction       BookmarkType = "extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum predator count in recent history
	recentPreyPeak     int // peak prey count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	predExtinct        bool
	preyExtinct        bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkHuntBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	// Track predator minimum and prey peak
	if stats.PredCount < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.PredCount
	}
	if stats.PreyCount > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.PreyCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

// checkExtinction fires once per species when its count first reaches zero.
func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var out []Bookmark
	if stats.PredCount == 0 && !bd.predExtinct {
		bd.predExtinct = true
		out = append(out, Bookmark{
			Type:        BookmarkExtinction,
			Tick:        stats.WindowEndTick,
			Description: "Predators went extinct",
		})
	}
	if stats.PreyCount == 0 && !bd.preyExtinct {
		bd.preyExtinct = true
		out = append(out, Bookmark{
			Type:        BookmarkExtinction,
			Tick:        stats.WindowEndTick,
			Description: "Prey went extinct",
		})
	}
	return out
}

func (bd *BookmarkDetector) checkHuntBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	// Rolling average of kills per predator
	var total float64
	for _, h := range history {
		total += h.KillsPerPred
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	c := bd.cfg.HuntBreakthrough
	if stats.KillsPerPred > avg*c.Multiplier && stats.Kills >= c.MinKills {
		return &Bookmark{
			Type:        BookmarkHuntBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kills per predator %.2f is %.1fx average (%.2f)", stats.KillsPerPred, stats.KillsPerPred/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	c := bd.cfg.PredatorRecovery
	if bd.recentPredMin == 0 || bd.recentPredMin > c.MinPopulation {
		return nil
	}

	threshold := bd.recentPredMin * c.RecoveryMultiplier
	if stats.PredCount >= threshold && stats.PredCount >= c.MinFinal {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.PredCount

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.PredCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	c := bd.cfg.PreyCrash
	dropPercent := 1.0 - float64(stats.PreyCount)/float64(bd.recentPreyPeak)
	if dropPercent > c.DropPercent && stats.PreyCount < bd.recentPreyPeak-c.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.PreyCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.PreyCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	c := bd.cfg.StableEcosystem

	// Need both populations present
	if stats.PreyCount < c.MinPrey || stats.PredCount < c.MinPred {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	preyCounts := make([]float64, len(recent))
	predCounts := make([]float64, len(recent))
	for i, h := range recent {
		preyCounts[i] = float64(h.PreyCount)
		predCounts[i] = float64(h.PredCount)
	}

	if cv(preyCounts) < c.CVThreshold && cv(predCounts) < c.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == c.StableWindows { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d+ windows", stats.PreyCount, stats.PredCount, c.StableWindows),
		}
	}

	return nil
}

// cv returns the coefficient of variation (population std / mean).
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
