package telemetry

import (
	"testing"

	"github.com/pthm-cable/ecosim/config"
)

func newTestDetector(t *testing.T) *BookmarkDetector {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return NewBookmarkDetector(10, cfg.Bookmarks)
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := newTestDetector(t)

	// Add some history with low kill rate
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 300),
			PreyCount:     100,
			PredCount:     10,
			Kills:         2,
			KillsPerPred:  0.2,
		})
	}

	// Now add a window with high kill rate (>2x average)
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 1500,
		PreyCount:     100,
		PredCount:     10,
		Kills:         8,
		KillsPerPred:  0.8,
	})

	if !hasBookmark(bookmarks, BookmarkHuntBreakthrough) {
		t.Error("expected hunt_breakthrough bookmark")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := newTestDetector(t)

	// Build up prey population
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 300),
			PreyCount:     100,
			PredCount:     10,
		})
	}

	// Now crash prey population
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 1500,
		PreyCount:     50, // 50% drop
		PredCount:     10,
	})

	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := newTestDetector(t)

	// Predator population drops to critical level
	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 300),
			PreyCount:     100,
			PredCount:     2,
		})
	}

	// Predator recovers to 5x the minimum
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 1200,
		PreyCount:     100,
		PredCount:     10,
	})

	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := newTestDetector(t)

	fired := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 300),
			PreyCount:     100,
			PredCount:     20,
		})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("stable_ecosystem fired %d times, want exactly 1", fired)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newTestDetector(t)

	bd.Check(WindowStats{WindowEndTick: 300, PreyCount: 40, PredCount: 5})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 600, PreyCount: 40, PredCount: 0})
	if !hasBookmark(bookmarks, BookmarkExtinction) {
		t.Fatal("expected extinction bookmark when predators reach zero")
	}

	// Fires only once per species
	bookmarks = bd.Check(WindowStats{WindowEndTick: 900, PreyCount: 40, PredCount: 0})
	if hasBookmark(bookmarks, BookmarkExtinction) {
		t.Error("extinction bookmark repeated for the same species")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 1200, PreyCount: 0, PredCount: 0})
	if !hasBookmark(bookmarks, BookmarkExtinction) {
		t.Error("expected extinction bookmark when prey reach zero")
	}
}
