package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/config"
)

func TestNewOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir on nil = %q, want empty", om.Dir())
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om.Dir() != dir {
		t.Errorf("Dir = %q, want %q", om.Dir(), dir)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 300), PreyCount: 30}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WritePopulation([]PopulationSample{{Tick: 1, Predators: 2, Prey: 3, Plants: 4}}); err != nil {
		t.Fatalf("WritePopulation: %v", err)
	}
	if err := om.WritePopulation([]PopulationSample{{Tick: 2, Predators: 2, Prey: 3, Plants: 5}}); err != nil {
		t.Fatalf("WritePopulation: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,pred,prey") {
		t.Errorf("unexpected header %q", lines[0])
	}

	data, err = os.ReadFile(filepath.Join(dir, "population.csv"))
	if err != nil {
		t.Fatalf("reading population.csv: %v", err)
	}
	want := "tick,predators,prey,plants\n1,2,3,4\n2,2,3,5\n"
	if string(data) != want {
		t.Errorf("population.csv = %q, want %q", string(data), want)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}
