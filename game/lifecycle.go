package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/traits"
)

// reproduce splits a well-fed predator or prey and queues a mutated child next to it.
func (g *Game) reproduce(a agent) {
	if !systems.CanReproduce(*a.energy, g.cfg.Reproduction.Threshold) {
		return
	}

	systems.SplitEnergy(a.energy)

	jitter := g.cfg.Reproduction.SpawnJitter
	x := a.pos.X + g.uniform(-jitter, jitter)
	y := a.pos.Y + g.uniform(-jitter, jitter)

	g.births = append(g.births, birth{
		species:    a.org.Species,
		x:          x,
		y:          y,
		genes:      traits.Mutate(a.genome.Genes, g.rng, g.mutationParams()),
		parentID:   a.org.ID,
		generation: a.org.Generation + 1,
	})
}

// seed splits a plant at its threshold and queues one child at a free spot nearby.
// The parent pays even when no spot is found.
func (g *Game) seed(a agent) {
	if !systems.ReadyToSeed(*a.energy, *g.floraMap.Get(a.entity)) {
		return
	}

	systems.SplitEnergy(a.energy)

	x, y, ok := systems.PlacePlant(g.rng, a.pos.X, a.pos.Y, g.placement(), g.obstacles)
	if !ok {
		g.collector.RecordPlacementFailure()
		return
	}

	g.births = append(g.births, birth{
		species:    components.SpeciesPlant,
		x:          x,
		y:          y,
		genes:      a.genome.Genes.Clone(),
		parentID:   a.org.ID,
		generation: a.org.Generation + 1,
	})
}

func (g *Game) placement() systems.Placement {
	return systems.Placement{
		Trials:    g.cfg.Flora.PlacementTrials,
		Spread:    g.cfg.Flora.Spread,
		Border:    g.cfg.Plant.Border,
		Clearance: g.cfg.Flora.ObstacleClearance,
		Width:     g.width,
		Height:    g.height,
	}
}

// commit removes agents that failed the alive check and adds queued births.
// Survivors keep their relative order and children are appended behind them.
func (g *Game) commit() {
	g.predators = g.sweep(g.predators)
	g.prey = g.sweep(g.prey)
	g.plants = g.sweep(g.plants)

	for _, b := range g.births {
		g.spawn(b)
		g.collector.RecordBirth(b.species)
	}
	g.births = g.births[:0]
}

// sweep filters list in place, removing dead entities from the world.
func (g *Game) sweep(list []ecs.Entity) []ecs.Entity {
	// First pass: record deaths while components are still readable
	var dead []ecs.Entity
	kept := list[:0]
	for _, e := range list {
		if g.alive(e) {
			kept = append(kept, e)
			continue
		}
		g.collector.RecordDeath(g.orgMap.Get(e).Species, g.deathCause(e))
		dead = append(dead, e)
	}

	// Second pass: remove entities
	for _, e := range dead {
		g.world.RemoveEntity(e)
	}

	return kept
}

// deathCause classifies why e failed the alive check.
func (g *Game) deathCause(e ecs.Entity) telemetry.DeathCause {
	org := g.orgMap.Get(e)
	switch {
	case org.Consumed:
		return telemetry.CausePredation
	case g.energyMap.Get(e).Value <= 0:
		if org.Species == components.SpeciesPlant {
			return telemetry.CauseGrazedOut
		}
		return telemetry.CauseStarvation
	default:
		return telemetry.CauseOutOfBounds
	}
}

// recordHistory appends this tick's population counts and logs extinctions.
func (g *Game) recordHistory() {
	sample := telemetry.PopulationSample{
		Tick:      g.tick,
		Predators: len(g.predators),
		Prey:      len(g.prey),
		Plants:    len(g.plants),
	}

	if n := len(g.history); n > 0 {
		prev := g.history[n-1]
		logExtinction(components.SpeciesPredator, prev.Predators, sample.Predators, g.tick)
		logExtinction(components.SpeciesPrey, prev.Prey, sample.Prey, g.tick)
		logExtinction(components.SpeciesPlant, prev.Plants, sample.Plants, g.tick)
	}

	g.history = append(g.history, sample)
}

func logExtinction(s components.Species, before, after int, tick int32) {
	if before > 0 && after == 0 {
		slog.Info("extinction", "species", s.String(), "tick", tick)
	}
}
