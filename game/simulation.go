package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// phaseOrder is the fixed species order within a tick.
var phaseOrder = [...]struct {
	species components.Species
	perf    telemetry.Phase
}{
	{components.SpeciesPlant, telemetry.PhasePlants},
	{components.SpeciesPredator, telemetry.PhasePredators},
	{components.SpeciesPrey, telemetry.PhasePrey},
}

// Step advances the simulation by exactly one tick.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	for _, p := range phaseOrder {
		g.perfCollector.StartPhase(p.perf)
		g.runPhase(p.species)

		g.perfCollector.StartPhase(telemetry.PhaseCommit)
		g.commit()
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseHistory)
	g.recordHistory()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// runPhase updates every living member of one species. Births and removals are
// deferred to commit, so the list is stable for the whole phase.
func (g *Game) runPhase(s components.Species) {
	b := behaviors[s]
	b.prepare(g)

	for _, e := range *g.list(s) {
		// Agents killed earlier in the phase are skipped
		if !g.alive(e) {
			continue
		}

		a := g.agent(e)
		if s.Mobile() {
			g.move(a, b)
		}
		b.feed(g, a)
		g.metabolize(a)
		b.reproduce(g, a)
	}
}

// list returns the species list for s.
func (g *Game) list(s components.Species) *[]ecs.Entity {
	switch s {
	case components.SpeciesPredator:
		return &g.predators
	case components.SpeciesPrey:
		return &g.prey
	default:
		return &g.plants
	}
}

// move bounces off walls, steers, commits the step against obstacles and settles
// the result back inside the walls.
func (g *Game) move(a agent, b behavior) {
	systems.BounceWalls(a.pos, a.vel, a.body.Radius, g.width, g.height)

	step := b.steer(g, a)
	if systems.Move(a.pos, a.vel, a.body.Radius, step, g.obstacles, g.cfg.Collision.Pushback) >= 0 {
		g.collector.RecordObstacleHit()
	}

	systems.SettleInsideWalls(a.pos, a.body.Radius, g.width, g.height, g.obstacles, g.cfg.Collision.Pushback)
}

// metabolize charges upkeep for fauna. Plants only age.
func (g *Game) metabolize(a agent) {
	if a.org.Species.Mobile() {
		systems.Metabolize(a.energy, g.cfg.Energy.Metabolism)
		return
	}
	a.energy.Age++
}

// hunt consumes the first prey (lowest list index) strictly inside capture range.
func (g *Game) hunt(a agent) {
	prey, ok := g.firstWithin(g.preyGrid, g.prey, a.pos.X, a.pos.Y, g.cfg.Energy.CaptureRange, g.cfg.Derived.CaptureRangeSq)
	if !ok {
		return
	}

	// Consumed prey fail every later alive check this tick
	g.orgMap.Get(prey).Consumed = true
	systems.Feed(a.energy, g.cfg.Energy.PredationGain)
}

// graze eats from the first plant (lowest list index) strictly inside graze range.
func (g *Game) graze(a agent) {
	plant, ok := g.firstWithin(g.plantGrid, g.plants, a.pos.X, a.pos.Y, g.cfg.Energy.GrazeRange, g.cfg.Derived.GrazeRangeSq)
	if !ok {
		return
	}

	systems.Feed(a.energy, g.cfg.Energy.GrazeGain)
	systems.Graze(g.energyMap.Get(plant), g.cfg.Energy.GrazeDamage)
	g.collector.RecordGraze()
}

// alive reports whether e still belongs to the simulation.
func (g *Game) alive(e ecs.Entity) bool {
	if !g.world.Alive(e) {
		return false
	}
	if g.orgMap.Get(e).Consumed {
		return false
	}
	return systems.IsAlive(*g.posMap.Get(e), *g.energyMap.Get(e), g.width, g.height)
}

// index rebuilds grid over the living members of list, keyed by list index.
func (g *Game) index(grid *systems.SpatialGrid, list []ecs.Entity) {
	grid.Clear()
	for i, e := range list {
		if !g.alive(e) {
			continue
		}
		pos := g.posMap.Get(e)
		grid.Insert(i, pos.X, pos.Y)
	}
}

// nearest returns the closest living member of list within radius of (x, y).
func (g *Game) nearest(grid *systems.SpatialGrid, list []ecs.Entity, x, y, radius float64) (ecs.Entity, bool) {
	g.neighbors = grid.QueryRadiusInto(g.neighbors[:0], x, y, radius)
	n, ok := systems.Nearest(g.neighbors, func(i int) bool { return g.alive(list[i]) })
	if !ok {
		return ecs.Entity{}, false
	}
	return list[n.Index], true
}

// firstWithin returns the living member of list with the lowest index strictly
// closer than sqrt(rangeSq) to (x, y).
func (g *Game) firstWithin(grid *systems.SpatialGrid, list []ecs.Entity, x, y, radius, rangeSq float64) (ecs.Entity, bool) {
	g.neighbors = grid.QueryRadiusInto(g.neighbors[:0], x, y, radius)
	n, ok := systems.FirstWithin(g.neighbors, rangeSq, func(i int) bool { return g.alive(list[i]) })
	if !ok {
		return ecs.Entity{}, false
	}
	return list[n.Index], true
}
