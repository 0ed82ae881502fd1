package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// agent bundles the component pointers of one entity for a single phase step.
// Pointers stay valid until the next commit, which is the only structural change.
type agent struct {
	entity ecs.Entity
	pos    *components.Position
	vel    *components.Velocity // nil for plants
	body   *components.Body
	energy *components.Energy
	org    *components.Organism
	motion *components.Motion // nil for plants
	genome *components.Genome
}

func (g *Game) agent(e ecs.Entity) agent {
	a := agent{
		entity: e,
		pos:    g.posMap.Get(e),
		body:   g.bodyMap.Get(e),
		energy: g.energyMap.Get(e),
		org:    g.orgMap.Get(e),
		genome: g.genomeMap.Get(e),
	}
	if a.org.Species.Mobile() {
		a.vel = g.velMap.Get(e)
		a.motion = g.motionMap.Get(e)
	}
	return a
}

// behavior is the per-species rule set run by a phase.
type behavior interface {
	// prepare rebuilds the spatial indices the phase reads.
	prepare(g *Game)
	// steer picks this tick's displacement. Only called for mobile species.
	steer(g *Game, a agent) systems.Step
	feed(g *Game, a agent)
	reproduce(g *Game, a agent)
}

var behaviors = [...]behavior{
	components.SpeciesPredator: predatorBehavior{},
	components.SpeciesPrey:     preyBehavior{},
	components.SpeciesPlant:    plantBehavior{},
}

type predatorBehavior struct{}

func (predatorBehavior) prepare(g *Game) {
	g.index(g.preyGrid, g.prey)
}

// steer pursues the nearest prey within perception, else wanders.
func (predatorBehavior) steer(g *Game, a agent) systems.Step {
	target, ok := g.nearest(g.preyGrid, g.prey, a.pos.X, a.pos.Y, a.motion.Perception)
	if !ok {
		return systems.RandomWalk(a.vel, g.rng, g.cfg.Steering.MaxTurn)
	}

	tp := g.posMap.Get(target)
	step, ok := systems.Seek(*a.pos, a.vel, tp.X, tp.Y, a.motion.MaxSpeed*a.motion.Aggression, g.cfg.Steering.MinDistance)
	if !ok {
		// Already on top of the target
		return systems.Step{}
	}
	return step
}

func (predatorBehavior) feed(g *Game, a agent) {
	g.hunt(a)
}

func (predatorBehavior) reproduce(g *Game, a agent) {
	g.reproduce(a)
}

type preyBehavior struct{}

func (preyBehavior) prepare(g *Game) {
	g.index(g.predGrid, g.predators)
	g.index(g.plantGrid, g.plants)
}

// steer flees the nearest visible predator, otherwise approaches the nearest
// plant within eat range, otherwise wanders.
func (preyBehavior) steer(g *Game, a agent) systems.Step {
	minDist := g.cfg.Steering.MinDistance

	if threat, ok := g.nearest(g.predGrid, g.predators, a.pos.X, a.pos.Y, a.motion.Perception); ok {
		tp := g.posMap.Get(threat)
		if step, ok := systems.Flee(*a.pos, a.vel, tp.X, tp.Y, a.motion.MaxSpeed*a.motion.Aggression, minDist); ok {
			return step
		}
		return systems.RandomWalk(a.vel, g.rng, g.cfg.Steering.MaxTurn)
	}

	forage := g.forageMap.Get(a.entity)
	if plant, ok := g.nearest(g.plantGrid, g.plants, a.pos.X, a.pos.Y, forage.EatRange); ok {
		pp := g.posMap.Get(plant)
		step, ok := systems.Seek(*a.pos, a.vel, pp.X, pp.Y, a.motion.MaxSpeed, minDist)
		if !ok {
			return systems.Step{}
		}
		return step
	}

	return systems.RandomWalk(a.vel, g.rng, g.cfg.Steering.MaxTurn)
}

func (preyBehavior) feed(g *Game, a agent) {
	g.graze(a)
}

func (preyBehavior) reproduce(g *Game, a agent) {
	g.reproduce(a)
}

type plantBehavior struct{}

func (plantBehavior) prepare(*Game) {}

func (plantBehavior) steer(*Game, agent) systems.Step {
	return systems.Step{}
}

// feed is photosynthesis.
func (plantBehavior) feed(g *Game, a agent) {
	systems.Photosynthesize(a.energy, *g.floraMap.Get(a.entity), g.cfg.Plant.Growth)
}

func (plantBehavior) reproduce(g *Game, a agent) {
	g.seed(a)
}
