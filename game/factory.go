package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/traits"
)

// birth describes an agent waiting to be added to the world.
type birth struct {
	species    components.Species
	x, y       float64
	genes      traits.Genes
	parentID   uint32
	generation uint32
}

// founderRanges returns the configured founder gene intervals.
func (g *Game) founderRanges() traits.FounderRanges {
	r := g.cfg.Genes
	return traits.FounderRanges{
		MaxSpeed:         traits.Range{Min: r.MaxSpeed.Min, Max: r.MaxSpeed.Max},
		Perception:       traits.Range{Min: r.Perception.Min, Max: r.Perception.Max},
		Aggression:       traits.Range{Min: r.Aggression.Min, Max: r.Aggression.Max},
		ReproductionRate: traits.Range{Min: r.ReproductionRate.Min, Max: r.ReproductionRate.Max},
	}
}

// mutationParams returns the configured mutation operator parameters.
func (g *Game) mutationParams() traits.MutationParams {
	m := g.cfg.Mutation
	return traits.MutationParams{Rate: m.Rate, MinFactor: m.MinFactor, MaxFactor: m.MaxFactor}
}

// uniform draws from [lo, hi].
func (g *Game) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// spawnObstacles places n rocks with integer radii inside the margin band.
func (g *Game) spawnObstacles(n int) {
	oc := g.cfg.Obstacles
	obstacles := make([]systems.Obstacle, 0, n)
	for i := 0; i < n; i++ {
		x := g.uniform(oc.Margin, g.width-oc.Margin)
		y := g.uniform(oc.Margin, g.height-oc.Margin)
		r := oc.MinRadius + g.rng.Intn(oc.MaxRadius-oc.MinRadius+1)
		obstacles = append(obstacles, systems.Obstacle{X: x, Y: y, Radius: float64(r)})
	}
	g.obstacles = systems.NewObstacleIndex(obstacles)
}

// spawnInitialPopulation creates the founders of every species.
func (g *Game) spawnInitialPopulation(counts Counts) {
	ranges := g.founderRanges()

	for i := 0; i < counts.Predators; i++ {
		g.spawnFounder(components.SpeciesPredator, g.uniform(0, g.width), g.uniform(0, g.height), ranges)
	}
	for i := 0; i < counts.Prey; i++ {
		g.spawnFounder(components.SpeciesPrey, g.uniform(0, g.width), g.uniform(0, g.height), ranges)
	}

	border := g.cfg.Plant.Border
	for i := 0; i < counts.Plants; i++ {
		x := g.uniform(border, g.width-border)
		y := g.uniform(border, g.height-border)
		g.spawnFounder(components.SpeciesPlant, x, y, ranges)
	}
}

// spawnFounder adds a generation-zero agent with freshly sampled genes.
func (g *Game) spawnFounder(species components.Species, x, y float64, ranges traits.FounderRanges) ecs.Entity {
	return g.spawn(birth{
		species: species,
		x:       x,
		y:       y,
		genes:   traits.Founder(g.rng, ranges),
	})
}

// spawn creates the entity for b and appends it to its species list.
func (g *Game) spawn(b birth) ecs.Entity {
	cfg := g.cfg

	id := g.nextID
	g.nextID++

	pos := components.Position{X: b.x, Y: b.y}
	org := components.Organism{
		ID:         id,
		ParentID:   b.parentID,
		Species:    b.species,
		Generation: b.generation,
	}
	genome := components.Genome{Genes: b.genes}

	if b.species == components.SpeciesPlant {
		body := components.Body{Radius: b.genes.Get(traits.Radius, cfg.Plant.Radius)}
		energy := components.Energy{Value: cfg.Plant.InitialEnergy}
		flora := components.Flora{
			MaxEnergy:      cfg.Plant.MaxEnergy,
			ReproThreshold: b.genes.Get(traits.ReproThreshold, cfg.Plant.ReproThreshold),
		}
		entity := g.plantMapper.NewEntity(&pos, &body, &energy, &org, &genome, &flora)
		g.plants = append(g.plants, entity)
		return entity
	}

	fauna := cfg.Predator
	if b.species == components.SpeciesPrey {
		fauna = cfg.Prey.FaunaConfig
	}

	// Locomotion stats are fixed at birth
	motion := components.Motion{
		MaxSpeed:   b.genes.Get(traits.MaxSpeed, cfg.Genes.MaxSpeed.Min) * fauna.SpeedMultiplier,
		Perception: b.genes.Get(traits.Perception, cfg.Genes.Perception.Min) * fauna.PerceptionMultiplier,
		Aggression: b.genes.Get(traits.Aggression, cfg.Genes.Aggression.Min),
	}
	half := motion.MaxSpeed / 2
	vel := components.Velocity{X: g.uniform(-half, half), Y: g.uniform(-half, half)}
	body := components.Body{Radius: b.genes.Get(traits.Radius, fauna.Radius)}
	energy := components.Energy{Value: fauna.InitialEnergy}

	var entity ecs.Entity
	if b.species == components.SpeciesPredator {
		entity = g.predMapper.NewEntity(&pos, &vel, &body, &energy, &org, &motion, &genome)
		g.predators = append(g.predators, entity)
	} else {
		forage := components.Forage{
			EatRange:  b.genes.Get(traits.EatRange, cfg.Prey.EatRange),
			SeekPlant: b.genes.Get(traits.SeekPlant, cfg.Prey.SeekPlant),
		}
		entity = g.preyMapper.NewEntity(&pos, &vel, &body, &energy, &org, &motion, &genome, &forage)
		g.prey = append(g.prey, entity)
	}
	return entity
}
