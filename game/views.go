package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// AgentView is a read-only copy of an agent's render state.
type AgentView struct {
	ID         uint32
	Species    components.Species
	X, Y       float64
	Radius     float64
	Energy     float64
	Age        int32
	Generation uint32
}

// ObstacleView is a read-only copy of an obstacle.
type ObstacleView struct {
	X, Y, Radius float64
}

// Predators returns the current predators in list order.
func (g *Game) Predators() []AgentView {
	return g.views(g.predators)
}

// Prey returns the current prey in list order.
func (g *Game) Prey() []AgentView {
	return g.views(g.prey)
}

// Plants returns the current plants in list order.
func (g *Game) Plants() []AgentView {
	return g.views(g.plants)
}

// Obstacles returns the static obstacles in index order.
func (g *Game) Obstacles() []ObstacleView {
	all := g.obstacles.All()
	out := make([]ObstacleView, len(all))
	for i, o := range all {
		out[i] = ObstacleView{X: o.X, Y: o.Y, Radius: o.Radius}
	}
	return out
}

// History returns one population sample per completed tick.
func (g *Game) History() []telemetry.PopulationSample {
	out := make([]telemetry.PopulationSample, len(g.history))
	copy(out, g.history)
	return out
}

// PredatorCount returns the number of predators.
func (g *Game) PredatorCount() int { return len(g.predators) }

// PreyCount returns the number of prey.
func (g *Game) PreyCount() int { return len(g.prey) }

// PlantCount returns the number of plants.
func (g *Game) PlantCount() int { return len(g.plants) }

func (g *Game) views(list []ecs.Entity) []AgentView {
	out := make([]AgentView, 0, len(list))
	for _, e := range list {
		pos := g.posMap.Get(e)
		energy := g.energyMap.Get(e)
		org := g.orgMap.Get(e)
		out = append(out, AgentView{
			ID:         org.ID,
			Species:    org.Species,
			X:          pos.X,
			Y:          pos.Y,
			Radius:     g.bodyMap.Get(e).Radius,
			Energy:     energy.Value,
			Age:        energy.Age,
			Generation: org.Generation,
		})
	}
	return out
}
