package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/navigation"
	"github.com/niello/deusexmachina-sub012/steering"
	"github.com/niello/deusexmachina-sub012/vmath"
)

const (
	tick       = 16 * time.Millisecond
	areaGround = navigation.AreaType(1)
)

var (
	cornerA = vmath.Vec3F{X: 10}
	target  = vmath.Vec3F{X: 10, Z: 10}
)

// lPath is a ground corridor from the origin to cornerA, then a right angle to target
func lPath() *navigation.ChainMesh {
	return navigation.NewChainMesh(
		navigation.Polygon{Ref: 1, Area: areaGround, Exit: vmath.Vec3F{X: 5}, Portal: true},
		navigation.Polygon{Ref: 2, Area: areaGround, Exit: cornerA},
		navigation.Polygon{Ref: 3, Area: areaGround},
	)
}

func newTestWorld(t *testing.T) *engine.World {
	t.Helper()
	w := engine.NewWorld()

	reg := steering.NewRegistry()
	id := reg.Register(steering.NewSteer(w.Resources.Status))
	require.NoError(t, reg.Bind(areaGround, id, core.NoEntity))
	engine.AddResource(w.ResourceStore, steering.NewLibrary(reg))

	w.AddSystem(NewCharacterControlSystem(w))
	w.AddSystem(NewNavigationSystem(w))
	return w
}

func spawnAgent(t *testing.T, w *engine.World, mesh *navigation.ChainMesh, pos vmath.Vec3F) core.Entity {
	t.Helper()
	corridor, err := mesh.NewCorridor(pos, target, 1, 2, 3)
	require.NoError(t, err)

	eb := w.NewEntity()
	engine.With(eb, w.Components.NavAgent, component.NavAgentComponent{
		Position: pos,
		Height:   1.8,
		Radius:   0.3,
		Corridor: corridor,
		Mesh:     mesh,
	})
	engine.With(eb, w.Components.Character, component.NewCharacterComponent())
	engine.With(eb, w.Components.Queue, action.NewQueue())
	return eb.Build()
}

func agentOf(t *testing.T, w *engine.World, e core.Entity) component.NavAgentComponent {
	t.Helper()
	a, ok := w.Components.NavAgent.GetComponent(e)
	require.True(t, ok)
	return a
}

func characterOf(t *testing.T, w *engine.World, e core.Entity) component.CharacterComponent {
	t.Helper()
	c, ok := w.Components.Character.GetComponent(e)
	require.True(t, ok)
	return c
}

// runUntil steps the world until the Navigate action leaves Running or maxTicks pass
func runUntil(w *engine.World, q *action.Queue, nav action.Handle, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		if q.GetStatus(nav) != action.StatusRunning {
			return i
		}
		w.Step(tick)
	}
	return maxTicks
}
