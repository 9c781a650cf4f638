package steering

import (
	"errors"
	"sync/atomic"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/navigation"
	"github.com/niello/deusexmachina-sub012/parameter"
	"github.com/niello/deusexmachina-sub012/status"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// TurnName is the registry name of the rotate-in-place variant
const TurnName = "turn"

// Turn rotates the agent toward the first unreached corner, or the final facing at path end
// Used for areas entered from a standstill, e.g. narrow doors and platforms
type Turn struct {
	Base

	Tolerance float64

	statGenerated *atomic.Int64
	statFailures  *atomic.Int64
}

// NewTurn creates the turning variant with the default angular tolerance
func NewTurn(reg *status.Registry) *Turn {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Turn{
		Tolerance:     parameter.TurnAngularTolerance,
		statGenerated: reg.Counters.Get("turn.generated"),
		statFailures:  reg.Counters.Get("turn.failures"),
	}
}

func (t *Turn) Name() string { return TurnName }

// GenerateAction pushes or updates the Turn child of nav
// Nothing is pushed when there is no direction to face
func (t *Turn) GenerateAction(ctx *Context, controller core.Entity, nav action.Handle, pos vmath.Vec3F) bool {
	agent := ctx.Agent
	if agent == nil || agent.Corridor == nil || agent.Mesh == nil || ctx.Queue == nil {
		t.statFailures.Add(1)
		return false
	}
	corridor := agent.Corridor

	cursor, err := agent.Mesh.OpenCursor(corridor.Pos, corridor.Target, corridor.Path, navigation.CrossArea)
	if err != nil {
		t.statFailures.Add(1)
		ctx.Log.Debug().Err(err).Uint64("actor", uint64(ctx.Actor)).Msg("turn: straight path unavailable")
		return false
	}

	var dir vmath.Vec3F
	for {
		c, err := cursor.Next()
		if errors.Is(err, navigation.ErrEndOfPath) {
			if goal, ok := action.Get[action.Navigate](ctx.Queue, nav); ok {
				dir = goal.FinalFacing
			}
			break
		}
		if err != nil {
			t.statFailures.Add(1)
			return false
		}
		if !isReached(agent, pos, c.Point) {
			dir = vmath.V3FSub(c.Point, pos)
			break
		}
	}

	if vmath.V3FMagSq2D(dir) == 0 {
		return true
	}

	if !action.PushOrUpdateChild(ctx.Queue, nav, action.NewTurn(dir, t.Tolerance)).Valid() {
		t.statFailures.Add(1)
		return false
	}
	t.statGenerated.Add(1)
	return true
}
