package steering

import (
	"errors"
	"sync/atomic"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/navigation"
	"github.com/niello/deusexmachina-sub012/parameter"
	"github.com/niello/deusexmachina-sub012/status"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// SteerName is the registry name of the walking variant
const SteerName = "steer"

// Steer is the walking variant, it turns the straight path into one Steer motion per tick
// Stateless between ticks, all per-agent state lives in the queue and the agent
type Steer struct {
	statGenerated  *atomic.Int64
	statHandoffs   *atomic.Int64
	statFailures   *atomic.Int64
	statRecoveries *atomic.Int64
}

// NewSteer creates the walking variant, counters are published to reg when not nil
func NewSteer(reg *status.Registry) *Steer {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Steer{
		statGenerated:  reg.Counters.Get("steer.generated"),
		statHandoffs:   reg.Counters.Get("steer.handoffs"),
		statFailures:   reg.Counters.Get("steer.failures"),
		statRecoveries: reg.Counters.Get("steer.recoveries"),
	}
}

func (s *Steer) Name() string { return SteerName }

func (s *Steer) SqTriggerRadius(agentRadius, offmeshTriggerRadius float64) float64 {
	return DefaultSqTriggerRadius(agentRadius, offmeshTriggerRadius)
}

// NeedSlowdownBeforeStart is false, walking continues from any incoming speed
func (s *Steer) NeedSlowdownBeforeStart(agent *component.NavAgentComponent) bool {
	return false
}

// edge is the outcome of the corner walk
type edge struct {
	dest navigation.Corner
	next navigation.Corner

	hasNext bool
	last    bool

	// set when the walk stopped at a corner owned by another variant or none
	boundary     bool
	needSlowdown bool
}

// GenerateAction pushes or updates the Steer child of nav
// On failure the queue is left untouched
func (s *Steer) GenerateAction(ctx *Context, controller core.Entity, nav action.Handle, pos vmath.Vec3F) bool {
	agent := ctx.Agent
	if agent == nil || agent.Corridor == nil || ctx.Queue == nil || ctx.Settings == nil {
		s.statFailures.Add(1)
		return false
	}
	corridor := agent.Corridor

	// Off the mesh the only sensible move is straight back to the clamped position
	if agent.Mode == navigation.ModeRecovery {
		s.statRecoveries.Add(1)
		return s.push(ctx, nav, action.Steer{
			Dest:               corridor.Pos,
			NextDest:           corridor.Pos,
			AdditionalDistance: action.NoSlowdown,
		})
	}

	if agent.Mesh == nil {
		s.statFailures.Add(1)
		return false
	}

	from := corridor.Pos
	if agent.Mode == navigation.ModeOffMesh {
		from = corridor.RecoveryPos
	}
	opts := navigation.CrossArea
	if ctx.Settings.IsAreaControllable(corridor.Area) {
		opts = navigation.CrossAll
	}

	cursor, err := agent.Mesh.OpenCursor(from, corridor.Target, corridor.Path, opts)
	if err != nil {
		s.statFailures.Add(1)
		ctx.Log.Debug().Err(err).Uint64("actor", uint64(ctx.Actor)).Msg("steer: straight path unavailable")
		return false
	}

	e, handoff, err := s.walk(ctx, cursor, pos)
	if err != nil {
		s.statFailures.Add(1)
		ctx.Log.Debug().Err(err).Uint64("actor", uint64(ctx.Actor)).Msg("steer: corner walk failed")
		return false
	}
	if handoff != nil {
		s.statHandoffs.Add(1)
		ctx.Log.Debug().
			Uint64("actor", uint64(ctx.Actor)).
			Str("variant", handoff.Action.Name()).
			Msg("steer: handoff")
		return handoff.Action.GenerateAction(ctx.delegate(handoff.ID), handoff.Controller, nav, pos)
	}

	motion := action.Steer{Dest: e.dest.Point}
	switch {
	case e.last:
		motion.NextDest = e.dest.Point
		if goal, ok := action.Get[action.Navigate](ctx.Queue, nav); ok {
			motion.NextDest = vmath.V3FAdd(e.dest.Point, goal.FinalFacing)
		}
		motion.AdditionalDistance = action.NoSlowdown
	case e.hasNext:
		motion.NextDest = e.next.Point
		motion.AdditionalDistance = s.additionalDistance(ctx, nav, cursor, e)
	default:
		motion.NextDest = e.dest.Point
		motion.AdditionalDistance = s.additionalDistance(ctx, nav, cursor, e)
	}

	return s.push(ctx, nav, motion)
}

// walk selects Dest, merging reached and colinear corners and stopping where ownership changes
// A non-nil Binding means the agent already stands at the start of another variant's edge
func (s *Steer) walk(ctx *Context, cursor navigation.Cursor, pos vmath.Vec3F) (edge, *Binding, error) {
	agent := ctx.Agent
	var e edge

	dest, err := cursor.Next()
	if err != nil {
		return e, nil, err
	}

	for {
		reached := isReached(agent, pos, dest.Point)

		b, ok := ctx.Settings.FindAction(ctx.World, agent, dest.Area, dest.Poly)
		if !ok || b.ID != ctx.Variant {
			// Off-mesh links are entered by the navigation service, not by steering
			if ok && reached && !dest.Flags.Has(navigation.CornerOffMesh) {
				return e, &b, nil
			}
			e.dest = dest
			e.boundary = true
			e.needSlowdown = !ok || b.Action.NeedSlowdownBeforeStart(agent)
			return e, nil, nil
		}

		next, err := cursor.Next()
		if errors.Is(err, navigation.ErrEndOfPath) {
			e.dest = dest
			e.last = true
			return e, nil, nil
		}
		if err != nil {
			return e, nil, err
		}

		if reached || vmath.IsColinear2D(vmath.V3FSub(dest.Point, pos), vmath.V3FSub(next.Point, pos), parameter.SteerColinearCosSq) {
			dest = next
			continue
		}

		e.dest = dest
		e.next = next
		e.hasNext = true
		return e, nil, nil
	}
}

// additionalDistance is the path length after Dest until the next required stop
// The walk is skipped when the current child already targets the same Dest
func (s *Steer) additionalDistance(ctx *Context, nav action.Handle, cursor navigation.Cursor, e edge) action.Distance {
	if prev, ok := action.Get[action.Steer](ctx.Queue, ctx.Queue.GetChild(nav)); ok && prev.Dest == e.dest.Point {
		return prev.AdditionalDistance
	}

	if e.boundary {
		if e.needSlowdown {
			return action.SlowdownAfter(0)
		}
		return action.NoSlowdown
	}

	total := 0.0
	prev := e.dest.Point
	cur := e.next
	for {
		total += vmath.V3FDist2D(prev, cur.Point)

		b, ok := ctx.Settings.FindAction(ctx.World, ctx.Agent, cur.Area, cur.Poly)
		if !ok || b.ID != ctx.Variant {
			if !ok || b.Action.NeedSlowdownBeforeStart(ctx.Agent) {
				return action.SlowdownAfter(total)
			}
			return action.NoSlowdown
		}

		next, err := cursor.Next()
		if err != nil {
			// Path end, or a broken tail treated as one
			return action.SlowdownAfter(total)
		}
		prev = cur.Point
		cur = next
	}
}

func (s *Steer) push(ctx *Context, nav action.Handle, motion action.Steer) bool {
	if !action.PushOrUpdateChild(ctx.Queue, nav, motion).Valid() {
		s.statFailures.Add(1)
		return false
	}
	s.statGenerated.Add(1)
	return true
}

// isReached is the arrival test shared with the character controller
func isReached(agent *component.NavAgentComponent, pos, dest vmath.Vec3F) bool {
	return vmath.SameHeightLevel(pos, dest, agent.Height) &&
		vmath.V3FSqDist2D(pos, dest) < parameter.SteerSqLinearTolerance
}
