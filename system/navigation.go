package system

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/navigation"
	"github.com/niello/deusexmachina-sub012/parameter"
	"github.com/niello/deusexmachina-sub012/steering"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// NavigationSystem refreshes every navigating agent's motion action once per tick
// Requires a *steering.Library world resource
type NavigationSystem struct {
	engine.SystemBase

	library *steering.Library
	log     zerolog.Logger

	statAgents    *atomic.Int64
	statArrivals  *atomic.Int64
	statFailures  *atomic.Int64
	statCancelled *atomic.Int64
}

func NewNavigationSystem(world *engine.World) engine.System {
	s := &NavigationSystem{
		SystemBase: engine.NewSystemBase(world),
		library:    engine.MustGetResource[*steering.Library](world.ResourceStore),
		log:        world.Resources.Log.With().Str("system", "navigation").Logger(),
	}

	s.statAgents = s.Resource.Status.Counters.Get("nav.agents")
	s.statArrivals = s.Resource.Status.Counters.Get("nav.arrivals")
	s.statFailures = s.Resource.Status.Counters.Get("nav.failures")
	s.statCancelled = s.Resource.Status.Counters.Get("nav.cancelled")

	return s
}

func (s *NavigationSystem) Name() string {
	return "navigation"
}

func (s *NavigationSystem) Priority() int {
	return parameter.PriorityNavigation
}

func (s *NavigationSystem) Update() {
	active := int64(0)
	for _, e := range s.Component.Queue.GetAllEntities() {
		q, ok := s.Component.Queue.GetComponent(e)
		if !ok || q == nil {
			continue
		}
		if n := q.Update(); n > 0 {
			s.statCancelled.Add(int64(n))
		}

		nav := action.FindCurrent[action.Navigate](q)
		if q.GetStatus(nav) != action.StatusRunning {
			continue
		}
		agent, ok := s.Component.NavAgent.GetComponent(e)
		if !ok || agent.Corridor == nil {
			continue
		}
		active++
		s.process(e, q, nav, &agent)
	}
	s.statAgents.Store(active)
}

func (s *NavigationSystem) process(e core.Entity, q *action.Queue, nav action.Handle, agent *component.NavAgentComponent) {
	corridor := agent.Corridor
	if r, ok := agent.Mesh.(navigation.Refresher); ok && agent.Mode == navigation.ModeNormal {
		r.Advance(corridor, agent.Position, parameter.SteerSqLinearTolerance)
	}

	if corridor.Len() <= 1 && s.arrived(agent, corridor.Target) {
		s.finish(e, q, nav)
		return
	}

	settings := s.library.Get(agent.Settings)
	if settings == nil {
		s.fail(e, "no traversal settings")
		return
	}
	b, ok := settings.FindAction(s.World, agent, corridor.Area, corridor.FirstPoly())
	if !ok {
		s.fail(e, "area has no traversal variant")
		return
	}

	ctx := &steering.Context{
		World:    s.World,
		Actor:    e,
		Agent:    agent,
		Settings: settings,
		Queue:    q,
		Variant:  b.ID,
		Log:      s.log,
	}
	if !b.Action.GenerateAction(ctx, b.Controller, nav, agent.Position) {
		s.fail(e, "motion generation failed")
	}
}

// finish turns the agent to its final facing, then succeeds the Navigate action
func (s *NavigationSystem) finish(e core.Entity, q *action.Queue, nav action.Handle) {
	goal, _ := action.Get[action.Navigate](q, nav)
	if vmath.V3FMagSq2D(goal.FinalFacing) > 0 {
		turn := q.GetChild(nav)
		if _, isTurn := action.Get[action.Turn](q, turn); !isTurn || q.GetStatus(turn) != action.StatusSucceeded {
			action.PushOrUpdateChild(q, nav, action.NewTurn(goal.FinalFacing, parameter.TurnAngularTolerance))
			return
		}
	}

	q.SetStatus(nav, action.StatusSucceeded)
	s.statArrivals.Add(1)
	s.log.Debug().Uint64("entity", uint64(e)).Msg("arrived")
}

func (s *NavigationSystem) arrived(agent *component.NavAgentComponent, target vmath.Vec3F) bool {
	return vmath.SameHeightLevel(agent.Position, target, agent.Height) &&
		vmath.V3FSqDist2D(agent.Position, target) < parameter.SteerSqLinearTolerance
}

func (s *NavigationSystem) fail(e core.Entity, reason string) {
	s.statFailures.Add(1)
	s.log.Debug().Uint64("entity", uint64(e)).Msg(reason)
}
