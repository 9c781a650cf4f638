package system

import (
	"math"
	"sync/atomic"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/parameter"
	"github.com/niello/deusexmachina-sub012/status"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// CharacterControlSystem executes the most nested Steer or Turn of each character
// Bodies are kinematic: position and facing are integrated here, then arrival is checked
type CharacterControlSystem struct {
	engine.SystemBase

	statMoving    *atomic.Int64
	statSteerDone *atomic.Int64
	statTurnDone  *atomic.Int64
	statSpeed     *status.Gauge
	statPeak      *status.Gauge
}

func NewCharacterControlSystem(world *engine.World) engine.System {
	s := &CharacterControlSystem{
		SystemBase: engine.NewSystemBase(world),
	}

	s.statMoving = s.Resource.Status.Counters.Get("character.moving")
	s.statSteerDone = s.Resource.Status.Counters.Get("character.steer_done")
	s.statTurnDone = s.Resource.Status.Counters.Get("character.turn_done")
	s.statSpeed = s.Resource.Status.Gauges.Get("character.max_speed")
	s.statPeak = s.Resource.Status.Gauges.Get("character.peak_speed")

	return s
}

func (s *CharacterControlSystem) Name() string {
	return "character"
}

func (s *CharacterControlSystem) Priority() int {
	return parameter.PriorityCharacter
}

func (s *CharacterControlSystem) Update() {
	dt := s.Resource.Time.DeltaSeconds()
	if dt <= 0 {
		return
	}

	moving := int64(0)
	maxSpeed := 0.0
	entities := s.World.Query().
		With(s.Component.Character).
		With(s.Component.Queue).
		With(s.Component.NavAgent).
		Execute()

	for _, e := range entities {
		q, _ := s.Component.Queue.GetComponent(e)
		if q == nil {
			continue
		}
		agent, ok := s.Component.NavAgent.GetComponent(e)
		if !ok {
			continue
		}

		s.Component.Character.MutateComponent(e, func(c *component.CharacterComponent) {
			velocity := s.processMovement(c, q, &agent, dt)
			c.AngularVelocity = s.processFacing(c, q, &velocity, dt)
			c.Velocity = velocity

			agent.Position = vmath.V3FAdd(agent.Position, vmath.V3FScale(velocity, dt))
			if c.AngularVelocity != 0 {
				c.Facing = vmath.V3FNormalize2D(vmath.V3FRotateY(c.Facing, c.AngularVelocity*dt))
			}

			s.checkArrival(c, q, &agent)

			if speed := vmath.V3FMag2D(velocity); speed > 0 {
				moving++
				maxSpeed = max(maxSpeed, speed)
			}
		})

		s.Component.NavAgent.MutateComponent(e, func(a *component.NavAgentComponent) {
			a.Position = agent.Position
		})
	}
	s.statMoving.Store(moving)
	s.statSpeed.Set(maxSpeed)
	s.statPeak.Peak(maxSpeed)
}

// processMovement returns the desired horizontal velocity for the current Steer action
func (s *CharacterControlSystem) processMovement(c *component.CharacterComponent, q *action.Queue, agent *component.NavAgentComponent, dt float64) vmath.Vec3F {
	h := action.FindCurrent[action.Steer](q)
	steer, ok := action.Get[action.Steer](q, h)
	if !ok || q.GetStatus(h) != action.StatusRunning {
		if c.State == component.CharacterWalk || c.State == component.CharacterShortStep {
			c.State = component.CharacterStand
		}
		return vmath.Vec3F{}
	}

	pos := agent.Position
	desired := vmath.V3FFlat(vmath.V3FSub(steer.Dest, pos))
	sqDistance := vmath.V3FMagSq2D(desired)
	sameLevel := vmath.SameHeightLevel(pos, steer.Dest, agent.Height)
	if sameLevel && sqDistance < parameter.SteerSqLinearTolerance {
		q.SetStatus(h, action.StatusSucceeded)
		c.State = component.CharacterStand
		s.statSteerDone.Add(1)
		return vmath.Vec3F{}
	}

	// ShortStep may turn into Walk when the destination moves away, never the opposite
	if c.State == component.CharacterStand || c.State == component.CharacterShortStep {
		threshold := 1.5 * agent.Radius
		if sameLevel && sqDistance <= threshold*threshold {
			c.State = component.CharacterShortStep
		} else {
			c.State = component.CharacterWalk
		}
	}

	// Bend the trajectory toward NextDest at intermediate corners
	remaining := math.Sqrt(sqDistance)
	if c.SteeringSmoothness > 0 && steer.NextDest != steer.Dest {
		toNext := vmath.V3FFlat(vmath.V3FSub(steer.NextDest, pos))
		if d := vmath.V3FMag2D(toNext); d > parameter.CharacterMinSmoothingDistance {
			desired = vmath.V3FSub(desired, vmath.V3FScale(toNext, remaining*c.SteeringSmoothness/d))
			remaining = vmath.V3FMag2D(desired)
		}
	}

	speed := c.MaxLinearSpeed
	if steer.AdditionalDistance.Slowdown {
		// Braking distance S = v²/2a, speed follows the path length left to the stop
		distance := remaining + steer.AdditionalDistance.Value
		radius := c.ArriveBrakingCoeff * speed * speed
		if distance < radius {
			speed *= ((2*radius - distance) * distance) / (radius * radius)
		}
	}

	// Exactly cover the remaining movement in one frame instead of overshooting
	if remaining < speed*dt {
		return vmath.V3FScale(desired, 1/dt)
	}
	return vmath.V3FScale(desired, speed/remaining)
}

// processFacing returns the angular velocity around +Y, zeroing velocity for big turns
func (s *CharacterControlSystem) processFacing(c *component.CharacterComponent, q *action.Queue, velocity *vmath.Vec3F, dt float64) float64 {
	if c.MaxAngularSpeed <= 0 {
		return 0
	}

	angle := 0.0
	if c.State == component.CharacterWalk {
		if vmath.V3FMagSq2D(*velocity) > 0 {
			angle = vmath.Angle2D(c.Facing, *velocity)
		}
	} else if h := action.FindCurrent[action.Turn](q); h.Valid() {
		if turn, ok := action.Get[action.Turn](q, h); ok && q.GetStatus(h) == action.StatusRunning {
			angle = vmath.Angle2D(c.Facing, turn.LookatDirection)
		}
	}

	abs := math.Abs(angle)
	if abs < parameter.TurnAngularTolerance {
		return 0
	}

	speed := c.MaxAngularSpeed
	if abs <= parameter.TurnArrivalZone {
		speed *= abs / parameter.TurnArrivalZone
	}

	if abs > c.BigTurnThreshold {
		*velocity = vmath.Vec3F{}
	}

	if abs < speed*dt {
		return angle / dt
	}
	return math.Copysign(speed, angle)
}

// checkArrival succeeds the most nested Steer or Turn once its goal is met
func (s *CharacterControlSystem) checkArrival(c *component.CharacterComponent, q *action.Queue, agent *component.NavAgentComponent) {
	h := q.FindCurrentOf(action.KindSteer, action.KindTurn)
	if q.GetStatus(h) != action.StatusRunning {
		return
	}

	if steer, ok := action.Get[action.Steer](q, h); ok {
		if vmath.SameHeightLevel(agent.Position, steer.Dest, agent.Height) &&
			vmath.V3FSqDist2D(agent.Position, steer.Dest) < parameter.SteerSqLinearTolerance {
			q.SetStatus(h, action.StatusSucceeded)
			s.statSteerDone.Add(1)
			if c.State == component.CharacterWalk || c.State == component.CharacterShortStep {
				c.State = component.CharacterStand
			}
		}
		return
	}

	if turn, ok := action.Get[action.Turn](q, h); ok {
		if math.Abs(vmath.Angle2D(c.Facing, turn.LookatDirection)) < turn.AngularTolerance {
			q.SetStatus(h, action.StatusSucceeded)
			s.statTurnDone.Add(1)
		}
	}
}
