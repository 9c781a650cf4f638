package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// characterRig is a world running only the character controller over a hand-fed queue
type characterRig struct {
	w   *engine.World
	e   core.Entity
	q   *action.Queue
	nav action.Handle
}

func newCharacterRig(t *testing.T, pos, facing vmath.Vec3F) *characterRig {
	t.Helper()
	w := engine.NewWorld()
	w.AddSystem(NewCharacterControlSystem(w))

	character := component.NewCharacterComponent()
	character.Facing = facing

	q := action.NewQueue()
	eb := w.NewEntity()
	engine.With(eb, w.Components.NavAgent, component.NavAgentComponent{Position: pos, Height: 1.8, Radius: 0.3})
	engine.With(eb, w.Components.Character, character)
	engine.With(eb, w.Components.Queue, q)
	e := eb.Build()

	nav, err := action.Enqueue(q, action.Navigate{})
	require.NoError(t, err)
	return &characterRig{w: w, e: e, q: q, nav: nav}
}

func (r *characterRig) steer(dest vmath.Vec3F, extra action.Distance) action.Handle {
	return action.PushOrUpdateChild(r.q, r.nav, action.Steer{Dest: dest, NextDest: dest, AdditionalDistance: extra})
}

func (r *characterRig) character(t *testing.T) component.CharacterComponent {
	return characterOf(t, r.w, r.e)
}

func (r *characterRig) position(t *testing.T) vmath.Vec3F {
	return agentOf(t, r.w, r.e).Position
}

func TestCharacter_FullSpeedWithoutSlowdown(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{}, vmath.Vec3F{X: 1})
	r.steer(vmath.Vec3F{X: 0.5}, action.NoSlowdown)

	r.w.Step(tick)
	c := r.character(t)
	assert.InDelta(t, 3.0, c.Velocity.X, 1e-9)
	assert.Equal(t, component.CharacterWalk, c.State)
	assert.InDelta(t, 3.0*tick.Seconds(), r.position(t).X, 1e-9)
}

func TestCharacter_ArrivalSlowdown(t *testing.T) {
	tests := []struct {
		name  string
		extra action.Distance
		speed float64
	}{
		{"disabled", action.NoSlowdown, 3},
		{"stop at destination", action.SlowdownAfter(0), 3 * (2*1.125 - 0.5) * 0.5 / (1.125 * 1.125)},
		{"stop far beyond", action.SlowdownAfter(5), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCharacterRig(t, vmath.Vec3F{}, vmath.Vec3F{X: 1})
			r.steer(vmath.Vec3F{X: 0.5}, tt.extra)
			r.w.Step(tick)
			assert.InDelta(t, tt.speed, r.character(t).Velocity.X, 1e-9)
		})
	}
}

func TestCharacter_NoOvershoot(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{}, vmath.Vec3F{X: 1})
	h := r.steer(vmath.Vec3F{X: 0.01}, action.NoSlowdown)

	r.w.Step(tick)
	assert.InDelta(t, 0.01, r.position(t).X, 1e-9)
	assert.Equal(t, action.StatusSucceeded, r.q.GetStatus(h))
	assert.Equal(t, component.CharacterStand, r.character(t).State)
}

func TestCharacter_AlreadyArrived(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{X: 2}, vmath.Vec3F{X: 1})
	h := r.steer(vmath.Vec3F{X: 2.001}, action.NoSlowdown)

	r.w.Step(tick)
	assert.Equal(t, action.StatusSucceeded, r.q.GetStatus(h))
	assert.Equal(t, vmath.Vec3F{}, r.character(t).Velocity)
	assert.Equal(t, vmath.Vec3F{X: 2}, r.position(t))
}

func TestCharacter_DifferentHeightIsNotArrival(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{}, vmath.Vec3F{X: 1})
	h := r.steer(vmath.Vec3F{Y: 3}, action.NoSlowdown)

	r.w.Step(tick)
	assert.Equal(t, action.StatusRunning, r.q.GetStatus(h))
}

func TestCharacter_BigTurnStopsMovement(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{}, vmath.Vec3F{Z: -1})
	r.steer(vmath.Vec3F{X: 10}, action.NoSlowdown)

	r.w.Step(tick)
	c := r.character(t)
	assert.Equal(t, vmath.Vec3F{}, c.Velocity)
	assert.Equal(t, vmath.Vec3F{}, r.position(t))
	assert.InDelta(t, -2*math.Pi, c.AngularVelocity, 1e-9)

	// Keeps turning, then walks once aligned
	for i := 0; i < 60; i++ {
		r.w.Step(tick)
	}
	assert.Greater(t, r.position(t).X, 0.0)
	assert.InDelta(t, 1.0, r.character(t).Facing.X, 1e-3)
}

func TestCharacter_ShortStepKeepsFacing(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{}, vmath.Vec3F{Z: -1})
	r.steer(vmath.Vec3F{X: 0.3}, action.NoSlowdown)

	r.w.Step(tick)
	c := r.character(t)
	assert.Equal(t, component.CharacterShortStep, c.State)
	assert.Greater(t, c.Velocity.X, 0.0)
	assert.Zero(t, c.AngularVelocity)
	assert.Equal(t, vmath.Vec3F{Z: -1}, c.Facing)
}

func TestCharacter_Turn(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{}, vmath.Vec3F{Z: -1})
	h := action.PushOrUpdateChild(r.q, r.nav, action.NewTurn(vmath.Vec3F{X: 1}, 0.0001))

	for i := 0; i < 100 && r.q.GetStatus(h) == action.StatusRunning; i++ {
		r.w.Step(tick)
	}
	require.Equal(t, action.StatusSucceeded, r.q.GetStatus(h))
	c := r.character(t)
	assert.InDelta(t, 1.0, c.Facing.X, 1e-6)
	assert.InDelta(t, 0.0, c.Facing.Z, 1e-3)
	assert.Equal(t, vmath.Vec3F{}, r.position(t))
}

func TestCharacter_IdleStands(t *testing.T) {
	r := newCharacterRig(t, vmath.Vec3F{X: 1}, vmath.Vec3F{X: 1})
	r.w.Components.Character.MutateComponent(r.e, func(c *component.CharacterComponent) {
		c.State = component.CharacterWalk
	})

	r.w.Step(tick)
	assert.Equal(t, component.CharacterStand, r.character(t).State)
	assert.Equal(t, vmath.Vec3F{X: 1}, r.position(t))
}
