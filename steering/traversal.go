package steering

import (
	"github.com/rs/zerolog"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/parameter"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// Traversal knows how to move an agent across polygons of the areas bound to it
type Traversal interface {
	// Name is the registry key, also used by area tables
	Name() string

	// GenerateAction creates or refreshes the child of the Navigate action nav for this tick
	// Never blocks, may hand off to another variant's GenerateAction
	// Returns false when the agent can't be given a motion this tick
	GenerateAction(ctx *Context, controller core.Entity, nav action.Handle, pos vmath.Vec3F) bool

	// SqTriggerRadius is the squared distance at which an off-mesh connection fires
	SqTriggerRadius(agentRadius, offmeshTriggerRadius float64) float64

	// NeedSlowdownBeforeStart tells the preceding variant whether to arrive with slowdown
	NeedSlowdownBeforeStart(agent *component.NavAgentComponent) bool
}

// Context is the per-agent, per-tick input shared by all variants
// Variant is the tag of the variant currently executing, handoff rewrites it
type Context struct {
	World    *engine.World
	Actor    core.Entity
	Agent    *component.NavAgentComponent
	Settings *Registry
	Queue    *action.Queue
	Variant  VariantID
	Log      zerolog.Logger
}

// delegate returns a copy of ctx for executing variant id
func (ctx *Context) delegate(id VariantID) *Context {
	sub := *ctx
	sub.Variant = id
	return &sub
}

// DefaultSqTriggerRadius is the trigger radius used by variants without special needs
func DefaultSqTriggerRadius(agentRadius, offmeshTriggerRadius float64) float64 {
	return max(parameter.SteerSqLinearTolerance, offmeshTriggerRadius*offmeshTriggerRadius)
}

// Base provides default trigger radius and slowdown policy, embed in custom variants
type Base struct{}

func (Base) SqTriggerRadius(agentRadius, offmeshTriggerRadius float64) float64 {
	return DefaultSqTriggerRadius(agentRadius, offmeshTriggerRadius)
}

func (Base) NeedSlowdownBeforeStart(agent *component.NavAgentComponent) bool {
	return true
}
