package engine

import "github.com/niello/deusexmachina-sub012/core"

// EntityBuilder reserves an entity ID upfront and stages components until Build
//
// Example usage:
//
//	entity := world.NewEntity()
//	With(entity, world.Components.NavAgent, agent)
//	With(entity, world.Components.Queue, action.NewQueue())
//	id := entity.Build()
type EntityBuilder struct {
	world   *World
	entity  core.Entity
	pending []func()
	built   bool
}

// NewEntity creates a builder with a reserved entity ID
func (w *World) NewEntity() *EntityBuilder {
	return &EntityBuilder{
		world:  w,
		entity: w.CreateEntity(),
	}
}

// With stages a component of type T for the entity being built
// Panics if called after Build()
func With[T any](eb *EntityBuilder, store *Store[T], component T) *EntityBuilder {
	if eb.built {
		panic("entity already built - cannot add components after Build()")
	}
	e := eb.entity
	eb.pending = append(eb.pending, func() { store.SetComponent(e, component) })
	return eb
}

// Build commits all staged components and returns the entity ID
func (eb *EntityBuilder) Build() core.Entity {
	if eb.built {
		panic("entity already built")
	}
	for _, add := range eb.pending {
		add()
	}
	eb.pending = nil
	eb.built = true
	return eb.entity
}
