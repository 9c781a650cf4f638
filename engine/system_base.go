package engine

// System is updated once per World.Step
type System interface {
	Name() string
	// Priority orders execution, lower runs first
	Priority() int
	Update()
}

// SystemBase gives systems direct access to the world singletons and component stores
type SystemBase struct {
	World     *World
	Resource  *Resource
	Component ComponentStore
}

func NewSystemBase(w *World) SystemBase {
	return SystemBase{
		World:     w,
		Resource:  &w.Resources,
		Component: w.Components,
	}
}
