package engine

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/status"
)

// World contains all entities and their components using typed stores
type World struct {
	mu           sync.RWMutex
	nextEntityID core.Entity

	// Typed singletons
	Resources Resource
	// Type-keyed resources contributed by packages above the engine
	ResourceStore *ResourceStore

	Components ComponentStore
	allStores  []AnyStore

	systems     []System
	updateMutex sync.Mutex
}

// NewWorld creates a world with a nop logger and a fresh metric registry
func NewWorld() *World {
	return NewWorldWithLogger(zerolog.Nop())
}

// NewWorldWithLogger creates a world logging through log
func NewWorldWithLogger(log zerolog.Logger) *World {
	w := &World{
		nextEntityID:  1,
		ResourceStore: NewResourceStore(),
		Resources: Resource{
			Time:   &TimeResource{},
			Status: status.NewRegistry(),
			Log:    log,
		},
		systems: make([]System, 0),
	}

	initComponentStores(w)

	return w
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() core.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// DestroyEntity removes all components associated with an entity
// The entity's action queue is reset first so deactivation hooks run
func (w *World) DestroyEntity(e core.Entity) {
	if q, ok := w.Components.Queue.GetComponent(e); ok {
		q.Reset()
	}
	for _, store := range w.allStores {
		store.RemoveEntity(e)
	}
}

// Clear removes all entities and components from the world
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextEntityID = 1
	for _, store := range w.allStores {
		store.ClearAllComponents()
	}
}

// AddSystem registers a system, equal priorities run in name order
// Adding a second system under an existing name replaces the first
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = slices.DeleteFunc(w.systems, func(s System) bool {
		return s.Name() == system.Name()
	})
	w.systems = append(w.systems, system)
	slices.SortFunc(w.systems, func(a, b System) int {
		if d := cmp.Compare(a.Priority(), b.Priority()); d != 0 {
			return d
		}
		return strings.Compare(a.Name(), b.Name())
	})
}

// Systems returns a copy of all registered systems
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.systems)
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Step advances the clock by dt and runs all systems once
func (w *World) Step(dt time.Duration) {
	w.RunSafe(func() {
		w.Resources.Time.advance(dt)
		w.UpdateLocked()
	})
}

// UpdateLocked runs all systems assuming the caller already holds updateMutex
func (w *World) UpdateLocked() {
	for _, system := range w.Systems() {
		system.Update()
	}
}

// FrameNumber returns the number of completed steps
func (w *World) FrameNumber() int64 {
	return w.Resources.Time.FrameNumber
}

// Elapsed returns the simulated time, pauses excluded
func (w *World) Elapsed() time.Duration {
	return w.Resources.Time.Elapsed
}
