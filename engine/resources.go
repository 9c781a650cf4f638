package engine

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/niello/deusexmachina-sub012/status"
)

// ResourceStore holds one value per Go type
// Packages above the engine (traversal settings, mesh services) install their singletons here
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
}

func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource installs resource as the T singleton, replacing any previous one
func AddResource[T any](rs *ResourceStore, resource T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.resources[reflect.TypeFor[T]()] = resource
}

func GetResource[T any](rs *ResourceStore) (T, bool) {
	rs.mu.RLock()
	val, ok := rs.resources[reflect.TypeFor[T]()]
	rs.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// MustGetResource panics when T was never installed
// System constructors use it for resources that must exist before systems are added
func MustGetResource[T any](rs *ResourceStore) T {
	res, ok := GetResource[T](rs)
	if !ok {
		panic(fmt.Sprintf("engine: resource %s not installed", reflect.TypeFor[T]()))
	}
	return res
}

// Resource holds the singletons every system reads
type Resource struct {
	Time   *TimeResource
	Status *status.Registry

	// Log is the world logger, systems derive their own with .With()
	Log zerolog.Logger
}

// TimeResource is the simulation clock, advanced only by World.Step
type TimeResource struct {
	// DeltaTime is the step of the current tick
	DeltaTime time.Duration

	// Elapsed sums every step so far, pauses excluded
	Elapsed     time.Duration
	FrameNumber int64
}

func (tr *TimeResource) DeltaSeconds() float64 {
	return tr.DeltaTime.Seconds()
}

func (tr *TimeResource) advance(dt time.Duration) {
	tr.DeltaTime = dt
	tr.Elapsed += dt
	tr.FrameNumber++
}
