package services

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/niello/deusexmachina-sub012/engine"
)

var (
	ErrDuplicate      = errors.New("service already registered")
	ErrUnknown        = errors.New("unregistered service")
	ErrCycle          = errors.New("circular dependency")
	ErrNotInitialized = errors.New("services not initialized")
)

// Hub owns the sandbox services and runs Init, Start and Stop in dependency order
// Stop always walks the started set backwards, so a service never outlives its dependencies
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	order    []string
	started  []string
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		services: make(map[string]Service),
		log:      log.With().Str("component", "services").Logger(),
	}
}

// Register adds svc, names must be unique
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.services[name] = svc
	h.order = nil
	return nil
}

func (h *Hub) Get(name string) (Service, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	svc, ok := h.services[name]
	return svc, ok
}

// MustGet returns the named service as T, panics if it is missing or of another type
func MustGet[T any](h *Hub, name string) T {
	svc, ok := h.Get(name)
	if !ok {
		panic(fmt.Sprintf("services: %s not registered", name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("services: %s is %T", name, svc))
	}
	return typed
}

// InitAll orders the services and initializes each one
// A failed Init stops the services initialized before it
func (h *Hub) InitAll(world *engine.World) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolve()
		if err != nil {
			return err
		}
		h.order = order
	}

	for i, name := range h.order {
		if err := h.services[name].Init(world); err != nil {
			h.stopReverse(h.order[:i])
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
	}
	h.log.Debug().Strs("order", h.order).Msg("services initialized")
	return nil
}

// StartAll starts the services, a failed Start stops the ones already running
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		return ErrNotInitialized
	}

	h.started = h.started[:0]
	for _, name := range h.order {
		if err := h.services[name].Start(); err != nil {
			h.stopReverse(h.started)
			h.started = h.started[:0]
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops every running service, Stop errors are logged and skipped
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopReverse(h.started)
	h.started = h.started[:0]
}

func (h *Hub) stopReverse(names []string) {
	for _, name := range slices.Backward(names) {
		if err := h.services[name].Stop(); err != nil {
			h.log.Warn().Err(err).Str("service", name).Msg("stop failed")
		}
	}
}

// resolve returns a dependency-first order, visiting names and dependencies alphabetically
func (h *Hub) resolve() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(h.services))
	order := make([]string, 0, len(h.services))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(path, " -> "), name)
		}
		state[name] = visiting
		path = append(path, name)

		deps := slices.Sorted(slices.Values(h.services[name].Dependencies()))
		for _, dep := range deps {
			if _, ok := h.services[dep]; !ok {
				return fmt.Errorf("service %s depends on %w: %s", name, ErrUnknown, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(h.services)) {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Names returns the registered names, sorted
func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Sorted(maps.Keys(h.services))
}
