package steering

import (
	"fmt"

	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/navigation"
)

// VariantID is the dense tag a Registry assigns to a traversal variant
// Zero means "no variant"
type VariantID uint16

// Binding is the resolved owner of an area
type Binding struct {
	ID         VariantID
	Action     Traversal
	Controller core.Entity
}

type areaBinding struct {
	id            VariantID
	controller    core.Entity
	controllable  bool
	triggerRadius float64
}

// Registry maps area types to traversal variants
// Mutated only during setup, afterwards every query is a pure read and safe from any goroutine
type Registry struct {
	variants []Traversal
	byName   map[string]VariantID
	areas    map[navigation.AreaType]areaBinding
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]VariantID),
		areas:  make(map[navigation.AreaType]areaBinding),
	}
}

// Register assigns a tag to t, registering the same name twice returns the first tag
func (r *Registry) Register(t Traversal) VariantID {
	if id, ok := r.byName[t.Name()]; ok {
		return id
	}
	r.variants = append(r.variants, t)
	id := VariantID(len(r.variants))
	r.byName[t.Name()] = id
	return id
}

// Lookup returns the tag registered under name
func (r *Registry) Lookup(name string) (VariantID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Variant returns the traversal registered under id, nil for unknown tags
func (r *Registry) Variant(id VariantID) Traversal {
	if id == 0 || int(id) > len(r.variants) {
		return nil
	}
	return r.variants[id-1]
}

// Bind makes variant id own area, a valid controller entity makes the area controllable
func (r *Registry) Bind(area navigation.AreaType, id VariantID, controller core.Entity) error {
	if r.Variant(id) == nil {
		return fmt.Errorf("steering: bind area %d: unknown variant %d", area, id)
	}
	b := r.areas[area]
	b.id = id
	b.controller = controller
	b.controllable = b.controllable || controller.Valid()
	r.areas[area] = b
	return nil
}

// BindAreaTable binds every mapped area of t by variant name
func (r *Registry) BindAreaTable(t navigation.AreaTable) error {
	for _, def := range t.Areas {
		if def.Variant == "" {
			continue
		}
		id, ok := r.Lookup(def.Variant)
		if !ok {
			return fmt.Errorf("steering: area %s: variant %q not registered", def.Name, def.Variant)
		}
		r.areas[def.ID] = areaBinding{
			id:            id,
			controllable:  def.Controllable,
			triggerRadius: def.TriggerRadius,
		}
	}
	return nil
}

// LoadAreaTable reads a YAML area table and binds it
func (r *Registry) LoadAreaTable(path string) error {
	t, err := navigation.LoadAreaTable(path)
	if err != nil {
		return err
	}
	return r.BindAreaTable(t)
}

// BindController attaches a controller entity to an already bound area
func (r *Registry) BindController(area navigation.AreaType, controller core.Entity) error {
	b, ok := r.areas[area]
	if !ok {
		return fmt.Errorf("steering: area %d is not bound", area)
	}
	b.controller = controller
	b.controllable = true
	r.areas[area] = b
	return nil
}

// FindAction resolves the variant owning a polygon of the given area
// false means no variant owns it, which callers treat as a traversal boundary
func (r *Registry) FindAction(w *engine.World, agent *component.NavAgentComponent, area navigation.AreaType, poly navigation.PolyRef) (Binding, bool) {
	b, ok := r.areas[area]
	if !ok {
		return Binding{}, false
	}
	return Binding{
		ID:         b.id,
		Action:     r.variants[b.id-1],
		Controller: b.controller,
	}, true
}

// IsAreaControllable reports whether the area needs per-polygon corners
func (r *Registry) IsAreaControllable(area navigation.AreaType) bool {
	return r.areas[area].controllable
}

// TriggerRadius returns the area's off-mesh trigger radius override, zero if none
func (r *Registry) TriggerRadius(area navigation.AreaType) float64 {
	return r.areas[area].triggerRadius
}

// Library holds the registries agents select by NavAgentComponent.Settings
// Installed as a world resource
type Library struct {
	registries map[string]*Registry
	fallback   *Registry
}

// NewLibrary creates a library resolving unknown names to fallback
func NewLibrary(fallback *Registry) *Library {
	return &Library{
		registries: make(map[string]*Registry),
		fallback:   fallback,
	}
}

// Add registers a named registry
func (l *Library) Add(name string, r *Registry) {
	l.registries[name] = r
}

// Get returns the registry for name, or the fallback
func (l *Library) Get(name string) *Registry {
	if r, ok := l.registries[name]; ok {
		return r
	}
	return l.fallback
}
