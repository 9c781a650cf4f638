package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/vmath"
)

type recordingSystem struct {
	name     string
	priority int
	journal  *[]string
}

func (s *recordingSystem) Name() string  { return s.name }
func (s *recordingSystem) Priority() int { return s.priority }
func (s *recordingSystem) Update()       { *s.journal = append(*s.journal, s.name) }

// TestWorld_SystemOrder verifies systems run by ascending priority, ties by name
func TestWorld_SystemOrder(t *testing.T) {
	w := NewWorld()
	var journal []string
	w.AddSystem(&recordingSystem{name: "late", priority: 30, journal: &journal})
	w.AddSystem(&recordingSystem{name: "early", priority: 10, journal: &journal})
	w.AddSystem(&recordingSystem{name: "tie", priority: 30, journal: &journal})
	w.AddSystem(&recordingSystem{name: "alpha", priority: 30, journal: &journal})
	// Same name replaces the earlier registration
	w.AddSystem(&recordingSystem{name: "early", priority: 5, journal: &journal})

	w.Step(16 * time.Millisecond)

	want := []string{"early", "alpha", "late", "tie"}
	if len(journal) != len(want) {
		t.Fatalf("Expected %d updates, got %v", len(want), journal)
	}
	for i := range want {
		if journal[i] != want[i] {
			t.Errorf("Update %d: expected %s, got %s", i, want[i], journal[i])
		}
	}

	if w.FrameNumber() != 1 {
		t.Errorf("Expected frame 1, got %d", w.FrameNumber())
	}
	if got := w.Resources.Time.DeltaSeconds(); got != 0.016 {
		t.Errorf("Expected delta 0.016s, got %v", got)
	}
	w.Step(4 * time.Millisecond)
	if w.Elapsed() != 20*time.Millisecond {
		t.Errorf("Expected 20ms elapsed, got %v", w.Elapsed())
	}
}

// TestStore_Order verifies stores keep insertion order across removals
func TestStore_Order(t *testing.T) {
	s := NewStore[int]()
	for e := 1; e <= 4; e++ {
		s.SetComponent(core.Entity(e), e*10)
	}
	s.SetComponent(2, 99) // update keeps position
	s.RemoveEntity(3)
	s.RemoveEntity(42)

	got := s.GetAllEntities()
	want := []int{1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if int(got[i]) != want[i] {
			t.Errorf("Position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if v, _ := s.GetComponent(2); v != 99 {
		t.Errorf("Expected updated value 99, got %d", v)
	}
	if v, ok := s.GetComponent(4); !ok || v != 40 {
		t.Errorf("Expected 40 for entity shifted by removal, got %d", v)
	}
	if s.CountEntities() != 3 {
		t.Errorf("Expected 3 entities, got %d", s.CountEntities())
	}

	if !s.MutateComponent(1, func(v *int) { *v++ }) {
		t.Error("Expected mutation of existing component to succeed")
	}
	if v, _ := s.GetComponent(1); v != 11 {
		t.Errorf("Expected 11 after mutation, got %d", v)
	}
	if s.MutateComponent(3, func(v *int) { *v++ }) {
		t.Error("Expected mutation of removed component to fail")
	}

	s.ClearAllComponents()
	if s.CountEntities() != 0 || s.HasEntity(1) {
		t.Error("Expected empty store after clear")
	}
}

// TestResourceStore verifies type-keyed resources
func TestResourceStore(t *testing.T) {
	rs := NewResourceStore()
	type settings struct{ name string }

	if _, ok := GetResource[*settings](rs); ok {
		t.Error("Expected missing resource")
	}

	AddResource(rs, &settings{name: "default"})
	got, ok := GetResource[*settings](rs)
	if !ok || got.name != "default" {
		t.Errorf("Expected default settings, got %v %v", got, ok)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required resource")
		}
	}()
	MustGetResource[string](rs)
}

// TestWorld_DestroyEntityResetsQueue verifies running actions are deactivated on destroy
func TestWorld_DestroyEntityResetsQueue(t *testing.T) {
	w := NewWorld()
	q := action.NewQueue()
	e := With(
		With(w.NewEntity(), w.Components.Queue, q),
		w.Components.NavAgent,
		component.NavAgentComponent{},
	).Build()

	h, err := Navigate(w, e, vmath.Vec3F{X: 5}, vmath.Vec3F{})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	w.DestroyEntity(e)

	if q.GetStatus(h) != action.StatusInvalid {
		t.Error("Expected Navigate handle to be invalidated")
	}
	if w.Components.Queue.HasEntity(e) || w.Components.NavAgent.HasEntity(e) {
		t.Error("Expected components to be removed")
	}
}

// TestNavigate_MissingCollaborator verifies entities without agent or queue are rejected
func TestNavigate_MissingCollaborator(t *testing.T) {
	w := NewWorld()

	noAgent := With(w.NewEntity(), w.Components.Queue, action.NewQueue()).Build()
	if _, err := Navigate(w, noAgent, vmath.Vec3F{}, vmath.Vec3F{}); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("Expected ErrMissingCollaborator without agent, got %v", err)
	}

	noQueue := With(w.NewEntity(), w.Components.NavAgent, component.NavAgentComponent{}).Build()
	if _, err := Navigate(w, noQueue, vmath.Vec3F{}, vmath.Vec3F{}); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("Expected ErrMissingCollaborator without queue, got %v", err)
	}
}

// TestEnqueueAction verifies the queue content is replaced
func TestEnqueueAction(t *testing.T) {
	w := NewWorld()
	q := action.NewQueue()
	e := With(w.NewEntity(), w.Components.Queue, q).Build()

	first, err := EnqueueAction(w, e, action.Navigate{Goal: vmath.Vec3F{X: 1}})
	if err != nil {
		t.Fatalf("EnqueueAction failed: %v", err)
	}
	second, err := EnqueueAction(w, e, action.Navigate{Goal: vmath.Vec3F{X: 2}})
	if err != nil {
		t.Fatalf("EnqueueAction failed: %v", err)
	}

	if q.GetStatus(first) != action.StatusInvalid {
		t.Error("Expected first Navigate to be replaced")
	}
	if nav, ok := action.Get[action.Navigate](q, second); !ok || nav.Goal.X != 2 {
		t.Errorf("Expected second goal, got %v", nav)
	}
}
