package engine

import (
	"sync"
	"testing"
	"time"
)

// manualTime is a TimeSource advanced by hand
type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// TestPausableClock verifies paused time is excluded from elapsed time
func TestPausableClock(t *testing.T) {
	src := &manualTime{now: time.Unix(1000, 0)}
	pc := NewPausableClock(src)

	src.Advance(2 * time.Second)
	if got := pc.Elapsed(); got != 2*time.Second {
		t.Errorf("Expected 2s elapsed, got %v", got)
	}

	pc.Pause()
	pc.Pause()
	src.Advance(5 * time.Second)
	if got := pc.Elapsed(); got != 2*time.Second {
		t.Errorf("Expected frozen 2s while paused, got %v", got)
	}
	if got := pc.PausedTotal(); got != 5*time.Second {
		t.Errorf("Expected 5s of pause, got %v", got)
	}

	if pc.Toggle() {
		t.Error("Expected Toggle to resume")
	}
	src.Advance(time.Second)
	if got := pc.Elapsed(); got != 3*time.Second {
		t.Errorf("Expected 3s elapsed after resume, got %v", got)
	}
	if !pc.Toggle() || !pc.IsPaused() {
		t.Error("Expected Toggle to pause")
	}
}

type countingSystem struct {
	mu    sync.Mutex
	count int
}

func (s *countingSystem) Name() string  { return "counter" }
func (s *countingSystem) Priority() int { return 0 }
func (s *countingSystem) Update() {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
}

func (s *countingSystem) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// TestClockScheduler_Tick verifies manual ticks honor the pause state
func TestClockScheduler_Tick(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	w.AddSystem(sys)

	clock := NewPausableClock(&manualTime{})
	cs, done := NewClockScheduler(w, clock, 20*time.Millisecond)

	cs.Tick()
	if sys.Count() != 1 || cs.Ticks() != 1 {
		t.Fatalf("Expected one tick, got %d systems updates, %d ticks", sys.Count(), cs.Ticks())
	}
	if w.Resources.Time.DeltaTime != 20*time.Millisecond {
		t.Errorf("Expected fixed delta, got %v", w.Resources.Time.DeltaTime)
	}
	select {
	case <-done:
	default:
		t.Error("Expected tick completion signal")
	}
	if got := w.Resources.Status.Counters.Get("engine.ticks").Load(); got != 1 {
		t.Errorf("Expected engine.ticks 1, got %d", got)
	}

	clock.Pause()
	cs.Tick()
	if sys.Count() != 1 {
		t.Error("Expected no tick while paused")
	}
}

// TestClockScheduler_Loop verifies the background loop ticks and stops
func TestClockScheduler_Loop(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	w.AddSystem(sys)

	cs, done := NewClockScheduler(w, NewPausableClock(nil), time.Millisecond)
	cs.Start()
	cs.Start()

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			cs.Stop()
			t.Fatal("Scheduler did not tick")
		}
	}

	cs.Stop()
	cs.Stop()
	stopped := sys.Count()
	time.Sleep(10 * time.Millisecond)
	if sys.Count() != stopped {
		t.Error("Expected no ticks after Stop")
	}
}
