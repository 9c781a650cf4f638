package engine

import (
	"sync"
	"time"
)

// TimeSource supplies wall clock readings
type TimeSource interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// PausableClock measures simulation time, excluding the time spent paused
type PausableClock struct {
	mu  sync.RWMutex
	src TimeSource

	start       time.Time
	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

// NewPausableClock creates a running clock, nil src uses the system clock
func NewPausableClock(src TimeSource) *PausableClock {
	if src == nil {
		src = systemTime{}
	}
	return &PausableClock{
		src:   src,
		start: src.Now(),
	}
}

// Elapsed returns simulation time since creation, frozen while paused
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	now := pc.src.Now()
	if pc.paused {
		now = pc.pausedAt
	}
	return now.Sub(pc.start) - pc.pausedTotal
}

// Pause stops simulation time, pausing twice is a no-op
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pausedAt = pc.src.Now()
}

// Resume continues simulation time from where it was paused
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.pausedTotal += pc.src.Now().Sub(pc.pausedAt)
	pc.paused = false
	pc.pausedAt = time.Time{}
}

// Toggle flips the pause state and returns the new one
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// PausedTotal returns the cumulative pause duration, including the current pause
func (pc *PausableClock) PausedTotal() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	total := pc.pausedTotal
	if pc.paused {
		total += pc.src.Now().Sub(pc.pausedAt)
	}
	return total
}
