package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/niello/deusexmachina-sub012/core"
)

// ClockScheduler steps the world on a fixed tick
// Deadlines follow simulation time, so pausing the clock pauses ticking without busy-wait
type ClockScheduler struct {
	world *World
	clock *PausableClock

	tickInterval time.Duration
	nextTick     time.Duration // owned by the loop goroutine

	tickCount atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// updateDone signals the renderer that a tick completed, never blocks
	updateDone chan struct{}

	statTicks *atomic.Int64
}

// NewClockScheduler creates a scheduler and returns it with its tick-completed channel
func NewClockScheduler(world *World, clock *PausableClock, tickInterval time.Duration) (*ClockScheduler, <-chan struct{}) {
	updateDone := make(chan struct{}, 1)
	cs := &ClockScheduler{
		world:        world,
		clock:        clock,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		updateDone:   updateDone,
		statTicks:    world.Resources.Status.Counters.Get("engine.ticks"),
	}
	return cs, updateDone
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.nextTick = cs.clock.Elapsed() + cs.tickInterval
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for the running tick to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// Ticks returns the number of processed ticks
func (cs *ClockScheduler) Ticks() uint64 {
	return cs.tickCount.Load()
}

func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	timer := time.NewTimer(cs.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleep time.Duration
		if cs.clock.IsPaused() {
			// Poll slowly while paused
			sleep = cs.tickInterval * 2
		} else {
			now := cs.clock.Elapsed()
			if now >= cs.nextTick {
				cs.Tick()
				cs.nextTick += cs.tickInterval

				// Drop ticks instead of bursting after a stall
				if now-cs.nextTick > cs.tickInterval*2 {
					cs.nextTick = now + cs.tickInterval
				}
			}
			sleep = cs.nextTick - cs.clock.Elapsed()
		}

		if sleep > 0 {
			timer.Reset(sleep)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}

// Tick runs one fixed step unless the clock is paused
func (cs *ClockScheduler) Tick() {
	if cs.clock.IsPaused() {
		return
	}

	cs.world.Step(cs.tickInterval)
	ticks := cs.tickCount.Add(1)
	cs.statTicks.Store(int64(ticks))

	select {
	case cs.updateDone <- struct{}{}:
	default:
	}
}
