package main

import (
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/status"
)

// telemetryService exports the world status registry through the global OpenTelemetry meter
type telemetryService struct {
	reg    *status.Registry
	bridge *status.Bridge
}

func (t *telemetryService) Name() string           { return "telemetry" }
func (t *telemetryService) Dependencies() []string { return nil }

func (t *telemetryService) Init(world *engine.World) error {
	t.reg = world.Resources.Status
	return nil
}

func (t *telemetryService) Start() error {
	b, err := status.NewBridge(t.reg, nil)
	if err != nil {
		return err
	}
	t.bridge = b
	return nil
}

func (t *telemetryService) Stop() error {
	if t.bridge == nil {
		return nil
	}
	err := t.bridge.Close()
	t.bridge = nil
	return err
}

// schedulerService ticks the world, started last so every consumer is ready
type schedulerService struct {
	scheduler *engine.ClockScheduler
}

func (s *schedulerService) Name() string           { return "scheduler" }
func (s *schedulerService) Dependencies() []string { return []string{"audio", "telemetry"} }

func (s *schedulerService) Init(*engine.World) error { return nil }

func (s *schedulerService) Start() error {
	s.scheduler.Start()
	return nil
}

func (s *schedulerService) Stop() error {
	s.scheduler.Stop()
	return nil
}
