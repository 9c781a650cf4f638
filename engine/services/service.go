package services

import "github.com/niello/deusexmachina-sub012/engine"

// Service is a non-ECS subsystem with an explicit lifecycle: audio, telemetry export, tick scheduling
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies names the services that must be initialized and started first
	Dependencies() []string

	// Init wires the service to the world, called once before any Start
	Init(world *engine.World) error

	Start() error

	// Stop halts the service and releases its resources, must be safe to call after a failed Start
	Stop() error
}
