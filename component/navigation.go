package component

import (
	"github.com/niello/deusexmachina-sub012/navigation"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// NavAgentComponent is the navigation mesh agent state
// Position and Mode are owned by the simulation, Corridor by the navigation service,
// steering only reads them
type NavAgentComponent struct {
	Position vmath.Vec3F
	Height   float64
	Radius   float64

	Mode navigation.Mode

	// Corridor is refreshed by the navigation service, nil when the agent has no goal
	Corridor *navigation.Corridor

	// Mesh answers straight path queries over Corridor
	Mesh navigation.Service

	// Settings names the area-action table used to resolve traversal variants
	Settings string

	// OffMeshTriggerRadius is the default off-mesh connection trigger radius
	OffMeshTriggerRadius float64
}

// CurrentArea returns the area type of the polygon the agent stands on
func (a *NavAgentComponent) CurrentArea() navigation.AreaType {
	if a.Corridor == nil {
		return 0
	}
	return a.Corridor.Area
}
