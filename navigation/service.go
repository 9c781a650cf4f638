package navigation

import (
	"github.com/niello/deusexmachina-sub012/vmath"
)

// Service is the navigation mesh query surface consumed by steering
// Implementations own corridor refresh and repathing, steering only reads
type Service interface {
	// OpenCursor starts a straight path walk from 'from' to 'target' through path
	OpenCursor(from, target vmath.Vec3F, path []PolyRef, opts CrossingOptions) (Cursor, error)
}

// Cursor iterates the corners of a straight path
// Next returns ErrEndOfPath once the corner flagged CornerEnd was consumed
type Cursor interface {
	Next() (Corner, error)
}

// Corridor is the polygon path from the agent's polygon to its goal
type Corridor struct {
	// Pos is the agent position clamped to the first polygon
	Pos vmath.Vec3F
	// RecoveryPos is where the last off-mesh connection ended
	RecoveryPos vmath.Vec3F
	Target      vmath.Vec3F
	Path        []PolyRef
	// Area is the area type of the first polygon
	Area AreaType
}

// Len returns the number of polygons left in the corridor
func (c *Corridor) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Path)
}

// FirstPoly returns the polygon the agent stands on, zero if the corridor is empty
func (c *Corridor) FirstPoly() PolyRef {
	if c.Len() == 0 {
		return 0
	}
	return c.Path[0]
}

// Refresher is implemented by services that keep a corridor in sync with the agent
type Refresher interface {
	// Advance moves the corridor origin to pos and trims polygons the agent has left
	Advance(c *Corridor, pos vmath.Vec3F, sqTolerance float64)
}
