package navigation

import (
	"errors"
	"fmt"

	"github.com/niello/deusexmachina-sub012/vmath"
)

var (
	// ErrEndOfPath is returned by Cursor.Next after the final corner was read
	ErrEndOfPath = errors.New("navigation: end of path")

	// ErrNoPath is returned when a cursor is requested over an empty corridor
	ErrNoPath = errors.New("navigation: empty corridor")

	// ErrUnknownPolygon is returned when a corridor references a polygon the mesh doesn't have
	ErrUnknownPolygon = errors.New("navigation: unknown polygon")
)

// AreaType tags a polygon with its traversal kind (ground, ladder, off-mesh link...)
type AreaType uint8

// PolyRef identifies a navigation mesh polygon, zero is "no polygon"
type PolyRef uint32

// CornerFlags describe the crossing a straight path corner represents
type CornerFlags uint8

const (
	// CornerStart marks the first corner, the cursor origin
	CornerStart CornerFlags = 1 << iota
	// CornerEnd marks the corridor target
	CornerEnd
	// CornerOffMesh marks the start of an off-mesh connection
	CornerOffMesh
)

func (f CornerFlags) Has(flag CornerFlags) bool {
	return f&flag != 0
}

// CrossingOptions select which polygon boundaries produce extra corners
type CrossingOptions uint8

const (
	// CrossArea emits a corner wherever the area type changes
	CrossArea CrossingOptions = iota
	// CrossAll emits a corner at every polygon boundary
	CrossAll
)

// Corner is one vertex of the straight path
// Area and Poly describe the polygon that starts at this corner
type Corner struct {
	Point vmath.Vec3F
	Flags CornerFlags
	Area  AreaType
	Poly  PolyRef
}

// Mode is the agent movement state relative to the navigation mesh
type Mode uint8

const (
	// ModeNormal means the agent stands on a valid polygon
	ModeNormal Mode = iota
	// ModeRecovery means the agent left the navigable surface and must walk back
	ModeRecovery
	// ModeOffMesh means the agent is on, or just finished, an off-mesh connection
	ModeOffMesh
)

var modeNames = [...]string{
	ModeNormal:   "normal",
	ModeRecovery: "recovery",
	ModeOffMesh:  "offmesh",
}

func (m Mode) String() string {
	if int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", m)
	}
	return modeNames[m]
}

// ParseMode converts a configuration string to a Mode
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("navigation: unknown mode %q", s)
}

// MustParseMode is ParseMode for static configuration, an unknown mode is unrecoverable
func MustParseMode(s string) Mode {
	m, err := ParseMode(s)
	if err != nil {
		panic(err)
	}
	return m
}
