package action

import (
	"github.com/niello/deusexmachina-sub012/vmath"
)

// Distance is the path length left after the current destination, used for arrival slowdown
// Slowdown false disables slowdown entirely, which is distinct from a zero distance slowdown
type Distance struct {
	Value    float64
	Slowdown bool
}

// NoSlowdown is the disabled slowdown sentinel
var NoSlowdown = Distance{}

// SlowdownAfter requests slowdown with d extra meters past the destination
func SlowdownAfter(d float64) Distance {
	if d < 0 {
		d = 0
	}
	return Distance{Value: d, Slowdown: true}
}

// Navigate is the long lived "move to goal" action
// Its single child is a Steer or Turn refreshed every tick by the traversal variant
type Navigate struct {
	Goal vmath.Vec3F

	// FinalFacing offsets the last NextDest so the agent arrives oriented, zero for don't care
	FinalFacing vmath.Vec3F
}

func (Navigate) Kind() Kind { return KindNavigate }

// Steer moves the agent to Dest, curving toward NextDest when they differ
type Steer struct {
	Dest               vmath.Vec3F
	NextDest           vmath.Vec3F
	AdditionalDistance Distance
}

func (Steer) Kind() Kind { return KindSteer }

// Turn rotates the agent in place until facing LookatDirection
type Turn struct {
	LookatDirection  vmath.Vec3F
	AngularTolerance float64
}

func (Turn) Kind() Kind { return KindTurn }

// NewTurn builds a Turn with a normalized horizontal direction
func NewTurn(dir vmath.Vec3F, tolerance float64) Turn {
	return Turn{
		LookatDirection:  vmath.V3FNormalize2D(dir),
		AngularTolerance: tolerance,
	}
}
