package parameter

import "math"

// Steering - arrival and path smoothing
const (
	// SteerLinearTolerance is the horizontal radius within which a destination counts as reached
	SteerLinearTolerance = 0.005

	// SteerSqLinearTolerance is SteerLinearTolerance squared, compared against squared XZ distances
	SteerSqLinearTolerance = SteerLinearTolerance * SteerLinearTolerance

	// SteerColinearCosSq is the squared cosine above which two path directions are merged
	// 0.99999 corresponds to roughly 0.256 degrees
	SteerColinearCosSq = 0.99999

	// TurnAngularTolerance is the facing error in radians within which a turn counts as finished
	TurnAngularTolerance = 0.0001

	// TurnArrivalZone is the angle below which angular speed ramps down (20 degrees)
	TurnArrivalZone = 20 * math.Pi / 180
)

// Off-mesh connections
const (
	// OffMeshTriggerRadiusScale multiplies agent radius to get the default trigger radius
	OffMeshTriggerRadiusScale = 1.2
)

// Character controller defaults
const (
	CharacterMaxLinearSpeed     = 3.0
	CharacterMaxAngularSpeed    = 2 * math.Pi
	CharacterArriveBrakingCoeff = 1.0 / (2 * 4.0) // 1/(2a) for a braking deceleration of 4 m/s²
	CharacterSteeringSmoothness = 0.3
	CharacterBigTurnThreshold   = math.Pi / 3

	// CharacterMinSmoothingDistance guards the NextDest smoothing division
	CharacterMinSmoothingDistance = 0.001
)
