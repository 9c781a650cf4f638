package component

import (
	"github.com/niello/deusexmachina-sub012/parameter"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// CharacterState is the locomotion state selected by the character controller
type CharacterState uint8

const (
	CharacterStand CharacterState = iota
	CharacterWalk
	// CharacterShortStep is a small positional correction without turning to face the destination
	CharacterShortStep
)

// CharacterComponent drives a kinematic body from the agent's Steer/Turn actions
type CharacterComponent struct {
	State CharacterState

	// Facing is the horizontal look-at direction (normalized)
	Facing vmath.Vec3F

	// Velocity is the last desired linear velocity, angular is around +Y
	Velocity        vmath.Vec3F
	AngularVelocity float64

	MaxLinearSpeed  float64
	MaxAngularSpeed float64

	// ArriveBrakingCoeff is 1/(2·deceleration), braking distance = coeff·v²
	ArriveBrakingCoeff float64

	// SteeringSmoothness in [0,1) bends the trajectory toward NextDest at corners
	SteeringSmoothness float64

	// BigTurnThreshold is the facing error above which the character stops to turn
	BigTurnThreshold float64
}

// NewCharacterComponent returns a controller with engine defaults facing -Z
func NewCharacterComponent() CharacterComponent {
	return CharacterComponent{
		Facing:             vmath.Vec3F{Z: -1},
		MaxLinearSpeed:     parameter.CharacterMaxLinearSpeed,
		MaxAngularSpeed:    parameter.CharacterMaxAngularSpeed,
		ArriveBrakingCoeff: parameter.CharacterArriveBrakingCoeff,
		SteeringSmoothness: parameter.CharacterSteeringSmoothness,
		BigTurnThreshold:   parameter.CharacterBigTurnThreshold,
	}
}
