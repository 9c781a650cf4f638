package vmath

import (
	"math"
)

// --- Horizontal (XZ) plane helpers ---

// V3FFlat drops the vertical component
func V3FFlat(v Vec3F) Vec3F {
	return Vec3F{v.X, 0, v.Z}
}

// V3FDot2D is the dot product of the XZ projections
func V3FDot2D(a, b Vec3F) float64 {
	return a.X*b.X + a.Z*b.Z
}

// V3FMagSq2D is the squared length of the XZ projection
func V3FMagSq2D(v Vec3F) float64 {
	return v.X*v.X + v.Z*v.Z
}

func V3FMag2D(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq2D(v))
}

// V3FSqDist2D is the squared horizontal distance between a and b
func V3FSqDist2D(a, b Vec3F) float64 {
	dx := b.X - a.X
	dz := b.Z - a.Z
	return dx*dx + dz*dz
}

func V3FDist2D(a, b Vec3F) float64 {
	return math.Sqrt(V3FSqDist2D(a, b))
}

// V3FNormalize2D returns the unit XZ direction of v, zero vector when degenerate
func V3FNormalize2D(v Vec3F) Vec3F {
	magSq := V3FMagSq2D(v)
	if magSq == 0 {
		return Vec3F{}
	}
	inv := 1.0 / math.Sqrt(magSq)
	return Vec3F{v.X * inv, 0, v.Z * inv}
}

// Angle2D returns the signed angle in radians that rotates from onto to around +Y
// Result is in (-Pi, Pi], zero if either vector is degenerate
func Angle2D(from, to Vec3F) float64 {
	cross := from.Z*to.X - from.X*to.Z
	dot := from.X*to.X + from.Z*to.Z
	if cross == 0 && dot == 0 {
		return 0
	}
	return math.Atan2(cross, dot)
}

// V3FRotateY rotates v around +Y by angle radians
func V3FRotateY(v Vec3F, angle float64) Vec3F {
	sin, cos := math.Sincos(angle)
	return Vec3F{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// IsColinear2D reports whether the XZ directions a and b are parallel within cosSqThreshold
// Compares dot² against |a|²|b|²·threshold, so no trigonometry or division is involved
// Opposite directions are never colinear
func IsColinear2D(a, b Vec3F, cosSqThreshold float64) bool {
	dot := V3FDot2D(a, b)
	if dot <= 0 {
		return false
	}
	return dot*dot > V3FMagSq2D(a)*V3FMagSq2D(b)*cosSqThreshold
}

// SameHeightLevel reports whether two points are vertically closer than height
func SameHeightLevel(a, b Vec3F, height float64) bool {
	return math.Abs(b.Y-a.Y) < height
}
