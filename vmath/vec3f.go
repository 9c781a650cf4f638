package vmath

// Vec3F is a world-space position or direction, Y is up
// Locomotion works on the horizontal XZ plane, Y only separates height levels
type Vec3F struct {
	X, Y, Z float64
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// V3FLerp moves t of the way from a to b
func V3FLerp(a, b Vec3F, t float64) Vec3F {
	return V3FAdd(a, V3FScale(V3FSub(b, a), t))
}
