package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Vec3 is a world-space vector. Y is up; the ground plane is X/Z.
type Vec3 struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func Distance(a, b Vec3) float64 {
	return b.Sub(a).Len()
}

// HorizontalDistance measures distance on the X/Z plane.
func HorizontalDistance(a, b Vec3) float64 {
	return b.Sub(a).Flat().Len()
}

// AngleDeg returns the unsigned angle between a and b in degrees.
func AngleDeg(a, b Vec3) float64 {
	la := a.Len()
	lb := b.Len()
	if la < 1e-9 || lb < 1e-9 {
		return 0
	}
	c := Clamp(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(c) * 180 / math.Pi
}

// YawForward returns the unit forward vector for a yaw in degrees, where 0 faces +Z.
func YawForward(yawDeg float64) Vec3 {
	r := yawDeg * math.Pi / 180
	return Vec3{X: math.Sin(r), Z: math.Cos(r)}
}
