package common

import (
	"math"
	"testing"
)

func TestAngleDeg(t *testing.T) {
	cases := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"same", V3(0, 0, 1), V3(0, 0, 5), 0},
		{"right_angle", V3(0, 0, 1), V3(1, 0, 0), 90},
		{"opposite", V3(0, 0, 1), V3(0, 0, -1), 180},
		{"zero_vector", Vec3{}, V3(1, 0, 0), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AngleDeg(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("AngleDeg = %v, want %v", got, c.want)
			}
		})
	}
}

func TestHorizontalDistanceIgnoresHeight(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(3, 100, 4)
	if got := HorizontalDistance(a, b); got != 5 {
		t.Fatalf("HorizontalDistance = %v, want 5", got)
	}
	if got := Distance(a, b); got <= 100 {
		t.Fatalf("Distance should include height, got %v", got)
	}
}

func TestYawForward(t *testing.T) {
	f := YawForward(90)
	if math.Abs(f.X-1) > 1e-9 || math.Abs(f.Z) > 1e-9 {
		t.Fatalf("YawForward(90) = %+v, want +X", f)
	}
}
