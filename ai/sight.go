package ai

import (
	"github.com/milk9111/enemyai/common"
)

const minSightDistance = 0.001

// Sight holds the view cone shared by visibility-based conditions.
type Sight struct {
	ViewDistance float64     `yaml:"view_distance"`
	ViewAngle    float64     `yaml:"view_angle"`
	EyeOffset    common.Vec3 `yaml:"eye_offset"`
}

func defaultSight() Sight {
	return Sight{
		ViewDistance: 18,
		ViewAngle:    110,
		EyeOffset:    common.V3(0, 0.9, 0),
	}
}

func (s Sight) halfAngle() float64 {
	return common.Clamp(s.ViewAngle, 1, 180) * 0.5
}

func (s Sight) origin(h *Host) common.Vec3 {
	return h.position().Add(s.EyeOffset)
}

// visible reports whether target is inside the cone and the sight line to it
// is not blocked by anything else.
func (s Sight) visible(h *Host, target EntityRef) bool {
	if h == nil || h.Spatial == nil {
		return false
	}
	pos, ok := h.resolve(target)
	if !ok {
		return false
	}
	return s.visibleAt(h, s.origin(h), target, pos)
}

func (s Sight) visibleAt(h *Host, origin common.Vec3, target EntityRef, pos common.Vec3) bool {
	to := pos.Sub(origin)
	dist := to.Len()
	if dist < minSightDistance || dist > s.ViewDistance {
		return false
	}
	dir := to.Scale(1 / dist)
	if common.AngleDeg(h.forward(), dir) > s.halfAngle() {
		return false
	}
	hit, blocked := h.Spatial.Raycast(origin, dir, dist, h.Self)
	if !blocked {
		return true
	}
	return hit.Entity == target
}
