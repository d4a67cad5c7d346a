package ai

import "github.com/milk9111/enemyai/common"

// Body exposes the agent's own transform.
type Body interface {
	Position() common.Vec3
	Forward() common.Vec3
}

// Mover is the navigation collaborator driving the agent.
type Mover interface {
	RequestMove(destination common.Vec3) bool
	Stop()
	HasArrived() bool
	RemainingDistance() float64
	// Usable is false while the mover is disabled or off the walkable surface.
	Usable() bool
	Configure(speed, stoppingDistance float64)
}

type RayHit struct {
	Entity   EntityRef
	Point    common.Vec3
	Distance float64
}

// Spatial answers world geometry queries. Implementations must not mutate
// the world while answering.
type Spatial interface {
	SampleWalkable(point common.Vec3, maxDistance float64) (common.Vec3, bool)
	Overlap(center common.Vec3, radius float64, tag string) []EntityRef
	// Raycast returns the first surface or entity hit along dir within
	// maxDistance, skipping ignore.
	Raycast(origin, dir common.Vec3, maxDistance float64, ignore EntityRef) (RayHit, bool)
}

type Damageable interface {
	IsAlive() bool
	TakeDamage(amount float64, source EntityRef) bool
}

// Entities resolves handles. Destroyed entities stop resolving.
type Entities interface {
	Position(ref EntityRef) (common.Vec3, bool)
	Damageable(ref EntityRef) (Damageable, bool)
}

type Rand interface {
	Float64() float64
}

// Host bundles everything a machine needs from the surrounding world.
type Host struct {
	Self     EntityRef
	Body     Body
	Mover    Mover
	Spatial  Spatial
	Entities Entities
	Rand     Rand
}

func (h *Host) position() common.Vec3 {
	if h == nil || h.Body == nil {
		return common.Vec3{}
	}
	return h.Body.Position()
}

func (h *Host) forward() common.Vec3 {
	if h == nil || h.Body == nil {
		return common.Vec3{Z: 1}
	}
	f := h.Body.Forward()
	if f.IsZero() {
		return common.Vec3{Z: 1}
	}
	return f
}

func (h *Host) moverUsable() bool {
	return h != nil && h.Mover != nil && h.Mover.Usable()
}

func (h *Host) stop() {
	if !h.moverUsable() {
		return
	}
	h.Mover.Stop()
}

func (h *Host) resolve(ref EntityRef) (common.Vec3, bool) {
	if h == nil || h.Entities == nil || !ref.Valid() {
		return common.Vec3{}, false
	}
	return h.Entities.Position(ref)
}

func (h *Host) randFloat() float64 {
	if h == nil || h.Rand == nil {
		return 0.5
	}
	return h.Rand.Float64()
}
