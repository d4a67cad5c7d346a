package sim

import (
	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/ecs/component"
)

var (
	_ ai.Spatial  = (*World)(nil)
	_ ai.Entities = (*World)(nil)
)

func (w *World) SampleWalkable(point common.Vec3, maxDistance float64) (common.Vec3, bool) {
	return w.grid.SamplePosition(point, maxDistance)
}

// Overlap returns living entities tagged tag near center. Corpses left in
// the world are skipped.
func (w *World) Overlap(center common.Vec3, radius float64, tag string) []ai.EntityRef {
	refs := w.space.Overlap(center, radius, tag)
	out := refs[:0]
	for _, ref := range refs {
		if w.IsAlive(ref) && !w.IsDead(ref) {
			out = append(out, ref)
		}
	}
	return out
}

func (w *World) Raycast(origin, dir common.Vec3, maxDistance float64, ignore ai.EntityRef) (ai.RayHit, bool) {
	return w.space.Raycast(origin, dir, maxDistance, ignore)
}

func (w *World) Position(ref ai.EntityRef) (common.Vec3, bool) {
	if !ref.Valid() {
		return common.Vec3{}, false
	}
	t, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}, false
	}
	return t.Position, true
}

func (w *World) Damageable(ref ai.EntityRef) (ai.Damageable, bool) {
	if !ref.Valid() || !ecs.Has(w.ecs, ecs.Entity(ref), component.HealthComponent.Kind()) {
		return nil, false
	}
	return damageable{world: w, ref: ref}, true
}

// Tag returns the label of ref.
func (w *World) Tag(ref ai.EntityRef) string {
	t, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.TagComponent.Kind())
	if !ok {
		return ""
	}
	return t.Name
}

// Health returns ref's current and max health.
func (w *World) Health(ref ai.EntityRef) (float64, float64, bool) {
	h, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.HealthComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	return h.Current, h.Max, true
}

// Enemies lists live enemies.
func (w *World) Enemies() []ai.EntityRef {
	var out []ai.EntityRef
	ecs.ForEach(w.ecs, component.EnemyTagComponent.Kind(), func(e ecs.Entity, _ *component.EnemyTag) {
		out = append(out, ai.EntityRef(e))
	})
	return out
}

// Player returns the first live player.
func (w *World) Player() (ai.EntityRef, bool) {
	var ref ai.EntityRef
	ecs.ForEach(w.ecs, component.PlayerTagComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag) {
		if !ref.Valid() {
			ref = ai.EntityRef(e)
		}
	})
	return ref, ref.Valid()
}
