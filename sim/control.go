package sim

import (
	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/ecs/component"
)

func (w *World) interrupt(ref ai.EntityRef) (*component.AIInterrupt, bool) {
	if w.IsDead(ref) {
		return nil, false
	}
	return ecs.Get(w.ecs, ecs.Entity(ref), component.AIInterruptComponent.Kind())
}

// Capture takes an enemy out of its brain's hands: transitions lock and
// navigation stops. A captured enemy is never armed.
func (w *World) Capture(ref ai.EntityRef) bool {
	it, ok := w.interrupt(ref)
	if !ok {
		return false
	}
	it.Captured = true
	it.Armed = false
	w.suspend(ref)
	w.log.Debug("sim: enemy captured", zap.Stringer("entity", ref))
	return true
}

// Arm suspends an enemy like Capture and primes it to explode.
func (w *World) Arm(ref ai.EntityRef) bool {
	it, ok := w.interrupt(ref)
	if !ok {
		return false
	}
	it.Armed = true
	w.suspend(ref)
	w.log.Debug("sim: enemy armed", zap.Stringer("entity", ref))
	return true
}

// Release hands a captured or armed enemy back to its brain.
func (w *World) Release(ref ai.EntityRef) bool {
	it, ok := w.interrupt(ref)
	if !ok || (!it.Captured && !it.Armed) {
		return false
	}
	it.Captured = false
	it.Armed = false
	if m, ok := w.machines[ref]; ok {
		m.SetTransitionLock(false)
	}
	if n, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.NavigationComponent.Kind()); ok && n.Agent != nil {
		n.Agent.Enable()
	}
	w.log.Debug("sim: enemy released", zap.Stringer("entity", ref))
	return true
}

// IsArmed reports whether ref is primed to explode.
func (w *World) IsArmed(ref ai.EntityRef) bool {
	it, ok := w.interrupt(ref)
	return ok && it.Armed
}

// Detonate blows up an armed enemy. Every other living damageable in range
// takes the blast damage once, except the player. The enemy is destroyed.
// It returns the entities that were hit.
func (w *World) Detonate(ref ai.EntityRef) ([]ai.EntityRef, bool) {
	if !w.IsArmed(ref) {
		return nil, false
	}
	center, _ := w.Position(ref)
	blast := component.Explosive{}
	if ex, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.ExplosiveComponent.Kind()); ok {
		blast = *ex
	}

	var hit []ai.EntityRef
	for _, other := range w.space.Overlap(center, blast.Radius, "") {
		if other == ref || ecs.Has(w.ecs, ecs.Entity(other), component.PlayerTagComponent.Kind()) {
			continue
		}
		d, ok := w.Damageable(other)
		if !ok || !d.IsAlive() {
			continue
		}
		if d.TakeDamage(blast.Damage, ref) {
			hit = append(hit, other)
		}
	}
	w.log.Info("sim: enemy detonated",
		zap.Stringer("entity", ref),
		zap.Float64("radius", blast.Radius),
		zap.Int("hit", len(hit)))
	w.Destroy(ref)
	return hit, true
}
