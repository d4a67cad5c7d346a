package sim

import (
	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/ecs/component"
)

// damageable is the ai.Damageable view of an entity with Health.
type damageable struct {
	world *World
	ref   ai.EntityRef
}

func (d damageable) IsAlive() bool {
	h, ok := ecs.Get(d.world.ecs, ecs.Entity(d.ref), component.HealthComponent.Kind())
	return ok && !h.Dead
}

func (d damageable) TakeDamage(amount float64, source ai.EntityRef) bool {
	return d.world.Damage(d.ref, amount, source)
}

// Damage subtracts amount from ref's health and kills it at zero. Non-positive
// amounts and dead targets are rejected.
func (w *World) Damage(ref ai.EntityRef, amount float64, source ai.EntityRef) bool {
	e := ecs.Entity(ref)
	h, ok := ecs.Get(w.ecs, e, component.HealthComponent.Kind())
	if !ok || h.Dead || amount <= 0 {
		return false
	}
	h.Current = max(0, h.Current-amount)
	w.log.Debug("sim: damage taken",
		zap.Stringer("entity", ref),
		zap.Stringer("source", source),
		zap.Float64("amount", amount),
		zap.Float64("health", h.Current),
		zap.Float64("max_health", h.Max))
	if h.Current <= 0 {
		w.kill(ref, h)
	}
	return true
}

func (w *World) kill(ref ai.EntityRef, h *component.Health) {
	h.Dead = true
	e := ecs.Entity(ref)
	if it, ok := ecs.Get(w.ecs, e, component.AIInterruptComponent.Kind()); ok {
		it.Armed = false
	}
	w.suspend(ref)
	w.log.Info("sim: entity died", zap.Stringer("entity", ref), zap.String("tag", w.Tag(ref)))
	if h.DestroyOnDeath {
		w.Destroy(ref)
	}
}

// IsDead reports whether ref has health and has run out of it.
func (w *World) IsDead(ref ai.EntityRef) bool {
	h, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.HealthComponent.Kind())
	return ok && h.Dead
}

// suspend raises the brain's transition lock and halts navigation.
func (w *World) suspend(ref ai.EntityRef) {
	if m, ok := w.machines[ref]; ok {
		m.SetTransitionLock(true)
	}
	if n, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.NavigationComponent.Kind()); ok && n.Agent != nil {
		n.Agent.Disable()
	}
}
