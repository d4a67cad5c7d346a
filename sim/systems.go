package sim

import (
	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/ecs/component"
	"github.com/milk9111/enemyai/physics"
)

// minStep refreshes the physics query index without a real step.
const minStep = 1e-6

// NavigationSystem advances every agent along its path and publishes the
// result to the entity's Transform.
type NavigationSystem struct{}

func NewNavigationSystem() *NavigationSystem {
	return &NavigationSystem{}
}

func (s *NavigationSystem) Update(w *ecs.World) {
	dt := w.Dt()
	ecs.ForEach2(w, component.NavigationComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, n *component.Navigation, t *component.Transform) {
		if n.Agent == nil {
			return
		}
		n.Agent.Step(dt)
		t.Position = n.Agent.Position()
		t.Forward = n.Agent.Forward()
	})
}

// PhysicsSyncSystem copies transforms into the physics space and steps it so
// queries made by brains later in the frame see current positions.
type PhysicsSyncSystem struct {
	space *physics.Space
}

func NewPhysicsSyncSystem(space *physics.Space) *PhysicsSyncSystem {
	return &PhysicsSyncSystem{space: space}
}

func (s *PhysicsSyncSystem) Update(w *ecs.World) {
	if s == nil || s.space == nil {
		return
	}
	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Transform) {
		s.space.Move(ai.EntityRef(e), t.Position)
	})
	dt := w.Dt()
	if dt <= 0 {
		dt = minStep
	}
	s.space.Step(dt)
}

// BrainSystem ticks every enemy brain once per step.
type BrainSystem struct {
	world *World
}

func NewBrainSystem(world *World) *BrainSystem {
	return &BrainSystem{world: world}
}

func (s *BrainSystem) Update(w *ecs.World) {
	f := s.world.frame()
	ecs.ForEach(w, component.BrainComponent.Kind(), func(_ ecs.Entity, b *component.Brain) {
		b.Machine.FixedTick(f)
		b.Machine.Tick(f)
	})
}
