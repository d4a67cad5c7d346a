package sim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/ecs/component"
	"github.com/milk9111/enemyai/nav"
	"github.com/milk9111/enemyai/prefabs"
)

const (
	EnemyTag         = "enemy"
	DefaultPlayerTag = "player"
)

var ErrNilBrain = errors.New("sim: nil brain")

// SpawnEnemy creates an enemy running a private machine built from brain and
// starts it. onDestroyed, when set, runs once the enemy is torn down.
func (w *World) SpawnEnemy(brain *ai.Brain, pos common.Vec3, yawDeg float64, onDestroyed func(ai.EntityRef)) (ai.EntityRef, error) {
	if brain == nil {
		return 0, ErrNilBrain
	}
	body := brain.Body.WithDefaults()

	e := ecs.CreateEntity(w.ecs)
	ref := ai.EntityRef(e)
	agent := nav.NewAgent(w.grid, pos, yawDeg)

	err := errors.Join(
		ecs.Add(w.ecs, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Forward: agent.Forward()}),
		ecs.Add(w.ecs, e, component.NavigationComponent.Kind(), &component.Navigation{Agent: agent}),
		ecs.Add(w.ecs, e, component.TagComponent.Kind(), &component.Tag{Name: EnemyTag}),
		ecs.Add(w.ecs, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{}),
		ecs.Add(w.ecs, e, component.HealthComponent.Kind(), &component.Health{
			Max:            body.MaxHealth,
			Current:        body.MaxHealth,
			DestroyOnDeath: *body.DestroyOnDeath,
		}),
		ecs.Add(w.ecs, e, component.ExplosiveComponent.Kind(), &component.Explosive{
			Radius: *body.ExplosionRadius,
			Damage: *body.ExplosionDamage,
		}),
		ecs.Add(w.ecs, e, component.AIInterruptComponent.Kind(), &component.AIInterrupt{}),
		ecs.Add(w.ecs, e, component.ColliderComponent.Kind(), &component.Collider{Radius: body.Radius}),
		ecs.Add(w.ecs, e, component.AppearanceComponent.Kind(), &component.Appearance{
			Color: body.Color.Or(colornames.Firebrick),
			Label: brain.Name,
		}),
	)
	if err != nil {
		w.Destroy(ref)
		return 0, fmt.Errorf("spawn %s: %w", brain.Name, err)
	}
	w.space.AddEntity(ref, pos, body.Radius, EnemyTag)

	host := ai.Host{
		Self:     ref,
		Body:     agent,
		Mover:    agent,
		Spatial:  w,
		Entities: w,
		Rand:     w.rng,
	}
	name := brain.Name
	m := brain.NewMachine(host,
		ai.WithLogger(w.log),
		ai.WithStartTime(w.ecs.Now()),
		ai.WithStateChangeCallback(func(from, to ai.State, r ai.TransitionResult) {
			w.notifyTransition(ref, name, from, to, r)
		}),
	)
	if err := ecs.Add(w.ecs, e, component.BrainComponent.Kind(), &component.Brain{Name: name, Machine: m}); err != nil {
		m.Destroy()
		w.Destroy(ref)
		return 0, fmt.Errorf("spawn %s: %w", brain.Name, err)
	}
	w.machines[ref] = m
	w.OnDestroyed(ref, onDestroyed)

	w.log.Debug("sim: enemy spawned",
		zap.Stringer("entity", ref),
		zap.String("brain", name),
		zap.Float64("x", pos.X),
		zap.Float64("z", pos.Z))

	m.Start(w.frame())
	return ref, nil
}

// SpawnPlayer creates the player from its prefab. The player moves on the
// same grid as the enemies but has no brain.
func (w *World) SpawnPlayer(spec *prefabs.PlayerSpec, pos common.Vec3) (ai.EntityRef, error) {
	if spec == nil {
		spec = &prefabs.PlayerSpec{}
	}
	tag := spec.Tag
	if tag == "" {
		tag = DefaultPlayerTag
	}
	radius := spec.Radius
	if radius <= 0 {
		radius = 0.4
	}
	maxHealth := max(1, spec.MaxHealth)
	if spec.MaxHealth == 0 {
		maxHealth = 100
	}

	e := ecs.CreateEntity(w.ecs)
	ref := ai.EntityRef(e)
	agent := nav.NewAgent(w.grid, pos, 0)
	if spec.MoveSpeed > 0 {
		agent.Configure(spec.MoveSpeed, 0.05)
	}

	err := errors.Join(
		ecs.Add(w.ecs, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Forward: agent.Forward()}),
		ecs.Add(w.ecs, e, component.NavigationComponent.Kind(), &component.Navigation{Agent: agent}),
		ecs.Add(w.ecs, e, component.TagComponent.Kind(), &component.Tag{Name: tag}),
		ecs.Add(w.ecs, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w.ecs, e, component.HealthComponent.Kind(), &component.Health{Max: maxHealth, Current: maxHealth}),
		ecs.Add(w.ecs, e, component.ColliderComponent.Kind(), &component.Collider{Radius: radius}),
		ecs.Add(w.ecs, e, component.AppearanceComponent.Kind(), &component.Appearance{
			Color: spec.Color.Or(colornames.Gold),
			Label: spec.Name,
		}),
	)
	if err != nil {
		w.Destroy(ref)
		return 0, fmt.Errorf("spawn player: %w", err)
	}
	w.space.AddEntity(ref, pos, radius, tag)
	w.log.Debug("sim: player spawned", zap.Stringer("entity", ref), zap.String("tag", tag))
	return ref, nil
}

// Agent returns the navigation agent of ref.
func (w *World) Agent(ref ai.EntityRef) (*nav.Agent, bool) {
	n, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.NavigationComponent.Kind())
	if !ok || n.Agent == nil {
		return nil, false
	}
	return n.Agent, true
}

// Teleport moves ref at once, bypassing its navigation path.
func (w *World) Teleport(ref ai.EntityRef, pos common.Vec3) bool {
	t, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.TransformComponent.Kind())
	if !ok {
		return false
	}
	if a, ok := w.Agent(ref); ok {
		a.Warp(pos)
	}
	t.Position = pos
	w.space.Move(ref, pos)
	w.space.Step(minStep)
	return true
}
