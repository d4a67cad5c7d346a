package sim

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/nav"
	"github.com/milk9111/enemyai/physics"
)

// Transition reports one brain state change.
type Transition struct {
	Entity ai.EntityRef
	Brain  string
	From   string
	To     string
	Target ai.EntityRef
	Now    float64
}

// World is the reference host for enemy brains. It owns the ECS world, the
// navigation grid and the physics space, and answers the brains' spatial
// and entity queries.
type World struct {
	ecs   *ecs.World
	grid  *nav.Grid
	space *physics.Space
	sched *ecs.Scheduler
	log   *zap.Logger
	rng   *rand.Rand

	aiming   bool
	stepping bool

	machines     map[ai.EntityRef]*ai.Machine
	onDestroyed  map[ai.EntityRef][]func(ai.EntityRef)
	onTransition func(Transition)
}

type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithSeed makes wander points and spawn yaws reproducible.
func WithSeed(seed uint64) Option {
	return func(w *World) {
		w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithTransitionHook(fn func(Transition)) Option {
	return func(w *World) {
		w.onTransition = fn
	}
}

func NewWorld(grid *nav.Grid, opts ...Option) *World {
	if grid == nil {
		grid = nav.NewGrid(32, 32, 1, common.Vec3{})
	}
	w := &World{
		ecs:         ecs.NewWorld(),
		grid:        grid,
		log:         zap.NewNop(),
		machines:    make(map[ai.EntityRef]*ai.Machine),
		onDestroyed: make(map[ai.EntityRef][]func(ai.EntityRef)),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewPCG(1, 2))
	}
	w.space = physics.NewSpace(w.log)
	w.sched = ecs.NewScheduler(
		NewNavigationSystem(),
		NewPhysicsSyncSystem(w.space),
		NewBrainSystem(w),
	)
	return w
}

// AddWall blocks the rectangle on the grid and adds it to the physics space.
func (w *World) AddWall(a, b common.Vec3) {
	w.grid.BlockRect(a, b)
	w.space.AddWall(a, b)
}

// Step advances the clock by dt and runs navigation, physics and brains in
// that order. Entities destroyed during the step are torn down afterwards.
func (w *World) Step(dt float64) {
	w.stepping = true
	w.sched.Step(w.ecs, dt)
	w.stepping = false
	w.processEvents()
}

// SetAiming publishes the player's aim state to every brain.
func (w *World) SetAiming(aiming bool) {
	w.aiming = aiming
}

func (w *World) Aiming() bool { return w.aiming }

func (w *World) Now() float64 { return w.ecs.Now() }

func (w *World) Grid() *nav.Grid { return w.grid }

func (w *World) Space() *physics.Space { return w.space }

func (w *World) ECS() *ecs.World { return w.ecs }

func (w *World) Rand() *rand.Rand { return w.rng }

func (w *World) Logger() *zap.Logger { return w.log }

func (w *World) frame() ai.Frame {
	return ai.Frame{Now: w.ecs.Now(), Dt: w.ecs.Dt(), Aiming: w.aiming}
}

// Machine returns the brain driving ref.
func (w *World) Machine(ref ai.EntityRef) (*ai.Machine, bool) {
	m, ok := w.machines[ref]
	return m, ok
}

func (w *World) IsAlive(ref ai.EntityRef) bool {
	return ref.Valid() && ecs.IsAlive(w.ecs, ecs.Entity(ref))
}

// OnDestroyed registers fn to run once ref is torn down.
func (w *World) OnDestroyed(ref ai.EntityRef, fn func(ai.EntityRef)) {
	if fn == nil || !w.IsAlive(ref) {
		return
	}
	w.onDestroyed[ref] = append(w.onDestroyed[ref], fn)
}

// Destroy removes ref at the end of the current step, or immediately when
// called between steps.
func (w *World) Destroy(ref ai.EntityRef) bool {
	if !w.IsAlive(ref) {
		return false
	}
	ecs.DestroyLater(w.ecs, ecs.Entity(ref))
	if !w.stepping {
		ecs.FlushDestroyed(w.ecs)
		w.processEvents()
	}
	return true
}

func (w *World) processEvents() {
	events := w.ecs.Events()
	for events.Len() > 0 {
		for _, evt := range events.Drain() {
			if evt.Type != ecs.EventEntityDestroyed {
				continue
			}
			w.teardown(ai.EntityRef(evt.Entity))
		}
	}
}

func (w *World) teardown(ref ai.EntityRef) {
	if m, ok := w.machines[ref]; ok {
		m.Destroy()
		delete(w.machines, ref)
	}
	w.space.Remove(ref)
	callbacks := w.onDestroyed[ref]
	delete(w.onDestroyed, ref)
	w.log.Debug("sim: entity destroyed", zap.Stringer("entity", ref))
	for _, fn := range callbacks {
		fn(ref)
	}
}

func (w *World) notifyTransition(ref ai.EntityRef, brain string, from, to ai.State, r ai.TransitionResult) {
	t := Transition{
		Entity: ref,
		Brain:  brain,
		From:   stateName(from),
		To:     stateName(to),
		Target: r.TargetOrNone(),
		Now:    w.ecs.Now(),
	}
	w.log.Debug("sim: state changed",
		zap.Stringer("entity", ref),
		zap.String("brain", brain),
		zap.String("from", t.From),
		zap.String("to", t.To),
		zap.Stringer("target", t.Target))
	if w.onTransition != nil {
		w.onTransition(t)
	}
}

func stateName(s ai.State) string {
	if s == nil {
		return ""
	}
	return s.Name()
}
