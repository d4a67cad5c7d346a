package ai

import (
	"github.com/milk9111/enemyai/common"
)

const self EntityRef = 1

type fakeBody struct {
	pos common.Vec3
	fwd common.Vec3
}

func (b *fakeBody) Position() common.Vec3 { return b.pos }
func (b *fakeBody) Forward() common.Vec3  { return b.fwd }

type fakeMover struct {
	usable    bool
	requests  []common.Vec3
	stops     int
	arrived   bool
	remaining float64
	speed     float64
	stopping  float64
}

func newFakeMover() *fakeMover {
	return &fakeMover{usable: true, remaining: 10}
}

func (m *fakeMover) RequestMove(dst common.Vec3) bool {
	m.requests = append(m.requests, dst)
	return true
}
func (m *fakeMover) Stop()                      { m.stops++ }
func (m *fakeMover) HasArrived() bool           { return m.arrived }
func (m *fakeMover) RemainingDistance() float64 { return m.remaining }
func (m *fakeMover) Usable() bool               { return m.usable }
func (m *fakeMover) Configure(speed, stopping float64) {
	m.speed = speed
	m.stopping = stopping
}

type fakeDamageable struct {
	health float64
	hits   []float64
}

func (d *fakeDamageable) IsAlive() bool { return d.health > 0 }

func (d *fakeDamageable) TakeDamage(amount float64, _ EntityRef) bool {
	if amount <= 0 || !d.IsAlive() {
		return false
	}
	d.hits = append(d.hits, amount)
	d.health -= amount
	return true
}

// fakeWorld answers queries from plain maps. When blocked is set every ray
// hits a wall halfway.
type fakeWorld struct {
	pos     map[EntityRef]common.Vec3
	tags    map[EntityRef]string
	health  map[EntityRef]*fakeDamageable
	blocked bool
	rays    int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		pos:    make(map[EntityRef]common.Vec3),
		tags:   make(map[EntityRef]string),
		health: make(map[EntityRef]*fakeDamageable),
	}
}

func (w *fakeWorld) add(ref EntityRef, tag string, pos common.Vec3) *fakeDamageable {
	w.pos[ref] = pos
	w.tags[ref] = tag
	d := &fakeDamageable{health: 100}
	w.health[ref] = d
	return d
}

func (w *fakeWorld) destroy(ref EntityRef) {
	delete(w.pos, ref)
	delete(w.tags, ref)
	delete(w.health, ref)
}

func (w *fakeWorld) Position(ref EntityRef) (common.Vec3, bool) {
	p, ok := w.pos[ref]
	return p, ok
}

func (w *fakeWorld) Damageable(ref EntityRef) (Damageable, bool) {
	d, ok := w.health[ref]
	if !ok {
		return nil, false
	}
	return d, true
}

func (w *fakeWorld) SampleWalkable(p common.Vec3, _ float64) (common.Vec3, bool) {
	return p, true
}

func (w *fakeWorld) Overlap(center common.Vec3, radius float64, tag string) []EntityRef {
	var out []EntityRef
	for ref, p := range w.pos {
		if w.tags[ref] != tag {
			continue
		}
		if common.Distance(center, p) <= radius {
			out = append(out, ref)
		}
	}
	return out
}

func (w *fakeWorld) Raycast(origin, dir common.Vec3, maxDistance float64, _ EntityRef) (RayHit, bool) {
	w.rays++
	if !w.blocked {
		return RayHit{}, false
	}
	d := maxDistance / 2
	return RayHit{Point: origin.Add(dir.Scale(d)), Distance: d}, true
}

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

type rig struct {
	world *fakeWorld
	body  *fakeBody
	mover *fakeMover
	host  Host
}

func newRig() *rig {
	r := &rig{
		world: newFakeWorld(),
		body:  &fakeBody{fwd: common.V3(0, 0, 1)},
		mover: newFakeMover(),
	}
	r.world.pos[self] = r.body.pos
	r.host = Host{
		Self:     self,
		Body:     r.body,
		Mover:    r.mover,
		Spatial:  r.world,
		Entities: r.world,
		Rand:     fixedRand(0.5),
	}
	return r
}

// probeTemplate builds states that record their lifecycle calls.
type probeTemplate struct {
	name   string
	onTick func(m *Machine)
	states []*probeState
}

func (t *probeTemplate) TemplateName() string { return t.name }

func (t *probeTemplate) NewState() State {
	s := &probeState{baseState: baseState{name: t.name}, onTick: t.onTick}
	t.states = append(t.states, s)
	return s
}

type probeState struct {
	baseState
	onTick func(m *Machine)
	inits  int
	enters []TransitionResult
	exits  int
	ticks  int
	fixed  int
}

func (s *probeState) Initialize(m *Machine) {
	s.baseState.Initialize(m)
	s.inits++
}

func (s *probeState) Enter(r TransitionResult) { s.enters = append(s.enters, r) }
func (s *probeState) Exit()                    { s.exits++ }
func (s *probeState) FixedTick()               { s.fixed++ }

func (s *probeState) Tick() {
	s.ticks++
	if s.onTick != nil {
		s.onTick(s.machine)
	}
}

// flagTemplate builds conditions that fire while *fire is true.
type flagTemplate struct {
	name   string
	fire   *bool
	target EntityRef
	built  []*flagCondition
}

func (t *flagTemplate) TemplateName() string { return t.name }

func (t *flagTemplate) NewCondition() Condition {
	c := &flagCondition{baseCondition: baseCondition{name: t.name}, tpl: t}
	t.built = append(t.built, c)
	return c
}

type flagCondition struct {
	baseCondition
	tpl       *flagTemplate
	inits     int
	entered   int
	evaluated int
}

func (c *flagCondition) Initialize(m *Machine) {
	c.baseCondition.Initialize(m)
	c.inits++
}

func (c *flagCondition) OnStateEntered() { c.entered++ }

func (c *flagCondition) Evaluate(_ State) TransitionResult {
	c.evaluated++
	if c.tpl.fire != nil && *c.tpl.fire {
		return Trigger(c.tpl.target)
	}
	return NoTrigger()
}

func always() *bool {
	v := true
	return &v
}

func never() *bool {
	v := false
	return &v
}
