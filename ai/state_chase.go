package ai

import "github.com/milk9111/enemyai/common"

type ChaseTemplate struct {
	Name             string  `yaml:"-"`
	MoveSpeed        float64 `yaml:"move_speed"`
	StoppingDistance float64 `yaml:"stopping_distance"`
	RepathDistance   float64 `yaml:"repath_distance"`
}

func DefaultChase() ChaseTemplate {
	return ChaseTemplate{MoveSpeed: 4.25, StoppingDistance: 1.25, RepathDistance: 0.25}
}

func (t *ChaseTemplate) TemplateName() string { return nameOr(t.Name, "Chase") }

func (t *ChaseTemplate) NewState() State {
	return &chaseState{baseState: baseState{name: t.TemplateName()}, cfg: *t}
}

type chaseState struct {
	baseState
	cfg      ChaseTemplate
	target   EntityRef
	dest     common.Vec3
	haveDest bool
}

func (s *chaseState) CurrentTarget() (EntityRef, bool) {
	return s.target, s.target.Valid()
}

// Enter keeps the previous target when the transition carries none.
func (s *chaseState) Enter(r TransitionResult) {
	if t := r.TargetOrNone(); t.Valid() {
		s.target = t
	}
	h := s.host()
	if h.moverUsable() {
		h.Mover.Configure(s.cfg.MoveSpeed, s.cfg.StoppingDistance)
	}
	s.updateDestination(true)
}

func (s *chaseState) Tick() {
	h := s.host()
	if !h.moverUsable() {
		return
	}
	if s.locked() {
		h.Mover.Stop()
		s.haveDest = false
		return
	}
	if _, ok := h.resolve(s.target); !ok {
		h.Mover.Stop()
		s.haveDest = false
		return
	}
	s.updateDestination(false)
}

func (s *chaseState) Exit() {
	s.host().stop()
	s.haveDest = false
}

func (s *chaseState) updateDestination(force bool) {
	h := s.host()
	if !h.moverUsable() {
		return
	}
	pos, ok := h.resolve(s.target)
	if !ok {
		return
	}
	if !force && s.haveDest && common.HorizontalDistance(s.dest, pos) < s.cfg.RepathDistance {
		return
	}
	if h.Mover.RequestMove(pos) {
		s.dest = pos
		s.haveDest = true
	}
}
