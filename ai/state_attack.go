package ai

import (
	"math"

	"github.com/milk9111/enemyai/common"
	"go.uber.org/zap"
)

type AttackTemplate struct {
	Name           string  `yaml:"-"`
	Windup         float64 `yaml:"windup"`
	Cooldown       float64 `yaml:"cooldown"`
	Damage         float64 `yaml:"damage"`
	Range          float64 `yaml:"range"`
	HorizontalOnly bool    `yaml:"horizontal_only"`
}

func DefaultAttack() AttackTemplate {
	return AttackTemplate{Windup: 0.25, Cooldown: 1.2, Damage: 10, Range: 2, HorizontalOnly: true}
}

func (t *AttackTemplate) TemplateName() string { return nameOr(t.Name, "Attack") }

func (t *AttackTemplate) NewState() State {
	return &attackState{baseState: baseState{name: t.TemplateName()}, cfg: *t}
}

type attackState struct {
	baseState
	cfg          AttackTemplate
	target       EntityRef
	nextAttackAt float64
}

func (s *attackState) CurrentTarget() (EntityRef, bool) {
	return s.target, s.target.Valid()
}

func (s *attackState) Enter(r TransitionResult) {
	if t := r.TargetOrNone(); t.Valid() {
		s.target = t
	}
	s.nextAttackAt = s.now() + math.Max(0, s.cfg.Windup)
	s.host().stop()
}

// Tick holds position and swings once the cooldown has elapsed with the
// target in reach. Out-of-range ticks do not consume the cooldown.
func (s *attackState) Tick() {
	h := s.host()
	h.stop()
	if s.locked() {
		return
	}
	pos, ok := h.resolve(s.target)
	if !ok {
		return
	}
	now := s.now()
	if now < s.nextAttackAt {
		return
	}
	if !s.inRange(h.position(), pos) {
		return
	}
	s.nextAttackAt = now + math.Max(0, s.cfg.Cooldown)
	s.strike(h)
}

func (s *attackState) Exit() {
	s.host().stop()
}

func (s *attackState) inRange(self, target common.Vec3) bool {
	d := common.Distance(self, target)
	if s.cfg.HorizontalOnly {
		d = common.HorizontalDistance(self, target)
	}
	return d <= math.Max(0, s.cfg.Range)
}

func (s *attackState) strike(h *Host) {
	if s.cfg.Damage <= 0 || h.Entities == nil {
		return
	}
	d, ok := h.Entities.Damageable(s.target)
	if !ok || d == nil || !d.IsAlive() {
		return
	}
	if d.TakeDamage(s.cfg.Damage, h.Self) {
		s.machine.Logger().Debug("ai: attack landed",
			zap.Stringer("target", s.target),
			zap.Float64("damage", s.cfg.Damage),
			zap.Float64("t", s.now()))
	}
}
