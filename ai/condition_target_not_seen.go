package ai

import "math"

// TargetNotSeenTemplate fires once the tracked target has been out of sight
// for NotSeenDuration seconds, or immediately when it no longer exists.
type TargetNotSeenTemplate struct {
	Name            string  `yaml:"-"`
	NotSeenDuration float64 `yaml:"not_seen_duration"`
	Sight           `yaml:",inline"`
}

func DefaultTargetNotSeen() TargetNotSeenTemplate {
	return TargetNotSeenTemplate{NotSeenDuration: 2.5, Sight: defaultSight()}
}

func (t *TargetNotSeenTemplate) TemplateName() string { return nameOr(t.Name, "TargetNotSeen") }

func (t *TargetNotSeenTemplate) NewCondition() Condition {
	return &targetNotSeenCondition{
		baseCondition:  baseCondition{name: t.TemplateName()},
		cfg:            *t,
		firstNotSeenAt: -1,
	}
}

type targetNotSeenCondition struct {
	baseCondition
	cfg            TargetNotSeenTemplate
	firstNotSeenAt float64
}

func (c *targetNotSeenCondition) OnStateEntered() {
	c.firstNotSeenAt = -1
}

func (c *targetNotSeenCondition) Evaluate(current State) TransitionResult {
	tracker, ok := current.(TargetTracker)
	if !ok {
		return NoTrigger()
	}
	h := c.host()
	target, ok := tracker.CurrentTarget()
	if !ok {
		return Trigger(0)
	}
	if _, ok := h.resolve(target); !ok {
		return Trigger(0)
	}
	if c.cfg.Sight.visible(h, target) {
		c.firstNotSeenAt = -1
		return NoTrigger()
	}
	now := c.now()
	if c.firstNotSeenAt < 0 {
		c.firstNotSeenAt = now
	}
	if now-c.firstNotSeenAt >= math.Max(0, c.cfg.NotSeenDuration) {
		return Trigger(0)
	}
	return NoTrigger()
}
