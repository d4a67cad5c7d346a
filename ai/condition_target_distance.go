package ai

import (
	"math"

	"github.com/milk9111/enemyai/common"
)

// TargetDistanceTemplate compares the distance to the active state's target
// against a threshold.
type TargetDistanceTemplate struct {
	Name              string  `yaml:"-"`
	DistanceThreshold float64 `yaml:"distance_threshold"`
	HorizontalOnly    bool    `yaml:"horizontal_only"`
	TriggerWhenWithin bool    `yaml:"trigger_when_within"`
}

func DefaultTargetDistance() TargetDistanceTemplate {
	return TargetDistanceTemplate{DistanceThreshold: 1.6, HorizontalOnly: true, TriggerWhenWithin: true}
}

func (t *TargetDistanceTemplate) TemplateName() string { return nameOr(t.Name, "TargetDistance") }

func (t *TargetDistanceTemplate) NewCondition() Condition {
	return &targetDistanceCondition{baseCondition: baseCondition{name: t.TemplateName()}, cfg: *t}
}

type targetDistanceCondition struct {
	baseCondition
	cfg TargetDistanceTemplate
}

func (c *targetDistanceCondition) Evaluate(current State) TransitionResult {
	h := c.host()
	target, ok := targetOf(current)
	if !ok {
		return NoTrigger()
	}
	pos, ok := h.resolve(target)
	if !ok {
		return NoTrigger()
	}
	self := h.position()
	dist := common.Distance(self, pos)
	if c.cfg.HorizontalOnly {
		dist = common.HorizontalDistance(self, pos)
	}
	threshold := math.Max(0, c.cfg.DistanceThreshold)
	fire := dist > threshold
	if c.cfg.TriggerWhenWithin {
		fire = dist <= threshold
	}
	if !fire {
		return NoTrigger()
	}
	return Trigger(target)
}
