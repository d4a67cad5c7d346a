package ai

import (
	"math"

	"github.com/milk9111/enemyai/common"
)

type RangeMode string

const (
	RangeAny        RangeMode = "any"
	RangeInRange    RangeMode = "in_range"
	RangeOutOfRange RangeMode = "out_of_range"
)

// TagInViewTemplate fires when a visible entity with Tag is found, carrying
// it as the transition target.
type TagInViewTemplate struct {
	Name                      string    `yaml:"-"`
	Tag                       string    `yaml:"tag"`
	UseCurrentStateTargetOnly bool      `yaml:"use_current_state_target_only"`
	Sight                     `yaml:",inline"`
	RangeMode                 RangeMode `yaml:"range_mode"`
	Range                     float64   `yaml:"range"`
	HorizontalRangeCheck      bool      `yaml:"horizontal_range_check"`
}

func DefaultTagInView() TagInViewTemplate {
	return TagInViewTemplate{
		Tag:                  "player",
		Sight:                defaultSight(),
		RangeMode:            RangeAny,
		Range:                2,
		HorizontalRangeCheck: true,
	}
}

func (t *TagInViewTemplate) TemplateName() string { return nameOr(t.Name, "TagInView") }

func (t *TagInViewTemplate) NewCondition() Condition {
	return &tagInViewCondition{baseCondition: baseCondition{name: t.TemplateName()}, cfg: *t}
}

type tagInViewCondition struct {
	baseCondition
	cfg TagInViewTemplate
}

func (c *tagInViewCondition) Evaluate(current State) TransitionResult {
	h := c.host()
	if h == nil || h.Spatial == nil {
		return NoTrigger()
	}

	var candidate EntityRef
	if c.cfg.UseCurrentStateTargetOnly {
		target, ok := targetOf(current)
		if !ok || !c.cfg.Sight.visible(h, target) {
			return NoTrigger()
		}
		candidate = target
	} else {
		candidate = c.bestVisible(h)
	}
	if !candidate.Valid() {
		return NoTrigger()
	}
	if !c.passesRange(h, candidate) {
		return NoTrigger()
	}
	return Trigger(candidate)
}

// bestVisible prefers candidates near the centre of the view cone, then the
// closest.
func (c *tagInViewCondition) bestVisible(h *Host) EntityRef {
	origin := c.cfg.Sight.origin(h)
	forward := h.forward()

	var best EntityRef
	bestScore := math.Inf(-1)
	for _, ref := range h.Spatial.Overlap(origin, c.cfg.ViewDistance, c.cfg.Tag) {
		if ref == h.Self {
			continue
		}
		pos, ok := h.resolve(ref)
		if !ok {
			continue
		}
		to := pos.Sub(origin)
		dist := to.Len()
		if dist < minSightDistance {
			continue
		}
		if !c.cfg.Sight.visibleAt(h, origin, ref, pos) {
			continue
		}
		score := forward.Dot(to.Scale(1/dist))*100 - dist
		if score <= bestScore {
			continue
		}
		bestScore = score
		best = ref
	}
	return best
}

func (c *tagInViewCondition) passesRange(h *Host, target EntityRef) bool {
	if c.cfg.RangeMode == "" || c.cfg.RangeMode == RangeAny {
		return true
	}
	pos, ok := h.resolve(target)
	if !ok {
		return false
	}
	self := h.position()
	dist := common.Distance(self, pos)
	if c.cfg.HorizontalRangeCheck {
		dist = common.HorizontalDistance(self, pos)
	}
	limit := math.Max(0, c.cfg.Range)
	if c.cfg.RangeMode == RangeInRange {
		return dist <= limit
	}
	return dist > limit
}
