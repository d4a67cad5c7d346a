package ai

import "math"

// TimerTemplate fires a random delay after its state is entered.
type TimerTemplate struct {
	Name     string  `yaml:"-"`
	MinDelay float64 `yaml:"min_delay"`
	MaxDelay float64 `yaml:"max_delay"`
}

func DefaultTimer() TimerTemplate {
	return TimerTemplate{MinDelay: 1, MaxDelay: 3}
}

func (t *TimerTemplate) TemplateName() string { return nameOr(t.Name, "Timer") }

func (t *TimerTemplate) NewCondition() Condition {
	lo := math.Max(0, math.Min(t.MinDelay, t.MaxDelay))
	hi := math.Max(lo, math.Max(t.MinDelay, t.MaxDelay))
	return &timerCondition{baseCondition: baseCondition{name: t.TemplateName()}, min: lo, max: hi}
}

type timerCondition struct {
	baseCondition
	min, max    float64
	triggerTime float64
}

func (c *timerCondition) Initialize(m *Machine) {
	c.baseCondition.Initialize(m)
	c.reset()
}

func (c *timerCondition) OnStateEntered() {
	c.reset()
}

func (c *timerCondition) Evaluate(_ State) TransitionResult {
	if c.now() >= c.triggerTime {
		return Trigger(0)
	}
	return NoTrigger()
}

// TriggerTime reports when the condition will next fire.
func (c *timerCondition) TriggerTime() float64 {
	return c.triggerTime
}

func (c *timerCondition) reset() {
	if c.max-c.min < 1e-6 {
		c.triggerTime = c.now() + c.min
		return
	}
	c.triggerTime = c.now() + c.min + c.host().randFloat()*(c.max-c.min)
}
