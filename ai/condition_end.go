package ai

// EndTemplate fires while the machine's transition lock is raised.
type EndTemplate struct {
	Name string `yaml:"-"`
}

func (t *EndTemplate) TemplateName() string { return nameOr(t.Name, "End") }

func (t *EndTemplate) NewCondition() Condition {
	return &endCondition{baseCondition: baseCondition{name: t.TemplateName()}}
}

type endCondition struct {
	baseCondition
}

func (c *endCondition) Evaluate(_ State) TransitionResult {
	if c.machine != nil && c.machine.IsTransitionLocked() {
		return Trigger(0)
	}
	return NoTrigger()
}
