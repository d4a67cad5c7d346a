package ai

// IdleTemplate keeps the agent stopped.
type IdleTemplate struct {
	Name string `yaml:"-"`
}

func (t *IdleTemplate) TemplateName() string { return nameOr(t.Name, "Idle") }

func (t *IdleTemplate) NewState() State {
	return &idleState{baseState: baseState{name: t.TemplateName()}}
}

type idleState struct {
	baseState
}

func (s *idleState) Enter(_ TransitionResult) {
	s.host().stop()
}

func (s *idleState) Tick() {
	s.host().stop()
}
