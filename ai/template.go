package ai

// StateTemplate is an immutable, shareable state declaration. Implementations
// are pointer types; the pointer is the template's identity.
type StateTemplate interface {
	TemplateName() string
	NewState() State
}

// ConditionTemplate is an immutable, shareable condition declaration.
type ConditionTemplate interface {
	TemplateName() string
	NewCondition() Condition
}

// State is a per-agent runtime copy of a StateTemplate.
type State interface {
	Name() string
	Initialize(m *Machine)
	Enter(r TransitionResult)
	Exit()
	Tick()
	FixedTick()
}

// Condition is a per-agent, per-edge runtime copy of a ConditionTemplate.
type Condition interface {
	Name() string
	Initialize(m *Machine)
	OnStateEntered()
	Evaluate(current State) TransitionResult
}

// TargetTracker is implemented by states that follow an entity.
type TargetTracker interface {
	CurrentTarget() (EntityRef, bool)
}

type baseState struct {
	name    string
	machine *Machine
}

func (s *baseState) Name() string             { return s.name }
func (s *baseState) Initialize(m *Machine)    { s.machine = m }
func (s *baseState) Enter(_ TransitionResult) {}
func (s *baseState) Exit()                    {}
func (s *baseState) Tick()                    {}
func (s *baseState) FixedTick()               {}

func (s *baseState) host() *Host {
	if s.machine == nil {
		return nil
	}
	return s.machine.Host()
}

func (s *baseState) locked() bool {
	return s.machine != nil && s.machine.IsTransitionLocked()
}

func (s *baseState) now() float64 {
	if s.machine == nil {
		return 0
	}
	return s.machine.Now()
}

type baseCondition struct {
	name    string
	machine *Machine
}

func (c *baseCondition) Name() string          { return c.name }
func (c *baseCondition) Initialize(m *Machine) { c.machine = m }
func (c *baseCondition) OnStateEntered()       {}

func (c *baseCondition) host() *Host {
	if c.machine == nil {
		return nil
	}
	return c.machine.Host()
}

func (c *baseCondition) now() float64 {
	if c.machine == nil {
		return 0
	}
	return c.machine.Now()
}

// targetOf asks the active state for its tracked entity.
func targetOf(current State) (EntityRef, bool) {
	tracker, ok := current.(TargetTracker)
	if !ok {
		return 0, false
	}
	return tracker.CurrentTarget()
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
