package ai

import (
	"go.uber.org/zap"
)

// Machine is one agent's state machine scheduler.
type Machine struct {
	name     string
	host     Host
	log      *zap.Logger
	graph    *Graph
	current  State
	lock     bool
	frame    Frame
	started  bool
	onChange func(from, to State, r TransitionResult)
}

// Option configures a Machine.
type Option func(*Machine)

func WithLogger(log *zap.Logger) Option {
	return func(m *Machine) {
		if log != nil {
			m.log = log
		}
	}
}

// WithName labels the machine in log output.
func WithName(name string) Option {
	return func(m *Machine) {
		m.name = name
	}
}

// WithStateChangeCallback sets a callback invoked after each state change.
func WithStateChangeCallback(fn func(from, to State, r TransitionResult)) Option {
	return func(m *Machine) {
		m.onChange = fn
	}
}

// WithStartTime sets the clock value seen by Initialize calls.
func WithStartTime(now float64) Option {
	return func(m *Machine) {
		m.frame.Now = now
	}
}

// NewMachine instantiates the table into a private runtime graph. Every
// runtime state and condition is initialized exactly once here.
func NewMachine(host Host, table []TableEntry, opts ...Option) *Machine {
	m := &Machine{
		host: host,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.name != "" {
		m.log = m.log.With(zap.String("machine", m.name))
	}
	if host.Self.Valid() {
		m.log = m.log.With(zap.Stringer("entity", host.Self))
	}
	m.graph = buildGraph(m, table, m.log)
	return m
}

// Start enters the first declared state with an empty transition result.
func (m *Machine) Start(f Frame) {
	if m == nil || m.started {
		return
	}
	m.started = true
	m.frame = f
	initial := m.graph.Initial()
	if initial == nil {
		return
	}
	m.ChangeState(initial, NoTrigger())
}

// Tick runs the active state then, unless locked, its exit rules in order.
// The lock is read once at the start of the tick.
func (m *Machine) Tick(f Frame) {
	if m == nil {
		return
	}
	m.frame = f
	if m.current == nil {
		return
	}
	locked := m.lock

	m.current.Tick()

	if locked {
		return
	}
	m.tryTransition()
}

func (m *Machine) FixedTick(f Frame) {
	if m == nil {
		return
	}
	m.frame = f
	if m.current == nil {
		return
	}
	m.current.FixedTick()
}

func (m *Machine) tryTransition() {
	for _, exit := range m.graph.Exits(m.current) {
		r := exit.Condition.Evaluate(m.current)
		if !r.ShouldTransition {
			continue
		}
		m.ChangeState(exit.Next, r)
		return
	}
}

// ChangeState swaps the active state. It is a no-op for nil or the current state.
func (m *Machine) ChangeState(next State, r TransitionResult) {
	if m == nil || next == nil || next == m.current {
		return
	}
	if !r.ShouldTransition {
		r.Target = 0
	}

	prev := m.current
	if prev != nil {
		prev.Exit()
	}
	m.current = next
	next.Enter(r)
	m.prepareConditions()

	if prev != nil {
		m.log.Debug("ai: state changed",
			zap.String("from", prev.Name()),
			zap.String("to", next.Name()),
			zap.Stringer("target", r.Target),
			zap.Float64("t", m.frame.Now))
	} else {
		m.log.Debug("ai: entered initial state", zap.String("to", next.Name()))
	}
	if m.onChange != nil {
		m.onChange(prev, next, r)
	}
}

func (m *Machine) prepareConditions() {
	for _, exit := range m.graph.Exits(m.current) {
		exit.Condition.OnStateEntered()
	}
}

// SetTransitionLock may be called at any time. A lock raised between ticks
// suppresses evaluation from the next tick on.
func (m *Machine) SetTransitionLock(lock bool) {
	if m == nil {
		return
	}
	if m.lock != lock {
		m.log.Debug("ai: transition lock changed", zap.Bool("locked", lock))
	}
	m.lock = lock
}

func (m *Machine) IsTransitionLocked() bool {
	return m != nil && m.lock
}

func (m *Machine) CurrentState() State {
	if m == nil {
		return nil
	}
	return m.current
}

// CurrentStateName returns the active state's name or "".
func (m *Machine) CurrentStateName() string {
	if m == nil || m.current == nil {
		return ""
	}
	return m.current.Name()
}

// CurrentTarget reports the active state's tracked entity, if any.
func (m *Machine) CurrentTarget() (EntityRef, bool) {
	if m == nil || m.current == nil {
		return 0, false
	}
	return targetOf(m.current)
}

func (m *Machine) Graph() *Graph {
	if m == nil {
		return nil
	}
	return m.graph
}

func (m *Machine) Host() *Host {
	if m == nil {
		return nil
	}
	return &m.host
}

func (m *Machine) Logger() *zap.Logger {
	if m == nil || m.log == nil {
		return zap.NewNop()
	}
	return m.log
}

func (m *Machine) Frame() Frame {
	if m == nil {
		return Frame{}
	}
	return m.frame
}

func (m *Machine) Now() float64 {
	if m == nil {
		return 0
	}
	return m.frame.Now
}

// Destroy tears down the runtime graph. The machine is inert afterwards.
func (m *Machine) Destroy() {
	if m == nil {
		return
	}
	if err := m.graph.Close(); err != nil {
		m.log.Warn("ai: closing runtime graph", zap.Error(err))
	}
	m.current = nil
	m.graph = nil
}
