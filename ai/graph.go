package ai

import (
	"io"

	"go.uber.org/zap"
)

// ExitTemplate is a declared (condition, next state) pair.
type ExitTemplate struct {
	Condition ConditionTemplate
	Next      StateTemplate
}

// TableEntry declares a state and its ordered exit rules.
type TableEntry struct {
	State StateTemplate
	Exits []ExitTemplate
}

// ExitRule is an instantiated exit edge owned by one runtime state.
type ExitRule struct {
	Condition Condition
	Next      State
}

// Graph is one agent's instantiated state machine.
type Graph struct {
	states     map[StateTemplate]State
	order      []State
	exits      map[State][]ExitRule
	conditions []Condition
	initial    State
}

func buildGraph(m *Machine, table []TableEntry, log *zap.Logger) *Graph {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Graph{
		states: make(map[StateTemplate]State),
		exits:  make(map[State][]ExitRule),
	}

	validateTable(table, log)

	var templates []StateTemplate
	seen := make(map[StateTemplate]bool)
	collect := func(t StateTemplate) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		templates = append(templates, t)
	}
	for _, entry := range table {
		collect(entry.State)
		for _, exit := range entry.Exits {
			collect(exit.Next)
		}
	}

	for _, t := range templates {
		s := t.NewState()
		if s == nil {
			log.Warn("ai: state template produced no runtime state", zap.String("state", t.TemplateName()))
			continue
		}
		s.Initialize(m)
		g.states[t] = s
		g.order = append(g.order, s)
	}

	for _, entry := range table {
		src, ok := g.resolve(entry.State)
		if !ok {
			continue
		}
		rules := g.exits[src]
		for _, exit := range entry.Exits {
			if exit.Condition == nil || exit.Next == nil {
				continue
			}
			next, ok := g.resolve(exit.Next)
			if !ok {
				continue
			}
			cond := exit.Condition.NewCondition()
			if cond == nil {
				log.Warn("ai: condition template produced no runtime condition", zap.String("condition", exit.Condition.TemplateName()))
				continue
			}
			cond.Initialize(m)
			g.conditions = append(g.conditions, cond)
			rules = append(rules, ExitRule{Condition: cond, Next: next})
		}
		g.exits[src] = rules
	}

	for _, entry := range table {
		if s, ok := g.resolve(entry.State); ok {
			g.initial = s
			break
		}
	}

	return g
}

func validateTable(table []TableEntry, log *zap.Logger) {
	if len(table) == 0 {
		log.Warn("ai: state machine has no state entries configured")
		return
	}

	configured := make(map[StateTemplate]bool)
	for i, entry := range table {
		if entry.State == nil {
			log.Warn("ai: state entry has no state template", zap.Int("entry", i))
			continue
		}
		if configured[entry.State] {
			log.Warn("ai: duplicate state entry", zap.Int("entry", i), zap.String("state", entry.State.TemplateName()))
			continue
		}
		configured[entry.State] = true
	}

	for i, entry := range table {
		for j, exit := range entry.Exits {
			if exit.Condition == nil {
				log.Warn("ai: exit rule has no condition template", zap.Int("entry", i), zap.Int("exit", j))
			}
			if exit.Next == nil {
				log.Warn("ai: exit rule has no next state template", zap.Int("entry", i), zap.Int("exit", j))
				continue
			}
			if !configured[exit.Next] {
				log.Warn("ai: exit rule targets a state that is not a configured entry",
					zap.Int("entry", i), zap.Int("exit", j), zap.String("state", exit.Next.TemplateName()))
			}
		}
	}
}

func (g *Graph) resolve(t StateTemplate) (State, bool) {
	if g == nil || t == nil {
		return nil, false
	}
	s, ok := g.states[t]
	return s, ok
}

// StateFor returns the runtime state built for a template.
func (g *Graph) StateFor(t StateTemplate) (State, bool) {
	return g.resolve(t)
}

// States returns runtime states in instantiation order.
func (g *Graph) States() []State {
	if g == nil {
		return nil
	}
	return append([]State(nil), g.order...)
}

// Exits returns the ordered exit rules of s.
func (g *Graph) Exits(s State) []ExitRule {
	if g == nil || s == nil {
		return nil
	}
	return g.exits[s]
}

// Conditions returns every runtime condition in the graph.
func (g *Graph) Conditions() []Condition {
	if g == nil {
		return nil
	}
	return append([]Condition(nil), g.conditions...)
}

func (g *Graph) Initial() State {
	if g == nil {
		return nil
	}
	return g.initial
}

// Close releases runtime instances that own resources.
func (g *Graph) Close() error {
	if g == nil {
		return nil
	}
	var first error
	for _, s := range g.order {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	for _, cond := range g.conditions {
		if c, ok := cond.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	g.states = nil
	g.order = nil
	g.exits = nil
	g.conditions = nil
	g.initial = nil
	return first
}
