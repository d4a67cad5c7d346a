package ai

import (
	"fmt"
	"sort"

	"github.com/milk9111/enemyai/prefabs"
	"go.uber.org/zap"
)

// Brain is a compiled brain prefab. Its templates are shared by every agent
// spawned from it.
type Brain struct {
	Name       string
	Body       prefabs.BodySpec
	Table      []TableEntry
	States     map[string]StateTemplate
	Conditions map[string]ConditionTemplate
}

// NewMachine instantiates a private runtime graph of the brain for one agent.
func (b *Brain) NewMachine(host Host, opts ...Option) *Machine {
	if b == nil {
		return NewMachine(host, nil, opts...)
	}
	opts = append([]Option{WithName(b.Name)}, opts...)
	return NewMachine(host, b.Table, opts...)
}

type stateKind func(name string, params map[string]any) (StateTemplate, error)

type conditionKind func(name string, params map[string]any, loadScript func(string) ([]byte, error)) (ConditionTemplate, error)

var stateKinds = map[string]stateKind{
	"idle": func(name string, _ map[string]any) (StateTemplate, error) {
		return &IdleTemplate{Name: name}, nil
	},
	"wander": func(name string, params map[string]any) (StateTemplate, error) {
		t, err := prefabs.DecodeParams(params, DefaultWander())
		if err != nil {
			return nil, err
		}
		t.Name = name
		return &t, nil
	},
	"chase": func(name string, params map[string]any) (StateTemplate, error) {
		t, err := prefabs.DecodeParams(params, DefaultChase())
		if err != nil {
			return nil, err
		}
		t.Name = name
		return &t, nil
	},
	"attack": func(name string, params map[string]any) (StateTemplate, error) {
		t, err := prefabs.DecodeParams(params, DefaultAttack())
		if err != nil {
			return nil, err
		}
		t.Name = name
		return &t, nil
	},
}

var conditionKinds = map[string]conditionKind{
	"timer": func(name string, params map[string]any, _ func(string) ([]byte, error)) (ConditionTemplate, error) {
		t, err := prefabs.DecodeParams(params, DefaultTimer())
		if err != nil {
			return nil, err
		}
		t.Name = name
		return &t, nil
	},
	"tag_in_view": func(name string, params map[string]any, _ func(string) ([]byte, error)) (ConditionTemplate, error) {
		t, err := prefabs.DecodeParams(params, DefaultTagInView())
		if err != nil {
			return nil, err
		}
		switch t.RangeMode {
		case RangeAny, RangeInRange, RangeOutOfRange:
		default:
			return nil, fmt.Errorf("unknown range_mode %q", t.RangeMode)
		}
		t.Name = name
		return &t, nil
	},
	"target_distance": func(name string, params map[string]any, _ func(string) ([]byte, error)) (ConditionTemplate, error) {
		t, err := prefabs.DecodeParams(params, DefaultTargetDistance())
		if err != nil {
			return nil, err
		}
		t.Name = name
		return &t, nil
	},
	"target_not_seen": func(name string, params map[string]any, _ func(string) ([]byte, error)) (ConditionTemplate, error) {
		t, err := prefabs.DecodeParams(params, DefaultTargetNotSeen())
		if err != nil {
			return nil, err
		}
		t.Name = name
		return &t, nil
	},
	"end": func(name string, _ map[string]any, _ func(string) ([]byte, error)) (ConditionTemplate, error) {
		return &EndTemplate{Name: name}, nil
	},
	"script": func(name string, params map[string]any, loadScript func(string) ([]byte, error)) (ConditionTemplate, error) {
		p, err := prefabs.DecodeParams(params, struct {
			Script string `yaml:"script"`
		}{})
		if err != nil {
			return nil, err
		}
		if p.Script == "" {
			return nil, fmt.Errorf("missing script")
		}
		src, err := loadScript(p.Script)
		if err != nil {
			return nil, fmt.Errorf("load script %s: %w", p.Script, err)
		}
		t, err := NewScriptTemplate(name, p.Script, src)
		if err != nil {
			return nil, err
		}
		return t, nil
	},
}

// StateKinds lists the registered state kinds.
func StateKinds() []string {
	return sortedKeys(stateKinds)
}

// ConditionKinds lists the registered condition kinds.
func ConditionKinds() []string {
	return sortedKeys(conditionKinds)
}

// CompileBrain resolves a brain prefab into shared templates. Problems are
// logged; anything that fails to resolve is left nil so the graph builder
// skips it.
func CompileBrain(spec prefabs.BrainSpec, log *zap.Logger) *Brain {
	return compileBrain(spec, log, prefabs.LoadScript)
}

func compileBrain(spec prefabs.BrainSpec, log *zap.Logger, loadScript func(string) ([]byte, error)) *Brain {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("brain", spec.Name))

	b := &Brain{
		Name:       spec.Name,
		Body:       spec.Body,
		States:     make(map[string]StateTemplate, len(spec.States)),
		Conditions: make(map[string]ConditionTemplate, len(spec.Conditions)),
	}

	for _, name := range sortedKeys(spec.States) {
		ts := spec.States[name]
		build, ok := stateKinds[ts.Kind]
		if !ok {
			log.Warn("ai: unknown state kind", zap.String("state", name), zap.String("kind", ts.Kind))
			continue
		}
		t, err := build(name, ts.Params)
		if err != nil {
			log.Warn("ai: invalid state params", zap.String("state", name), zap.Error(err))
			continue
		}
		b.States[name] = t
	}

	for _, name := range sortedKeys(spec.Conditions) {
		cs := spec.Conditions[name]
		build, ok := conditionKinds[cs.Kind]
		if !ok {
			log.Warn("ai: unknown condition kind", zap.String("condition", name), zap.String("kind", cs.Kind))
			continue
		}
		t, err := build(name, cs.Params, loadScript)
		if err != nil {
			log.Warn("ai: invalid condition params", zap.String("condition", name), zap.Error(err))
			continue
		}
		b.Conditions[name] = t
	}

	for i, es := range spec.Table {
		entry := TableEntry{State: b.state(es.State, log, i)}
		for _, xs := range es.Exits {
			entry.Exits = append(entry.Exits, ExitTemplate{
				Condition: b.condition(xs.Condition, log, i),
				Next:      b.state(xs.Next, log, i),
			})
		}
		b.Table = append(b.Table, entry)
	}
	return b
}

// state returns an untyped nil for unknown names.
func (b *Brain) state(name string, log *zap.Logger, entry int) StateTemplate {
	t, ok := b.States[name]
	if !ok {
		log.Warn("ai: table references unknown state", zap.Int("entry", entry), zap.String("state", name))
		return nil
	}
	return t
}

func (b *Brain) condition(name string, log *zap.Logger, entry int) ConditionTemplate {
	t, ok := b.Conditions[name]
	if !ok {
		log.Warn("ai: table references unknown condition", zap.Int("entry", entry), zap.String("condition", name))
		return nil
	}
	return t
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
