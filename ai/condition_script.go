package ai

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/enemyai/common"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"
)

// ScriptTemplate is a condition whose predicate lives in a .tengo or .lua
// file. Tengo scripts assign the global `trigger`; lua scripts define
// evaluate(ctx) and return a boolean.
type ScriptTemplate struct {
	Name   string `yaml:"-"`
	Script string `yaml:"script"`

	compiled *tengo.Compiled
	proto    *lua.FunctionProto
}

var scriptInputs = []string{"now", "elapsed", "locked", "aiming", "state", "has_target", "target_distance"}

// NewScriptTemplate compiles src once. Every runtime condition built from the
// template gets its own clone or VM.
func NewScriptTemplate(name, script string, src []byte) (*ScriptTemplate, error) {
	t := &ScriptTemplate{Name: name, Script: script}
	switch strings.ToLower(path.Ext(script)) {
	case ".tengo":
		s := tengo.NewScript(src)
		for _, in := range scriptInputs {
			if err := s.Add(in, nil); err != nil {
				return nil, fmt.Errorf("script %s: %w", script, err)
			}
		}
		if err := s.Add("trigger", false); err != nil {
			return nil, fmt.Errorf("script %s: %w", script, err)
		}
		s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
		compiled, err := s.Compile()
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", script, err)
		}
		t.compiled = compiled
	case ".lua":
		chunk, err := parse.Parse(bytes.NewReader(src), script)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", script, err)
		}
		proto, err := lua.Compile(chunk, script)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", script, err)
		}
		t.proto = proto
	default:
		return nil, fmt.Errorf("script %s: unsupported script type", script)
	}
	return t, nil
}

func (t *ScriptTemplate) TemplateName() string { return nameOr(t.Name, "Script") }

func (t *ScriptTemplate) NewCondition() Condition {
	c := &scriptCondition{baseCondition: baseCondition{name: t.TemplateName()}, script: t.Script}
	switch {
	case t.compiled != nil:
		c.compiled = t.compiled.Clone()
	case t.proto != nil:
		L := lua.NewState()
		L.Push(L.NewFunctionFromProto(t.proto))
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			c.err = err
		}
		c.vm = L
	}
	return c
}

type scriptCondition struct {
	baseCondition
	script    string
	compiled  *tengo.Compiled
	vm        *lua.LState
	enteredAt float64
	err       error
	reported  bool
}

func (c *scriptCondition) Initialize(m *Machine) {
	c.baseCondition.Initialize(m)
	c.enteredAt = c.now()
	if c.err != nil {
		c.report(c.err)
	}
}

func (c *scriptCondition) OnStateEntered() {
	c.enteredAt = c.now()
}

func (c *scriptCondition) Evaluate(current State) TransitionResult {
	in := c.inputs(current)
	var (
		fire bool
		err  error
	)
	switch {
	case c.compiled != nil:
		fire, err = c.runTengo(in)
	case c.vm != nil:
		fire, err = c.runLua(in)
	default:
		return NoTrigger()
	}
	if err != nil {
		c.report(err)
		return NoTrigger()
	}
	if !fire {
		return NoTrigger()
	}
	target, _ := targetOf(current)
	return Trigger(target)
}

type scriptInput struct {
	now, elapsed   float64
	locked, aiming bool
	state          string
	hasTarget      bool
	targetDistance float64
}

func (c *scriptCondition) inputs(current State) scriptInput {
	in := scriptInput{
		now:            c.now(),
		elapsed:        c.now() - c.enteredAt,
		targetDistance: -1,
	}
	if c.machine != nil {
		in.locked = c.machine.IsTransitionLocked()
		in.aiming = c.machine.Frame().Aiming
	}
	if current != nil {
		in.state = current.Name()
	}
	if target, ok := targetOf(current); ok {
		h := c.host()
		if pos, ok := h.resolve(target); ok {
			in.hasTarget = true
			in.targetDistance = common.Distance(h.position(), pos)
		}
	}
	return in
}

func (c *scriptCondition) runTengo(in scriptInput) (bool, error) {
	values := map[string]any{
		"now":             in.now,
		"elapsed":         in.elapsed,
		"locked":          in.locked,
		"aiming":          in.aiming,
		"state":           in.state,
		"has_target":      in.hasTarget,
		"target_distance": in.targetDistance,
		"trigger":         false,
	}
	for k, v := range values {
		if err := c.compiled.Set(k, v); err != nil {
			return false, err
		}
	}
	if err := c.compiled.Run(); err != nil {
		return false, err
	}
	return c.compiled.Get("trigger").Bool(), nil
}

func (c *scriptCondition) runLua(in scriptInput) (bool, error) {
	fn := c.vm.GetGlobal("evaluate")
	if fn == lua.LNil {
		return false, fmt.Errorf("lua function evaluate not found")
	}
	ctx := c.vm.NewTable()
	ctx.RawSetString("now", lua.LNumber(in.now))
	ctx.RawSetString("elapsed", lua.LNumber(in.elapsed))
	ctx.RawSetString("locked", lua.LBool(in.locked))
	ctx.RawSetString("aiming", lua.LBool(in.aiming))
	ctx.RawSetString("state", lua.LString(in.state))
	ctx.RawSetString("has_target", lua.LBool(in.hasTarget))
	ctx.RawSetString("target_distance", lua.LNumber(in.targetDistance))

	if err := c.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, ctx); err != nil {
		return false, err
	}
	ret := c.vm.Get(-1)
	c.vm.Pop(1)
	return lua.LVAsBool(ret), nil
}

// report logs the first failure only; a broken script would otherwise log
// every tick.
func (c *scriptCondition) report(err error) {
	if c.reported || c.machine == nil {
		return
	}
	c.reported = true
	c.machine.Logger().Warn("ai: script condition failed",
		zap.String("condition", c.name),
		zap.String("script", c.script),
		zap.Error(err))
}

func (c *scriptCondition) Close() error {
	if c.vm != nil {
		c.vm.Close()
		c.vm = nil
	}
	c.compiled = nil
	return nil
}
