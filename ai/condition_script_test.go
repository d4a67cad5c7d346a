package ai

import (
	"testing"

	"github.com/milk9111/enemyai/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScriptConditions(t *testing.T) {
	cases := []struct {
		name   string
		script string
		src    string
	}{
		{"tengo", "close.tengo", `trigger = has_target && target_distance < 3 && elapsed >= 1`},
		{"lua", "close.lua", `
function evaluate(ctx)
  return ctx.has_target and ctx.target_distance < 3 and ctx.elapsed >= 1
end
`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tpl, err := NewScriptTemplate("close", c.script, []byte(c.src))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			r := newRig()
			r.world.add(9, "player", common.V3(0, 0, 2))
			m := NewMachine(r.host, nil)
			cond := tpl.NewCondition()
			defer cond.(*scriptCondition).Close()
			cond.Initialize(m)
			cond.OnStateEntered()
			cur := &trackerStub{target: 9}

			m.frame.Now = 0.5
			if cond.Evaluate(cur).ShouldTransition {
				t.Fatalf("fired before a second had elapsed")
			}
			m.frame.Now = 1.5
			res := cond.Evaluate(cur)
			if !res.ShouldTransition || res.Target != 9 {
				t.Fatalf("result = %+v, want fire carrying target 9", res)
			}
			if cond.Evaluate(&probeState{}).ShouldTransition {
				t.Fatalf("fired without a target")
			}
		})
	}
}

func TestScriptInstancesDoNotShareState(t *testing.T) {
	src := `
count = 0
function evaluate(ctx)
  count = count + 1
  return count >= 2
end
`
	tpl, err := NewScriptTemplate("counter", "counter.lua", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m := NewMachine(newRig().host, nil)
	a := tpl.NewCondition()
	b := tpl.NewCondition()
	a.Initialize(m)
	b.Initialize(m)

	a.Evaluate(nil)
	if !a.Evaluate(nil).ShouldTransition {
		t.Fatalf("second evaluation of a should fire")
	}
	if b.Evaluate(nil).ShouldTransition {
		t.Fatalf("b saw a's counter")
	}
}

func TestScriptAimingInput(t *testing.T) {
	tpl, err := NewScriptTemplate("aim", "aim.tengo", []byte(`trigger = aiming && state == "Idle"`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	idle := &IdleTemplate{}
	m := NewMachine(newRig().host, []TableEntry{
		{State: idle, Exits: []ExitTemplate{{Condition: tpl, Next: idle}}},
	})
	m.Start(at(0))
	cond := m.Graph().Conditions()[0]

	m.Tick(Frame{Now: 0.1})
	if cond.Evaluate(m.CurrentState()).ShouldTransition {
		t.Fatalf("fired while not aiming")
	}
	m.Tick(Frame{Now: 0.2, Aiming: true})
	if !cond.Evaluate(m.CurrentState()).ShouldTransition {
		t.Fatalf("did not see the aiming flag")
	}
}

func TestScriptErrors(t *testing.T) {
	if _, err := NewScriptTemplate("bad", "bad.tengo", []byte(`trigger = (`)); err == nil {
		t.Fatalf("expected tengo compile error")
	}
	if _, err := NewScriptTemplate("bad", "bad.lua", []byte(`function (`)); err == nil {
		t.Fatalf("expected lua parse error")
	}
	if _, err := NewScriptTemplate("bad", "bad.js", nil); err == nil {
		t.Fatalf("expected unsupported extension error")
	}

	core, logs := observer.New(zapcore.WarnLevel)
	tpl, err := NewScriptTemplate("missing", "missing.lua", []byte(`x = 1`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m := NewMachine(newRig().host, nil, WithLogger(zap.New(core)))
	cond := tpl.NewCondition()
	cond.Initialize(m)
	for i := 0; i < 3; i++ {
		if cond.Evaluate(nil).ShouldTransition {
			t.Fatalf("failing script fired")
		}
	}
	if n := logs.FilterMessage("ai: script condition failed").Len(); n != 1 {
		t.Fatalf("logged %d failures, want 1", n)
	}
}

func TestDestroyClosesScriptConditions(t *testing.T) {
	tpl, err := NewScriptTemplate("s", "s.lua", []byte(`function evaluate(ctx) return false end`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	idle := &IdleTemplate{}
	m := NewMachine(newRig().host, []TableEntry{{State: idle, Exits: []ExitTemplate{{Condition: tpl, Next: idle}}}})
	cond := m.Graph().Conditions()[0].(*scriptCondition)
	m.Destroy()
	if cond.vm != nil {
		t.Fatalf("lua VM still open after Destroy")
	}
}
