package ai

import (
	"math"
	"testing"

	"github.com/milk9111/enemyai/common"
)

// evalOn builds a one-state machine around cond and evaluates it against
// current.
func evalOn(t *testing.T, r *rig, tpl ConditionTemplate, current State, now float64) (Condition, TransitionResult) {
	t.Helper()
	m := NewMachine(r.host, nil, WithStartTime(now))
	c := tpl.NewCondition()
	c.Initialize(m)
	c.OnStateEntered()
	return c, c.Evaluate(current)
}

type trackerStub struct {
	baseState
	target EntityRef
}

func (s *trackerStub) CurrentTarget() (EntityRef, bool) { return s.target, s.target.Valid() }

func TestTimerDelayRange(t *testing.T) {
	cases := []struct {
		name     string
		min, max float64
		rand     float64
		want     float64
	}{
		{"fixed", 1, 1, 0.9, 1},
		{"low_draw", 1, 3, 0, 1},
		{"mid_draw", 1, 3, 0.25, 1.5},
		{"reversed", 3, 1, 0.5, 2},
		{"negative_clamped", -2, -1, 0.5, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig()
			r.host.Rand = fixedRand(c.rand)
			m := NewMachine(r.host, nil, WithStartTime(10))
			tpl := &TimerTemplate{MinDelay: c.min, MaxDelay: c.max}
			cond := tpl.NewCondition().(*timerCondition)
			cond.Initialize(m)
			if got := cond.TriggerTime() - 10; math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("delay = %v, want %v", got, c.want)
			}
		})
	}
}

func TestTimerResetsOnStateEntered(t *testing.T) {
	r := newRig()
	m := NewMachine(r.host, nil)
	tpl := &TimerTemplate{MinDelay: 2, MaxDelay: 2}
	cond := tpl.NewCondition()
	cond.Initialize(m)

	m.frame.Now = 5
	if !cond.Evaluate(nil).ShouldTransition {
		t.Fatalf("timer should have elapsed")
	}
	cond.OnStateEntered()
	if cond.Evaluate(nil).ShouldTransition {
		t.Fatalf("timer should restart on state entry")
	}
	m.frame.Now = 7
	if !cond.Evaluate(nil).ShouldTransition {
		t.Fatalf("timer should fire two seconds after entry")
	}
}

func TestTagInViewPicksBestCandidate(t *testing.T) {
	r := newRig()
	r.world.add(10, "player", common.V3(4, 0, 4))
	r.world.add(11, "player", common.V3(0, 0, 8))
	r.world.add(12, "player", common.V3(0, 0, -3))
	r.world.add(13, "crate", common.V3(0, 0, 2))

	tpl := DefaultTagInView()
	_, res := evalOn(t, r, &tpl, nil, 0)
	if !res.ShouldTransition || res.Target != 11 {
		t.Fatalf("result = %+v, want the centred candidate 11", res)
	}
}

func TestTagInViewFilters(t *testing.T) {
	cases := []struct {
		name    string
		pos     common.Vec3
		mutate  func(*TagInViewTemplate)
		blocked bool
		want    bool
	}{
		{"visible", common.V3(0, 0, 5), nil, false, true},
		{"behind", common.V3(0, 0, -5), nil, false, false},
		{"too_far", common.V3(0, 0, 30), nil, false, false},
		{"occluded", common.V3(0, 0, 5), nil, true, false},
		{"narrow_cone", common.V3(3, 0, 3), func(t *TagInViewTemplate) { t.ViewAngle = 30 }, false, false},
		{"in_range_pass", common.V3(0, 0, 1.5), func(t *TagInViewTemplate) { t.RangeMode = RangeInRange }, false, true},
		{"in_range_fail", common.V3(0, 0, 5), func(t *TagInViewTemplate) { t.RangeMode = RangeInRange }, false, false},
		{"out_of_range_pass", common.V3(0, 0, 5), func(t *TagInViewTemplate) { t.RangeMode = RangeOutOfRange }, false, true},
		{"out_of_range_fail", common.V3(0, 0, 1.5), func(t *TagInViewTemplate) { t.RangeMode = RangeOutOfRange }, false, false},
		{"wrong_tag", common.V3(0, 0, 5), func(t *TagInViewTemplate) { t.Tag = "ally" }, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig()
			r.world.add(9, "player", c.pos)
			r.world.blocked = c.blocked
			tpl := DefaultTagInView()
			if c.mutate != nil {
				c.mutate(&tpl)
			}
			_, res := evalOn(t, r, &tpl, nil, 0)
			if res.ShouldTransition != c.want {
				t.Fatalf("fired = %v, want %v", res.ShouldTransition, c.want)
			}
		})
	}
}

func TestTagInViewCurrentTargetOnly(t *testing.T) {
	r := newRig()
	r.world.add(9, "player", common.V3(0, 0, 5))
	r.world.add(10, "player", common.V3(0, 0, 4))

	tpl := DefaultTagInView()
	tpl.UseCurrentStateTargetOnly = true

	_, res := evalOn(t, r, &tpl, &trackerStub{target: 9}, 0)
	if !res.ShouldTransition || res.Target != 9 {
		t.Fatalf("result = %+v, want tracked target 9", res)
	}
	_, res = evalOn(t, r, &tpl, &probeState{}, 0)
	if res.ShouldTransition {
		t.Fatalf("non-tracking state should not fire")
	}
	r.world.destroy(9)
	_, res = evalOn(t, r, &tpl, &trackerStub{target: 9}, 0)
	if res.ShouldTransition {
		t.Fatalf("destroyed target should not fire")
	}
}

func TestTargetDistance(t *testing.T) {
	cases := []struct {
		name   string
		pos    common.Vec3
		within bool
		horiz  bool
		want   bool
	}{
		{"within", common.V3(0, 0, 1), true, true, true},
		{"outside", common.V3(0, 0, 3), true, true, false},
		{"height_ignored", common.V3(0, 5, 1), true, true, true},
		{"height_counted", common.V3(0, 5, 1), true, false, false},
		{"beyond_mode", common.V3(0, 0, 3), false, true, true},
		{"beyond_mode_near", common.V3(0, 0, 1), false, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig()
			r.world.add(9, "player", c.pos)
			tpl := DefaultTargetDistance()
			tpl.TriggerWhenWithin = c.within
			tpl.HorizontalOnly = c.horiz
			_, res := evalOn(t, r, &tpl, &trackerStub{target: 9}, 0)
			if res.ShouldTransition != c.want {
				t.Fatalf("fired = %v, want %v", res.ShouldTransition, c.want)
			}
			if res.ShouldTransition && res.Target != 9 {
				t.Fatalf("target = %v, want 9", res.Target)
			}
		})
	}

	r := newRig()
	tpl := DefaultTargetDistance()
	if _, res := evalOn(t, r, &tpl, &probeState{}, 0); res.ShouldTransition {
		t.Fatalf("state without a target should never fire")
	}
}

func TestTargetNotSeen(t *testing.T) {
	t.Run("ignores_non_tracking_states", func(t *testing.T) {
		r := newRig()
		tpl := DefaultTargetNotSeen()
		if _, res := evalOn(t, r, &tpl, &probeState{}, 0); res.ShouldTransition {
			t.Fatalf("fired outside chase/attack")
		}
	})

	t.Run("fires_when_target_missing", func(t *testing.T) {
		r := newRig()
		tpl := DefaultTargetNotSeen()
		if _, res := evalOn(t, r, &tpl, &trackerStub{}, 0); !res.ShouldTransition {
			t.Fatalf("expected immediate fire without a target")
		}
		if _, res := evalOn(t, r, &tpl, &trackerStub{target: 99}, 0); !res.ShouldTransition {
			t.Fatalf("expected immediate fire for a destroyed target")
		}
	})

	t.Run("visibility_resets_grace", func(t *testing.T) {
		r := newRig()
		r.world.add(9, "player", common.V3(0, 0, 5))
		m := NewMachine(r.host, nil)
		tpl := DefaultTargetNotSeen()
		tpl.NotSeenDuration = 1
		cond := tpl.NewCondition()
		cond.Initialize(m)
		cur := &trackerStub{target: 9}

		step := func(now float64, blocked, want bool) {
			t.Helper()
			m.frame.Now = now
			r.world.blocked = blocked
			if got := cond.Evaluate(cur).ShouldTransition; got != want {
				t.Fatalf("t=%v blocked=%v: fired = %v, want %v", now, blocked, got, want)
			}
		}
		step(0, true, false)
		step(0.9, true, false)
		step(1.0, false, false)
		step(1.5, true, false)
		step(2.4, true, false)
		step(2.5, true, true)

		cond.OnStateEntered()
		step(2.6, true, false)
	})
}
