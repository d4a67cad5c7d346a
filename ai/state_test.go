package ai

import (
	"testing"

	"github.com/milk9111/enemyai/common"
)

func TestWanderStaysTetheredToSpawn(t *testing.T) {
	r := newRig()
	r.body.pos = common.V3(10, 0, 10)
	r.host.Rand = fixedRand(0.99)

	tpl := DefaultWander()
	tpl.WanderRadius = 50
	tpl.MaxDistanceFromSpawn = 5
	m := NewMachine(r.host, []TableEntry{{State: &tpl}})
	m.Start(at(0))

	if len(r.mover.requests) != 1 {
		t.Fatalf("wander should request a destination on enter, got %d", len(r.mover.requests))
	}
	if r.mover.speed != tpl.MoveSpeed || r.mover.stopping != tpl.StoppingDistance {
		t.Fatalf("mover configured with %v/%v", r.mover.speed, r.mover.stopping)
	}
	dst := r.mover.requests[0]
	if d := common.HorizontalDistance(common.V3(10, 0, 10), dst); d > 5+1e-9 {
		t.Fatalf("destination %v is %v from spawn", dst, d)
	}

	r.mover.arrived = true
	m.Tick(at(0.1))
	if len(r.mover.requests) != 2 {
		t.Fatalf("arriving should pick a new destination")
	}

	m.SetTransitionLock(true)
	stops := r.mover.stops
	m.Tick(at(0.2))
	if len(r.mover.requests) != 2 || r.mover.stops != stops+1 {
		t.Fatalf("locked wander should stop instead of repathing")
	}
}

func TestWanderUnusableMover(t *testing.T) {
	r := newRig()
	r.mover.usable = false
	tpl := DefaultWander()
	m := NewMachine(r.host, []TableEntry{{State: &tpl}})
	m.Start(at(0))
	m.Tick(at(0.1))
	if len(r.mover.requests) != 0 || r.mover.stops != 0 {
		t.Fatalf("unusable mover should be left alone")
	}
}

func TestChaseRepathThreshold(t *testing.T) {
	r := newRig()
	const player EntityRef = 7
	r.world.add(player, "player", common.V3(0, 0, 10))

	tpl := DefaultChase()
	idle := &IdleTemplate{}
	m := NewMachine(r.host, []TableEntry{{State: idle}, {State: &tpl}})
	m.Start(at(0))
	m.ChangeState(mustState(t, m, &tpl), Trigger(player))

	if len(r.mover.requests) != 1 {
		t.Fatalf("chase should force a move on enter")
	}

	steps := []struct {
		pos  common.Vec3
		want int
	}{
		{common.V3(0, 0, 10.1), 1},
		{common.V3(0, 3, 10.2), 1},
		{common.V3(0, 0, 10.3), 2},
		{common.V3(0, 0, 10.4), 2},
	}
	for i, s := range steps {
		r.world.pos[player] = s.pos
		m.Tick(at(float64(i+1) * 0.1))
		if got := len(r.mover.requests); got != s.want {
			t.Fatalf("step %d: requests = %d, want %d", i, got, s.want)
		}
	}

	r.world.destroy(player)
	stops := r.mover.stops
	m.Tick(at(1))
	if r.mover.stops != stops+1 {
		t.Fatalf("chase should stop once the target is gone")
	}
}

func TestChaseKeepsTargetWithoutNewOne(t *testing.T) {
	r := newRig()
	r.world.add(7, "player", common.V3(0, 0, 10))
	r.world.add(8, "player", common.V3(0, 0, 12))

	tpl := DefaultChase()
	idle := &IdleTemplate{}
	m := NewMachine(r.host, []TableEntry{{State: idle}, {State: &tpl}})
	m.Start(at(0))
	chase := mustState(t, m, &tpl)
	idleState := mustState(t, m, idle)

	m.ChangeState(chase, Trigger(7))
	m.ChangeState(idleState, NoTrigger())
	m.ChangeState(chase, NoTrigger())
	if target, _ := m.CurrentTarget(); target != 7 {
		t.Fatalf("target = %v, want the previous target", target)
	}
	m.ChangeState(idleState, NoTrigger())
	m.ChangeState(chase, Trigger(8))
	if target, _ := m.CurrentTarget(); target != 8 {
		t.Fatalf("target = %v, want the new target", target)
	}
}

func TestAttackOutOfRangeKeepsCooldown(t *testing.T) {
	r := newRig()
	const player EntityRef = 7
	hp := r.world.add(player, "player", common.V3(0, 0, 5))

	tpl := DefaultAttack()
	idle := &IdleTemplate{}
	m := NewMachine(r.host, []TableEntry{{State: idle}, {State: &tpl}})
	m.Start(at(0))
	m.ChangeState(mustState(t, m, &tpl), Trigger(player))

	m.Tick(at(0.3))
	if len(hp.hits) != 0 {
		t.Fatalf("out of range target was hit")
	}
	r.world.pos[player] = common.V3(0, 0, 1.5)
	m.Tick(at(0.35))
	if len(hp.hits) != 1 {
		t.Fatalf("target stepping into range should be hit at once, hits = %d", len(hp.hits))
	}
}

func TestAttackSkipsDeadAndLocked(t *testing.T) {
	r := newRig()
	const player EntityRef = 7
	hp := r.world.add(player, "player", common.V3(0, 0, 1))

	tpl := DefaultAttack()
	idle := &IdleTemplate{}
	m := NewMachine(r.host, []TableEntry{{State: idle}, {State: &tpl}})
	m.Start(at(0))
	m.ChangeState(mustState(t, m, &tpl), Trigger(player))

	m.SetTransitionLock(true)
	m.Tick(at(1))
	if len(hp.hits) != 0 {
		t.Fatalf("locked attacker dealt damage")
	}
	m.SetTransitionLock(false)

	hp.health = 0
	m.Tick(at(2))
	if len(hp.hits) != 0 {
		t.Fatalf("dead target took damage")
	}
}
