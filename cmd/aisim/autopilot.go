package main

import (
	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
	"github.com/milk9111/enemyai/sim"
)

const (
	pilotRepath       = 0.25
	pilotStrikeEvery  = 0.6
	pilotStrikeRange  = 2.0
	pilotStrikeDamage = 12
	pilotAimEvery     = 5.0
	pilotAimFor       = 1.0
	pilotThrowEvery   = 7.0
	pilotThrowRange   = 3.0
	pilotFuse         = 0.5
)

// autopilot plays the player in headless runs: it hunts the nearest enemy,
// swings at it, aims now and then, and occasionally throws an enemy as a bomb.
type autopilot struct {
	s *sim.Scenario

	nextRepath float64
	nextStrike float64
	aimUntil   float64
	nextAim    float64
	nextThrow  float64

	armed      ai.EntityRef
	detonateAt float64

	strikes     int
	throws      int
	detonateHit int
}

func newAutopilot(s *sim.Scenario) *autopilot {
	return &autopilot{
		s:         s,
		nextAim:   pilotAimEvery,
		nextThrow: pilotThrowEvery,
	}
}

func (p *autopilot) step() {
	w := p.s.World
	now := w.Now()
	player := p.s.Player
	if !w.IsAlive(player) || w.IsDead(player) {
		w.SetAiming(false)
		return
	}

	p.updateAim(now)
	p.updateBomb(now)

	pos, _ := w.Position(player)
	target, dist, ok := p.nearestEnemy(pos)
	if !ok {
		return
	}
	targetPos, _ := w.Position(target)

	if agent, ok := w.Agent(player); ok && now >= p.nextRepath {
		p.nextRepath = now + pilotRepath
		if dist > pilotStrikeRange*0.75 {
			agent.RequestMove(targetPos)
		} else {
			agent.Stop()
			agent.Face(targetPos)
		}
	}

	if dist <= pilotStrikeRange && now >= p.nextStrike {
		p.nextStrike = now + pilotStrikeEvery
		if w.Damage(target, pilotStrikeDamage, player) {
			p.strikes++
		}
	}

	if !p.armed.Valid() && dist <= pilotThrowRange && now >= p.nextThrow {
		p.nextThrow = now + pilotThrowEvery
		if w.Arm(target) {
			p.armed = target
			p.detonateAt = now + pilotFuse
			p.throws++
		}
	}
}

func (p *autopilot) updateAim(now float64) {
	w := p.s.World
	if now >= p.nextAim {
		p.nextAim = now + pilotAimEvery
		p.aimUntil = now + pilotAimFor
	}
	w.SetAiming(now < p.aimUntil)
}

func (p *autopilot) updateBomb(now float64) {
	if !p.armed.Valid() || now < p.detonateAt {
		return
	}
	if hit, ok := p.s.World.Detonate(p.armed); ok {
		p.detonateHit += len(hit)
	}
	p.armed = 0
}

func (p *autopilot) nearestEnemy(from common.Vec3) (ai.EntityRef, float64, bool) {
	w := p.s.World
	var best ai.EntityRef
	bestDist := 0.0
	for _, ref := range w.Enemies() {
		if ref == p.armed || w.IsDead(ref) {
			continue
		}
		pos, ok := w.Position(ref)
		if !ok {
			continue
		}
		d := common.HorizontalDistance(from, pos)
		if !best.Valid() || d < bestDist {
			best, bestDist = ref, d
		}
	}
	return best, bestDist, best.Valid()
}
