package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
	"github.com/milk9111/enemyai/prefabs"
	"github.com/milk9111/enemyai/sim"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	strikeRange  = 2.0
	strikeDamage = 12
	grabRange    = 1.5
	moveLead     = 1.0
	maxEvents    = 10
)

type Game struct {
	frames   int
	paused   bool
	stepOnce bool
	quit     bool

	log     *zap.Logger
	input   *Input
	watcher *prefabs.Watcher
	s       *sim.Scenario
	view    view
	pauseUI *ebitenui.UI

	held     ai.EntityRef
	moving   bool
	events   []string
	lastBlow []ai.EntityRef
}

func NewGame(log *zap.Logger) *Game {
	g := &Game{
		log:   log,
		input: NewInput(),
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) attach(s *sim.Scenario) {
	g.s = s
	g.view = newView(s.World.Grid())
}

func (g *Game) recordTransition(t sim.Transition) {
	line := fmt.Sprintf("%6.2f %s %s: %s -> %s", t.Now, t.Entity, t.Brain, t.From, t.To)
	g.events = append(g.events, line)
	if len(g.events) > maxEvents {
		g.events = g.events[len(g.events)-maxEvents:]
	}
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()
	if g.input.PausePressed {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
	}
	if g.quit || g.input.QuitPressed {
		return ebiten.Termination
	}

	g.reloadChanged()

	step := !g.paused || g.stepOnce || g.input.StepPressed
	g.stepOnce = false
	if step {
		g.updatePlayer()
		g.s.Step()
	}
	return nil
}

func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Drain() {
		g.log.Info("prefab changed", zap.String("path", c.Path), zap.Stringer("kind", c.Kind))
		g.s.Reload(c.Path)
	}
	select {
	case err := <-g.watcher.Errors:
		g.log.Warn("prefab watcher", zap.Error(err))
	default:
	}
}

func (g *Game) updatePlayer() {
	w := g.s.World
	player := g.s.Player
	if !w.IsAlive(player) || w.IsDead(player) {
		w.SetAiming(false)
		return
	}
	in := g.input
	w.SetAiming(in.Aim)

	pos, _ := w.Position(player)
	cursor := g.view.toWorld(in.CursorX, in.CursorY)

	if agent, ok := w.Agent(player); ok {
		dir := common.V3(in.MoveX, 0, in.MoveZ).Normalize()
		switch {
		case !dir.IsZero():
			agent.RequestMove(pos.Add(dir.Scale(moveLead)))
			g.moving = true
		case g.moving:
			agent.Stop()
			g.moving = false
		}
		if in.Aim {
			agent.Face(cursor)
		}
	}

	if in.StrikePressed {
		if target, ok := g.enemyNear(pos, strikeRange); ok {
			w.Damage(target, strikeDamage, player)
		}
	}

	if g.held != 0 && !w.IsAlive(g.held) {
		g.held = 0
	}
	switch {
	case in.CapturePressed:
		if target, ok := g.enemyNear(cursor, grabRange); ok && w.Capture(target) {
			g.held = target
		}
	case in.ArmPressed:
		target := g.held
		if target == 0 {
			target, _ = g.enemyNear(cursor, grabRange)
		}
		if target != 0 && w.Arm(target) {
			g.held = target
		}
	case in.DetonatePressed:
		if g.held != 0 {
			if hits, ok := w.Detonate(g.held); ok {
				g.lastBlow = hits
				g.held = 0
			}
		}
	case in.ReleasePressed:
		if g.held != 0 && w.Release(g.held) {
			g.held = 0
		}
	}
}

// enemyNear returns the closest live enemy within maxDist of p.
func (g *Game) enemyNear(p common.Vec3, maxDist float64) (ai.EntityRef, bool) {
	w := g.s.World
	var best ai.EntityRef
	bestDist := maxDist
	found := false
	for _, ref := range w.Enemies() {
		if w.IsDead(ref) {
			continue
		}
		ep, ok := w.Position(ref)
		if !ok {
			continue
		}
		if d := common.HorizontalDistance(p, ep); d <= bestDist {
			best, bestDist, found = ref, d, true
		}
	}
	return best, found
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
