package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/ecs/component"
	"github.com/milk9111/enemyai/nav"
)

const (
	hudWidth   = 360
	viewMargin = 16
)

var (
	backgroundColor = colornames.Darkslategray
	floorColor      = color.RGBA{R: 0x24, G: 0x30, B: 0x30, A: 0xff}
	wallColor       = colornames.Dimgray
	pathColor       = color.RGBA{R: 0x80, G: 0xc0, B: 0xff, A: 0x90}
	targetColor     = color.RGBA{R: 0xff, G: 0x60, B: 0x40, A: 0xc0}
	panelColor      = color.RGBA{A: 0xc0}
)

// view maps the ground plane onto the left part of the screen.
type view struct {
	min, max common.Vec3
	scale    float64
	ox, oy   float64
}

func newView(grid *nav.Grid) view {
	lo, hi := grid.Bounds()
	w := math.Max(hi.X-lo.X, 1)
	h := math.Max(hi.Z-lo.Z, 1)
	availW := float64(baseWidth-hudWidth) - 2*viewMargin
	availH := float64(baseHeight) - 2*viewMargin
	scale := math.Min(availW/w, availH/h)
	return view{
		min:   lo,
		max:   hi,
		scale: scale,
		ox:    viewMargin + (availW-w*scale)/2,
		oy:    viewMargin + (availH-h*scale)/2,
	}
}

func (v view) toScreen(p common.Vec3) (float32, float32) {
	return float32(v.ox + (p.X-v.min.X)*v.scale), float32(v.oy + (p.Z-v.min.Z)*v.scale)
}

func (v view) toWorld(x, y float64) common.Vec3 {
	return common.V3(v.min.X+(x-v.ox)/v.scale, v.min.Y, v.min.Z+(y-v.oy)/v.scale)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	if g.s == nil {
		return
	}
	g.drawArena(screen)
	g.drawEntities(screen)
	g.drawHUD(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawArena(screen *ebiten.Image) {
	v := g.view
	x0, y0 := v.toScreen(v.min)
	x1, y1 := v.toScreen(v.max)
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, floorColor, false)

	for _, wall := range g.s.World.Space().Walls() {
		ax, ay := v.toScreen(wall[0])
		bx, by := v.toScreen(wall[1])
		vector.FillRect(screen, ax, ay, bx-ax, by-ay, wallColor, false)
	}
}

func (g *Game) drawEntities(screen *ebiten.Image) {
	w := g.s.World
	v := g.view
	scale := float32(v.scale)

	ecs.ForEach3(w.ECS(), component.TransformComponent.Kind(), component.ColliderComponent.Kind(), component.AppearanceComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, c *component.Collider, a *component.Appearance) {
			ref := ai.EntityRef(e)
			x, y := v.toScreen(t.Position)
			r := float32(c.Radius) * scale

			if agent, ok := w.Agent(ref); ok {
				px, py := x, y
				for _, p := range agent.Path() {
					nx, ny := v.toScreen(p)
					vector.StrokeLine(screen, px, py, nx, ny, 1, pathColor, false)
					px, py = nx, ny
				}
			}

			clr := a.Color
			if w.IsDead(ref) {
				clr = colornames.Gray
			}
			vector.FillCircle(screen, x, y, r, clr, true)

			fx, fy := v.toScreen(t.Position.Add(t.Forward.Scale(c.Radius * 1.8)))
			vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.White, true)

			switch {
			case w.IsArmed(ref):
				vector.StrokeCircle(screen, x, y, r+4, 2, colornames.Orangered, true)
			case ref == g.held:
				vector.StrokeCircle(screen, x, y, r+4, 2, colornames.Deepskyblue, true)
			}

			label := a.Label
			if m, ok := w.Machine(ref); ok {
				label = m.CurrentStateName()
				if target, ok := m.CurrentTarget(); ok {
					if tp, ok := w.Position(target); ok {
						tx, ty := v.toScreen(tp)
						vector.StrokeLine(screen, x, y, tx, ty, 1, targetColor, true)
					}
				}
			}
			if cur, maxHP, ok := w.Health(ref); ok && maxHP > 0 {
				barW := r * 2
				vector.FillRect(screen, x-r, y-r-6, barW, 3, colornames.Maroon, false)
				vector.FillRect(screen, x-r, y-r-6, barW*float32(cur/maxHP), 3, colornames.Limegreen, false)
			}
			if label != "" {
				ebitenutil.DebugPrintAt(screen, label, int(x-r), int(y+r+2))
			}
		})

	if g.input.Aim {
		cx, cy := float32(g.input.CursorX), float32(g.input.CursorY)
		vector.StrokeCircle(screen, cx, cy, 8, 1.5, colornames.Yellow, true)
		vector.StrokeLine(screen, cx-12, cy, cx+12, cy, 1, colornames.Yellow, false)
		vector.StrokeLine(screen, cx, cy-12, cx, cy+12, 1, colornames.Yellow, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := g.s.World
	x := float32(baseWidth - hudWidth)
	vector.FillRect(screen, x, 0, hudWidth, baseHeight, panelColor, false)

	var b strings.Builder
	fmt.Fprintf(&b, "t %.2f   FPS %.1f\n", w.Now(), ebiten.ActualFPS())
	fmt.Fprintf(&b, "wave: %s\n", g.s.Spawner.Phase())
	if hp, maxHP, ok := w.Health(g.s.Player); ok {
		fmt.Fprintf(&b, "player: %.0f / %.0f\n", hp, maxHP)
	}
	fmt.Fprintf(&b, "enemies alive: %d\n", len(w.Enemies()))
	fmt.Fprintf(&b, "aiming: %v\n", w.Aiming())
	if g.paused {
		b.WriteString("paused (. to step)\n")
	}
	if len(g.lastBlow) > 0 {
		fmt.Fprintf(&b, "last blast hit %d\n", len(g.lastBlow))
	}
	b.WriteString("\nWASD move   RMB/shift aim\n")
	b.WriteString("LMB/space strike\n")
	b.WriteString("C capture  E arm  X detonate\n")
	b.WriteString("R release  P pause  F12 quit\n")
	b.WriteString("\ntransitions:\n")
	for i := len(g.events) - 1; i >= 0; i-- {
		b.WriteString(g.events[i])
		b.WriteByte('\n')
	}
	ebitenutil.DebugPrintAt(screen, b.String(), int(x)+8, 8)
}
