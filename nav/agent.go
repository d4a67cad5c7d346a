package nav

import (
	"math"

	"github.com/milk9111/enemyai/common"
)

const (
	defaultSpeed        = 3.5
	destinationSnapDist = 2.0
	turnEpsilon         = 1e-6
)

// Agent walks a Grid along A* paths. It satisfies both ai.Body and ai.Mover.
type Agent struct {
	grid     *Grid
	pos      common.Vec3
	forward  common.Vec3
	speed    float64
	stopping float64
	path     []common.Vec3
	dest     common.Vec3
	hasDest  bool
	enabled  bool
	maxNodes int
}

func NewAgent(grid *Grid, pos common.Vec3, yawDeg float64) *Agent {
	return &Agent{
		grid:     grid,
		pos:      pos,
		forward:  common.YawForward(yawDeg),
		speed:    defaultSpeed,
		enabled:  true,
		maxNodes: defaultMaxNodes,
	}
}

func (a *Agent) Position() common.Vec3 { return a.pos }
func (a *Agent) Forward() common.Vec3  { return a.forward }

// Destination returns the last accepted move target.
func (a *Agent) Destination() (common.Vec3, bool) { return a.dest, a.hasDest }

// Path returns the remaining waypoints.
func (a *Agent) Path() []common.Vec3 { return a.path }

// Usable is false while disabled or standing off the walkable grid.
func (a *Agent) Usable() bool {
	return a != nil && a.enabled && a.grid != nil && a.grid.Walkable(a.pos)
}

func (a *Agent) Configure(speed, stoppingDistance float64) {
	a.speed = math.Max(0, speed)
	a.stopping = math.Max(0, stoppingDistance)
}

// RequestMove plans a path to destination, snapping it onto walkable ground
// first. It returns false when no path exists.
func (a *Agent) RequestMove(destination common.Vec3) bool {
	if !a.Usable() {
		return false
	}
	target, ok := a.grid.SamplePosition(destination, destinationSnapDist)
	if !ok {
		return false
	}
	path, ok := a.grid.FindPath(a.pos, target, a.maxNodes)
	if !ok {
		return false
	}
	a.path = path
	a.dest = target
	a.hasDest = true
	return true
}

func (a *Agent) Stop() {
	a.path = nil
	a.hasDest = false
}

func (a *Agent) HasArrived() bool {
	return !a.hasDest || a.RemainingDistance() <= a.stopping
}

// RemainingDistance is the length of the rest of the path, or 0 with no path.
func (a *Agent) RemainingDistance() float64 {
	if len(a.path) == 0 {
		return 0
	}
	d := common.HorizontalDistance(a.pos, a.path[0])
	for i := 1; i < len(a.path); i++ {
		d += common.HorizontalDistance(a.path[i-1], a.path[i])
	}
	return d
}

// Step advances the agent along its path by speed*dt.
func (a *Agent) Step(dt float64) {
	if !a.Usable() || len(a.path) == 0 || dt <= 0 {
		return
	}
	if a.RemainingDistance() <= a.stopping {
		a.path = nil
		return
	}
	budget := a.speed * dt
	for budget > 0 && len(a.path) > 0 {
		next := a.path[0]
		to := next.Sub(a.pos).Flat()
		d := to.Len()
		if d > turnEpsilon {
			a.forward = to.Scale(1 / d)
		}
		if d <= budget {
			a.pos = common.V3(next.X, a.pos.Y, next.Z)
			a.path = a.path[1:]
			budget -= d
			continue
		}
		a.pos = a.pos.Add(to.Scale(budget / d))
		budget = 0
	}
	if a.RemainingDistance() <= a.stopping {
		a.path = nil
	}
}

// Warp teleports the agent and drops its path.
func (a *Agent) Warp(pos common.Vec3) {
	a.pos = pos
	a.Stop()
}

// Face turns the agent towards p on the ground plane.
func (a *Agent) Face(p common.Vec3) {
	to := p.Sub(a.pos).Flat()
	if to.Len() > turnEpsilon {
		a.forward = to.Normalize()
	}
}

func (a *Agent) Enable() { a.enabled = true }

// Disable halts the agent until Enable is called.
func (a *Agent) Disable() {
	a.enabled = false
	a.Stop()
}

func (a *Agent) Enabled() bool { return a.enabled }
