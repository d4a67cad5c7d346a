package ai

import (
	"math"

	"github.com/milk9111/enemyai/common"
)

const wanderPointAttempts = 16

// WanderTemplate roams random reachable points around the agent, tethered
// to where it spawned.
type WanderTemplate struct {
	Name                 string  `yaml:"-"`
	MoveSpeed            float64 `yaml:"move_speed"`
	StoppingDistance     float64 `yaml:"stopping_distance"`
	WanderRadius         float64 `yaml:"wander_radius"`
	MaxDistanceFromSpawn float64 `yaml:"max_distance_from_spawn"`
	RepathDistance       float64 `yaml:"repath_distance"`
	SampleRadius         float64 `yaml:"sample_radius"`
}

func DefaultWander() WanderTemplate {
	return WanderTemplate{
		MoveSpeed:            3.5,
		StoppingDistance:     0.2,
		WanderRadius:         20,
		MaxDistanceFromSpawn: 30,
		RepathDistance:       0.2,
		SampleRadius:         3,
	}
}

func (t *WanderTemplate) TemplateName() string { return nameOr(t.Name, "Wander") }

func (t *WanderTemplate) NewState() State {
	return &wanderState{baseState: baseState{name: t.TemplateName()}, cfg: *t}
}

type wanderState struct {
	baseState
	cfg         WanderTemplate
	spawn       common.Vec3
	destination common.Vec3
}

func (s *wanderState) Initialize(m *Machine) {
	s.baseState.Initialize(m)
	s.spawn = s.host().position()
}

// Spawn returns the tether anchor.
func (s *wanderState) Spawn() common.Vec3 {
	return s.spawn
}

func (s *wanderState) Enter(_ TransitionResult) {
	h := s.host()
	if h.moverUsable() {
		h.Mover.Configure(s.cfg.MoveSpeed, s.cfg.StoppingDistance)
	}
	s.setNewDestination()
}

func (s *wanderState) Tick() {
	h := s.host()
	if !h.moverUsable() {
		return
	}
	if s.locked() {
		h.Mover.Stop()
		return
	}
	if h.Mover.HasArrived() || h.Mover.RemainingDistance() <= math.Max(s.cfg.RepathDistance, s.cfg.StoppingDistance) {
		s.setNewDestination()
	}
}

func (s *wanderState) Exit() {
	s.host().stop()
}

func (s *wanderState) setNewDestination() {
	h := s.host()
	if !h.moverUsable() {
		return
	}
	s.destination = s.randomPoint(h)
	if h.Spatial != nil {
		if sampled, ok := h.Spatial.SampleWalkable(s.destination, math.Max(0.1, s.cfg.SampleRadius)); ok {
			s.destination = sampled
		}
	}
	h.Mover.RequestMove(s.destination)
}

func (s *wanderState) randomPoint(h *Host) common.Vec3 {
	current := h.position()
	for i := 0; i < wanderPointAttempts; i++ {
		x, z := insideUnitCircle(h)
		candidate := current.Add(common.V3(x*s.cfg.WanderRadius, 0, z*s.cfg.WanderRadius))
		candidate = s.clampToSpawn(candidate, current)
		if common.HorizontalDistance(current, candidate) > 1 {
			return candidate
		}
	}
	return s.clampToSpawn(current.Add(h.forward().Flat().Normalize().Scale(2)), current)
}

func (s *wanderState) clampToSpawn(candidate, current common.Vec3) common.Vec3 {
	offset := candidate.Sub(s.spawn).Flat()
	if max := math.Max(0, s.cfg.MaxDistanceFromSpawn); offset.Len() > max {
		offset = offset.Normalize().Scale(max)
	}
	clamped := s.spawn.Add(offset)
	clamped.Y = current.Y
	return clamped
}

// insideUnitCircle samples uniformly over the unit disc.
func insideUnitCircle(h *Host) (float64, float64) {
	r := math.Sqrt(h.randFloat())
	theta := h.randFloat() * 2 * math.Pi
	return r * math.Cos(theta), r * math.Sin(theta)
}
