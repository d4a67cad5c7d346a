package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/arena"
	"github.com/milk9111/enemyai/config"
	"github.com/milk9111/enemyai/nav"
	"github.com/milk9111/enemyai/prefabs"
)

// Scenario is a configured world with a player and an arena wave, shared by
// the headless runner and the viewer.
type Scenario struct {
	World   *World
	Library *ai.Library
	Spawner *arena.Spawner
	Player  ai.EntityRef

	tick    float64
	log     *zap.Logger
	cleared bool
}

func NewScenario(cfg *config.Config, log *zap.Logger, opts ...Option) (*Scenario, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	src := prefabs.NewSource(cfg.Prefabs.Dir)

	wc := cfg.World
	grid := nav.NewGrid(wc.Width, wc.Height, wc.CellSize, wc.Origin)
	opts = append([]Option{WithLogger(log), WithSeed(cfg.Sim.Seed)}, opts...)
	w := NewWorld(grid, opts...)
	for _, wall := range wc.Walls {
		w.AddWall(wall.Min, wall.Max)
	}
	w.SetAiming(cfg.Sim.Aiming)

	playerSpec, err := src.PlayerSpec(cfg.Prefabs.Player)
	if err != nil {
		return nil, fmt.Errorf("load player: %w", err)
	}
	start, ok := w.SampleWalkable(wc.PlayerStart, 4)
	if !ok {
		return nil, fmt.Errorf("player start %+v is not walkable", wc.PlayerStart)
	}
	player, err := w.SpawnPlayer(playerSpec, start)
	if err != nil {
		return nil, err
	}

	s := &Scenario{
		World:   w,
		Library: ai.NewLibrary(log, ai.WithSource(src)),
		Player:  player,
		tick:    cfg.Sim.Tick.Seconds(),
		log:     log,
	}
	s.Spawner = arena.NewSpawner(cfg.Arena, &ArenaHost{World: w, Library: s.Library}, w.Rand(),
		arena.WithLogger(log),
		arena.WithClearedCallback(func() { s.cleared = true }),
	)
	s.Spawner.Begin(w.Now())
	return s, nil
}

// Tick is the fixed step length in seconds.
func (s *Scenario) Tick() float64 { return s.tick }

func (s *Scenario) Cleared() bool { return s.cleared }

// Step runs one spawner pass and one world step.
func (s *Scenario) Step() {
	s.Spawner.Update(s.World.Now())
	s.World.Step(s.tick)
}

// Reload drops cached brains for a changed prefab or script file. Enemies
// spawned from now on use the new definition.
func (s *Scenario) Reload(path string) {
	s.Library.Reload(path)
}

// Run steps the scenario for d of simulated time or until the wave clears.
// between, when set, runs after every step and can stop the run by
// returning false.
func (s *Scenario) Run(d time.Duration, between func() bool) int {
	steps := 0
	for s.World.Now() < d.Seconds() && !s.cleared {
		s.Step()
		steps++
		if between != nil && !between() {
			break
		}
	}
	return steps
}
