package arena

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
)

type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

type fakeHost struct {
	player    common.Vec3
	hasPlayer bool
	walkable  bool
	fail      error
	next      ai.EntityRef
	spawned   []SpawnRequest
}

func (h *fakeHost) SampleWalkable(p common.Vec3, _ float64) (common.Vec3, bool) {
	return p, h.walkable
}

func (h *fakeHost) PlayerPosition() (common.Vec3, bool) {
	return h.player, h.hasPlayer
}

func (h *fakeHost) Spawn(req SpawnRequest) (ai.EntityRef, error) {
	if h.fail != nil {
		return 0, h.fail
	}
	h.next++
	h.spawned = append(h.spawned, req)
	return h.next, nil
}

func (h *fakeHost) kill(i int) {
	h.spawned[i].OnDestroyed()
}

func newHost() *fakeHost {
	return &fakeHost{walkable: true}
}

func waveConfig(types ...TypeConfig) Config {
	cfg := DefaultConfig()
	cfg.Radius = 10
	cfg.MinDistanceFromPlayer = 0
	cfg.Interval = 1
	cfg.Types = types
	return cfg
}

func TestSpawnerQuotas(t *testing.T) {
	host := newHost()
	cleared := 0
	s := NewSpawner(
		waveConfig(TypeConfig{Name: "grunt", Prefab: "grunt.yaml", Total: 3, MaxAlive: 2}),
		host,
		&seqRand{vals: []float64{0.5, 0.25, 0.75}},
		WithClearedCallback(func() { cleared++ }),
	)

	s.Update(0)
	if s.Phase() != PhaseIdle || len(host.spawned) != 0 {
		t.Fatalf("spawner should wait for Begin")
	}

	s.Begin(0)
	s.Update(0)
	if len(host.spawned) != 1 {
		t.Fatalf("first pass should spawn immediately, got %d", len(host.spawned))
	}
	s.Update(0.5)
	if len(host.spawned) != 1 {
		t.Fatalf("spawned before the interval elapsed")
	}
	s.Update(1)
	s.Update(2)
	if len(host.spawned) != 2 || s.Alive("grunt") != 2 {
		t.Fatalf("alive cap not honoured: spawned=%d alive=%d", len(host.spawned), s.Alive("grunt"))
	}

	host.kill(0)
	host.kill(0)
	if s.Alive("grunt") != 1 {
		t.Fatalf("double destroy should only free one slot, alive=%d", s.Alive("grunt"))
	}
	s.Update(3)
	if len(host.spawned) != 3 || s.Remaining("grunt") != 0 {
		t.Fatalf("freed slot should be refilled: spawned=%d remaining=%d", len(host.spawned), s.Remaining("grunt"))
	}
	s.Update(4)
	if len(host.spawned) != 3 {
		t.Fatalf("spawned past the total")
	}

	host.kill(1)
	s.Update(5)
	if s.Phase() != PhaseSpawning {
		t.Fatalf("cleared with an enemy still alive")
	}
	host.kill(2)
	s.Update(5.1)
	if s.Phase() != PhaseCleared || cleared != 1 {
		t.Fatalf("phase = %v cleared = %d", s.Phase(), cleared)
	}
	s.Update(10)
	if cleared != 1 {
		t.Fatalf("cleared callback fired again")
	}

	for _, req := range host.spawned {
		if req.Yaw < 0 || req.Yaw >= 360 {
			t.Fatalf("yaw %v out of range", req.Yaw)
		}
		if common.HorizontalDistance(req.Position, common.Vec3{}) > 10 {
			t.Fatalf("spawn %v outside the arena", req.Position)
		}
	}
}

func TestSpawnerNoValidTypesClearsImmediately(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cleared := false
	s := NewSpawner(
		waveConfig(
			TypeConfig{Name: "empty", Prefab: "grunt.yaml", Total: 0},
			TypeConfig{Name: "missing", Total: 4},
		),
		newHost(),
		&seqRand{vals: []float64{0.5}},
		WithLogger(zap.New(core)),
		WithClearedCallback(func() { cleared = true }),
	)
	s.Begin(0)
	s.Update(0)
	if s.Phase() != PhaseCleared || !cleared {
		t.Fatalf("wave without types should clear on first update")
	}
	if n := logs.FilterMessage("arena: skipping enemy type").Len(); n != 2 {
		t.Fatalf("skip warnings = %d, want 2", n)
	}
}

func TestSpawnerPlacement(t *testing.T) {
	cases := []struct {
		name      string
		host      *fakeHost
		minDist   float64
		wantSpawn bool
	}{
		{"walkable", &fakeHost{walkable: true}, 0, true},
		{"not_walkable", &fakeHost{walkable: false}, 0, false},
		{"player_everywhere", &fakeHost{walkable: true, hasPlayer: true}, 100, false},
		{"player_far_enough", &fakeHost{walkable: true, hasPlayer: true, player: common.V3(50, 0, 50)}, 5, true},
		{"spawn_error", &fakeHost{walkable: true, fail: errors.New("boom")}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := waveConfig(TypeConfig{Prefab: "grunt.yaml", Total: 1, MaxAlive: 1})
			cfg.MinDistanceFromPlayer = c.minDist
			s := NewSpawner(cfg, c.host, &seqRand{vals: []float64{0.1, 0.9, 0.6}})
			s.Begin(0)
			s.Update(0)
			if got := len(c.host.spawned) == 1; got != c.wantSpawn {
				t.Fatalf("spawned = %v, want %v", got, c.wantSpawn)
			}
			want := 0
			if !c.wantSpawn {
				want = 1
			}
			if s.Remaining("grunt.yaml") != want {
				t.Fatalf("remaining = %d, want %d", s.Remaining("grunt.yaml"), want)
			}
		})
	}
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{Interval: 0, MaxAttempts: 0, SampleDistance: 0, Radius: 0}.normalized()
	if cfg.Interval != minInterval || cfg.MaxAttempts != 1 || cfg.SampleDistance != minSampleDistance || cfg.Radius != minRadius {
		t.Fatalf("normalized = %+v", cfg)
	}
}
