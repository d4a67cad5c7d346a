package arena

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
)

const (
	minInterval       = 0.05
	minSampleDistance = 0.5
	minRadius         = 1
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpawning
	PhaseCleared
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpawning:
		return "spawning"
	case PhaseCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// TypeConfig is one enemy type of an arena wave.
type TypeConfig struct {
	Name     string `toml:"name"`
	Prefab   string `toml:"prefab"`
	Total    int    `toml:"total"`
	MaxAlive int    `toml:"max_alive"`
}

type Config struct {
	Center                common.Vec3  `toml:"center"`
	Radius                float64      `toml:"radius"`
	Interval              float64      `toml:"interval"`
	MinDistanceFromPlayer float64      `toml:"min_distance_from_player"`
	MaxAttempts           int          `toml:"max_attempts"`
	SampleDistance        float64      `toml:"sample_distance"`
	Types                 []TypeConfig `toml:"types"`
}

func DefaultConfig() Config {
	return Config{
		Radius:                18,
		Interval:              0.5,
		MinDistanceFromPlayer: 8,
		MaxAttempts:           20,
		SampleDistance:        4,
	}
}

func (c Config) normalized() Config {
	c.Radius = math.Max(minRadius, c.Radius)
	c.Interval = math.Max(minInterval, c.Interval)
	c.MinDistanceFromPlayer = math.Max(0, c.MinDistanceFromPlayer)
	c.MaxAttempts = max(1, c.MaxAttempts)
	c.SampleDistance = math.Max(minSampleDistance, c.SampleDistance)
	return c
}

// SpawnRequest asks the host to create one enemy. The host must call
// OnDestroyed exactly once when the enemy goes away.
type SpawnRequest struct {
	Type        string
	Prefab      string
	Position    common.Vec3
	Yaw         float64
	OnDestroyed func()
}

type Host interface {
	SampleWalkable(point common.Vec3, maxDistance float64) (common.Vec3, bool)
	PlayerPosition() (common.Vec3, bool)
	Spawn(req SpawnRequest) (ai.EntityRef, error)
}

type runtimeType struct {
	cfg       TypeConfig
	remaining int
	alive     int
}

// Spawner runs one arena wave: it keeps every type topped up to its alive
// cap until its total is spent, then waits for the survivors to die.
type Spawner struct {
	cfg       Config
	host      Host
	rng       ai.Rand
	log       *zap.Logger
	onCleared func()

	phase  Phase
	types  []*runtimeType
	nextAt float64
}

type Option func(*Spawner)

func WithLogger(log *zap.Logger) Option {
	return func(s *Spawner) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClearedCallback runs fn once when the wave is cleared.
func WithClearedCallback(fn func()) Option {
	return func(s *Spawner) {
		s.onCleared = fn
	}
}

func NewSpawner(cfg Config, host Host, rng ai.Rand, opts ...Option) *Spawner {
	s := &Spawner{
		cfg:  cfg.normalized(),
		host: host,
		rng:  rng,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin starts the wave. The first spawn pass runs on the first Update.
func (s *Spawner) Begin(now float64) {
	if s.phase != PhaseIdle {
		return
	}
	s.types = s.types[:0]
	for _, t := range s.cfg.Types {
		if t.Prefab == "" || t.Total <= 0 {
			s.log.Warn("arena: skipping enemy type", zap.String("type", t.Name), zap.String("prefab", t.Prefab), zap.Int("total", t.Total))
			continue
		}
		t.MaxAlive = max(1, t.MaxAlive)
		if t.Name == "" {
			t.Name = t.Prefab
		}
		s.types = append(s.types, &runtimeType{cfg: t, remaining: t.Total})
	}
	s.phase = PhaseSpawning
	s.nextAt = now
	s.log.Info("arena: wave started", zap.Int("types", len(s.types)))
}

func (s *Spawner) Update(now float64) {
	if s.phase != PhaseSpawning {
		return
	}
	if s.complete() {
		s.clear()
		return
	}
	if now < s.nextAt {
		return
	}
	s.nextAt = now + s.cfg.Interval
	for _, t := range s.types {
		if t.remaining <= 0 || t.alive >= t.cfg.MaxAlive {
			continue
		}
		s.trySpawn(t)
	}
}

func (s *Spawner) complete() bool {
	for _, t := range s.types {
		if t.remaining > 0 || t.alive > 0 {
			return false
		}
	}
	return true
}

func (s *Spawner) clear() {
	s.phase = PhaseCleared
	s.log.Info("arena: wave cleared")
	if s.onCleared != nil {
		s.onCleared()
	}
}

func (s *Spawner) trySpawn(t *runtimeType) {
	pos, ok := s.spawnPosition()
	if !ok {
		s.log.Debug("arena: no spawn position", zap.String("type", t.cfg.Name))
		return
	}
	released := false
	req := SpawnRequest{
		Type:     t.cfg.Name,
		Prefab:   t.cfg.Prefab,
		Position: pos,
		Yaw:      s.rand() * 360,
		OnDestroyed: func() {
			if released {
				return
			}
			released = true
			t.alive = max(0, t.alive-1)
		},
	}
	// Counted before Spawn so a destroy fired from inside Spawn balances out.
	t.remaining--
	t.alive++
	ref, err := s.host.Spawn(req)
	if err != nil {
		t.remaining++
		t.alive--
		s.log.Warn("arena: spawn failed", zap.String("type", t.cfg.Name), zap.Error(err))
		return
	}
	s.log.Debug("arena: enemy spawned",
		zap.String("type", t.cfg.Name),
		zap.Stringer("entity", ref),
		zap.Int("remaining", t.remaining),
		zap.Int("alive", t.alive))
}

// spawnPosition samples the arena disc for a walkable point far enough from
// the player.
func (s *Spawner) spawnPosition() (common.Vec3, bool) {
	player, hasPlayer := s.host.PlayerPosition()
	for range s.cfg.MaxAttempts {
		x, z := s.insideUnitCircle()
		candidate := s.cfg.Center.Add(common.V3(x*s.cfg.Radius, 0, z*s.cfg.Radius))
		if hasPlayer && common.HorizontalDistance(candidate, player) < s.cfg.MinDistanceFromPlayer {
			continue
		}
		if p, ok := s.host.SampleWalkable(candidate, s.cfg.SampleDistance); ok {
			return p, true
		}
	}
	return common.Vec3{}, false
}

func (s *Spawner) insideUnitCircle() (float64, float64) {
	for range 32 {
		x := s.rand()*2 - 1
		z := s.rand()*2 - 1
		if x*x+z*z <= 1 {
			return x, z
		}
	}
	return 0, 0
}

func (s *Spawner) rand() float64 {
	if s.rng == nil {
		return 0.5
	}
	return s.rng.Float64()
}

func (s *Spawner) Phase() Phase { return s.phase }

// Remaining reports how many enemies of type are still to be spawned.
func (s *Spawner) Remaining(name string) int {
	for _, t := range s.types {
		if t.cfg.Name == name {
			return t.remaining
		}
	}
	return 0
}

// Alive reports how many spawned enemies of type are still alive.
func (s *Spawner) Alive(name string) int {
	for _, t := range s.types {
		if t.cfg.Name == name {
			return t.alive
		}
	}
	return 0
}
