package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/milk9111/enemyai/arena"
	"github.com/milk9111/enemyai/common"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "ENEMYAI_CONFIG"

const DefaultPath = "config/aisim.toml"

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Sim     SimConfig     `toml:"sim"`
	Prefabs PrefabsConfig `toml:"prefabs"`
	World   WorldConfig   `toml:"world"`
	Arena   arena.Config  `toml:"arena"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

type SimConfig struct {
	Tick     time.Duration `toml:"tick"`
	Duration time.Duration `toml:"duration"`
	Seed     uint64        `toml:"seed"`
	Aiming   bool          `toml:"aiming"`
}

type PrefabsConfig struct {
	Dir    string `toml:"dir"`
	Brain  string `toml:"brain"`
	Player string `toml:"player"`
	Watch  bool   `toml:"watch"`
}

type WallConfig struct {
	Min common.Vec3 `toml:"min"`
	Max common.Vec3 `toml:"max"`
}

type WorldConfig struct {
	Width       int          `toml:"width"`
	Height      int          `toml:"height"`
	CellSize    float64      `toml:"cell_size"`
	Origin      common.Vec3  `toml:"origin"`
	PlayerStart common.Vec3  `toml:"player_start"`
	Walls       []WallConfig `toml:"walls"`
}

// Resolve returns the config path from the environment, or fallback.
func Resolve(fallback string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return fallback
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	cfg.Arena.Types = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Arena.Types) == 0 {
		cfg.Arena.Types = defaultArenaTypes()
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	a := arena.DefaultConfig()
	a.Center = common.V3(16, 0, 16)
	a.Radius = 12
	a.Types = defaultArenaTypes()
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Sim: SimConfig{
			Tick:     time.Second / 60,
			Duration: 60 * time.Second,
			Seed:     1,
		},
		Prefabs: PrefabsConfig{
			Dir:    "prefabs",
			Brain:  "grunt.yaml",
			Player: "player.yaml",
		},
		World: WorldConfig{
			Width:       32,
			Height:      32,
			CellSize:    1,
			PlayerStart: common.V3(4.5, 0, 4.5),
		},
		Arena: a,
	}
}

func defaultArenaTypes() []arena.TypeConfig {
	return []arena.TypeConfig{
		{Name: "grunts", Prefab: "grunt.yaml", Total: 6, MaxAlive: 3},
		{Name: "sentries", Prefab: "sentry.yaml", Total: 2, MaxAlive: 1},
	}
}

func (c *Config) validate() error {
	if c.Sim.Tick <= 0 {
		return fmt.Errorf("sim.tick must be positive, got %s", c.Sim.Tick)
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("sim.duration must not be negative, got %s", c.Sim.Duration)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.World.CellSize <= 0 {
		return fmt.Errorf("world.cell_size must be positive, got %v", c.World.CellSize)
	}
	return nil
}
