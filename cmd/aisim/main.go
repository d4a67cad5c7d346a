package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/enemyai/config"
	"github.com/milk9111/enemyai/prefabs"
	"github.com/milk9111/enemyai/sim"
)

func main() {
	cfgPath := flag.String("config", "", "TOML config path (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	watch := flag.Bool("watch", false, "reload prefabs and scripts when they change on disk")
	duration := flag.Duration("duration", 0, "override sim.duration")
	seed := flag.Uint64("seed", 0, "override sim.seed")
	noPilot := flag.Bool("idle-player", false, "leave the player standing still")
	flag.Parse()

	if err := run(*cfgPath, *watch, *duration, *seed, !*noPilot); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = config.Resolve(config.DefaultPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && path == config.DefaultPath && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(cfgPath string, watch bool, duration time.Duration, seed uint64, pilot bool) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if duration > 0 {
		cfg.Sim.Duration = duration
	}
	if seed != 0 {
		cfg.Sim.Seed = seed
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	s, err := sim.NewScenario(cfg, log, sim.WithTransitionHook(func(t sim.Transition) {
		log.Info("transition",
			zap.Float64("t", t.Now),
			zap.Stringer("entity", t.Entity),
			zap.String("brain", t.Brain),
			zap.String("from", t.From),
			zap.String("to", t.To),
			zap.Stringer("target", t.Target))
	}))
	if err != nil {
		return fmt.Errorf("build scenario: %w", err)
	}

	var watcher *prefabs.Watcher
	if watch || cfg.Prefabs.Watch {
		watcher, err = prefabs.NewWatcher(cfg.Prefabs.Dir, filepath.Join(cfg.Prefabs.Dir, "scripts"))
		if err != nil {
			return fmt.Errorf("watch prefabs: %w", err)
		}
		defer watcher.Close()
		log.Info("watching prefabs", zap.String("dir", cfg.Prefabs.Dir))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var ap *autopilot
	if pilot {
		ap = newAutopilot(s)
	}

	log.Info("simulation starting",
		zap.Duration("tick", cfg.Sim.Tick),
		zap.Duration("duration", cfg.Sim.Duration),
		zap.Uint64("seed", cfg.Sim.Seed),
		zap.Int("walls", len(cfg.World.Walls)),
		zap.Int("arena_types", len(cfg.Arena.Types)))

	steps := s.Run(cfg.Sim.Duration, func() bool {
		if ap != nil {
			ap.step()
		}
		if watcher != nil {
			for _, c := range watcher.Drain() {
				log.Info("prefab changed", zap.String("path", c.Path), zap.Stringer("kind", c.Kind))
				s.Reload(c.Path)
			}
			select {
			case err := <-watcher.Errors:
				log.Warn("prefab watcher", zap.Error(err))
			default:
			}
		}
		return ctx.Err() == nil
	})

	hp, maxHP, _ := s.World.Health(s.Player)
	fields := []zap.Field{
		zap.Int("steps", steps),
		zap.Float64("t", s.World.Now()),
		zap.Bool("cleared", s.Cleared()),
		zap.String("phase", s.Spawner.Phase().String()),
		zap.Int("enemies_alive", len(s.World.Enemies())),
		zap.Float64("player_health", hp),
		zap.Float64("player_max_health", maxHP),
	}
	if ap != nil {
		fields = append(fields,
			zap.Int("strikes", ap.strikes),
			zap.Int("throws", ap.throws),
			zap.Int("blast_hits", ap.detonateHit))
	}
	log.Info("simulation finished", fields...)
	return nil
}
