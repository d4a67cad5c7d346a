package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/enemyai/config"
	"github.com/milk9111/enemyai/prefabs"
	"github.com/milk9111/enemyai/sim"
)

func main() {
	cfgPath := flag.String("config", "", "TOML config path (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	watch := flag.Bool("watch", false, "reload prefabs and scripts when they change on disk")
	seed := flag.Uint64("seed", 0, "override sim.seed")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	game := NewGame(logger)
	s, err := sim.NewScenario(cfg, logger, sim.WithTransitionHook(game.recordTransition))
	if err != nil {
		logger.Fatal("build scenario", zap.Error(err))
	}
	game.attach(s)

	if *watch || cfg.Prefabs.Watch {
		watcher, err := prefabs.NewWatcher(cfg.Prefabs.Dir, filepath.Join(cfg.Prefabs.Dir, "scripts"))
		if err != nil {
			logger.Fatal("watch prefabs", zap.Error(err))
		}
		defer watcher.Close()
		game.watcher = watcher
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("enemy ai")
	if tick := s.Tick(); tick > 0 {
		ebiten.SetTPS(int(1/tick + 0.5))
	}

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("run", zap.Error(err))
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
		return nil, err
	}
	return cfg, nil
}
