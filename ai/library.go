package ai

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/enemyai/prefabs"
	"go.uber.org/zap"
)

// Library caches compiled brains by prefab file name so agents of one brain
// share template pointers.
type Library struct {
	log        *zap.Logger
	load       func(name string) (prefabs.BrainSpec, error)
	loadScript func(name string) ([]byte, error)
	brains     map[string]*Brain
}

type LibraryOption func(*Library)

// WithSource reads brain specs and their scripts through src instead of the
// default prefab directory.
func WithSource(src *prefabs.Source) LibraryOption {
	return func(l *Library) {
		if src != nil {
			l.load = src.BrainSpec
			l.loadScript = src.LoadScript
		}
	}
}

func NewLibrary(log *zap.Logger, opts ...LibraryOption) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Library{
		log:        log,
		load:       prefabs.LoadBrainSpec,
		loadScript: prefabs.LoadScript,
		brains:     make(map[string]*Brain),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Library) Get(name string) (*Brain, error) {
	key := brainKey(name)
	if b, ok := l.brains[key]; ok {
		return b, nil
	}
	spec, err := l.load(key)
	if err != nil {
		return nil, err
	}
	b := compileBrain(spec, l.log, l.loadScript)
	l.brains[key] = b
	l.log.Debug("ai: brain compiled",
		zap.String("brain", b.Name),
		zap.Int("states", len(b.States)),
		zap.Int("conditions", len(b.Conditions)))
	return b, nil
}

// Invalidate drops a cached brain. Agents already running keep their graphs;
// agents spawned afterwards see the reloaded file.
func (l *Library) Invalidate(name string) bool {
	key := brainKey(name)
	if _, ok := l.brains[key]; !ok {
		return false
	}
	delete(l.brains, key)
	l.log.Info("ai: brain invalidated", zap.String("brain", key))
	return true
}

// Reload handles a changed prefab or script path. Scripts may be shared by
// any brain, so a script change drops the whole cache.
func (l *Library) Reload(path string) {
	if prefabs.IsScriptFile(path) {
		for _, name := range l.Names() {
			l.Invalidate(name)
		}
		return
	}
	l.Invalidate(path)
}

// Names lists cached brains.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.brains))
	for k := range l.brains {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func brainKey(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	if !strings.HasSuffix(base, ".yaml") {
		base += ".yaml"
	}
	return base
}
