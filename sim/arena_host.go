package sim

import (
	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/arena"
	"github.com/milk9111/enemyai/common"
	"github.com/milk9111/enemyai/ecs"
	"github.com/milk9111/enemyai/ecs/component"
)

// ArenaHost lets an arena.Spawner place enemies into a World, building their
// brains from a Library.
type ArenaHost struct {
	World   *World
	Library *ai.Library
}

var _ arena.Host = (*ArenaHost)(nil)

func (h *ArenaHost) SampleWalkable(point common.Vec3, maxDistance float64) (common.Vec3, bool) {
	return h.World.SampleWalkable(point, maxDistance)
}

func (h *ArenaHost) PlayerPosition() (common.Vec3, bool) {
	ref, ok := h.World.Player()
	if !ok {
		return common.Vec3{}, false
	}
	return h.World.Position(ref)
}

func (h *ArenaHost) Spawn(req arena.SpawnRequest) (ai.EntityRef, error) {
	brain, err := h.Library.Get(req.Prefab)
	if err != nil {
		return 0, err
	}
	var onDestroyed func(ai.EntityRef)
	if req.OnDestroyed != nil {
		onDestroyed = func(ai.EntityRef) { req.OnDestroyed() }
	}
	ref, err := h.World.SpawnEnemy(brain, req.Position, req.Yaw, onDestroyed)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(h.World.ecs, ecs.Entity(ref), component.ArenaMemberComponent.Kind(), &component.ArenaMember{Type: req.Type}); err != nil {
		h.World.log.Warn("sim: tag arena member", zap.Stringer("entity", ref), zap.Error(err))
	}
	return ref, nil
}

// ArenaType returns the spawner type of an arena enemy.
func (w *World) ArenaType(ref ai.EntityRef) (string, bool) {
	m, ok := ecs.Get(w.ecs, ecs.Entity(ref), component.ArenaMemberComponent.Kind())
	if !ok {
		return "", false
	}
	return m.Type, true
}
