package component

import "github.com/milk9111/enemyai/common"

// Transform is the published pose of an entity, refreshed every step from
// its navigation agent.
type Transform struct {
	Position common.Vec3
	Forward  common.Vec3
}

var TransformComponent = NewComponent[Transform]("transform")
