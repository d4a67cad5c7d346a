package component

import "github.com/milk9111/enemyai/nav"

// Navigation owns the grid agent that moves an entity.
type Navigation struct {
	Agent *nav.Agent
}

var NavigationComponent = NewComponent[Navigation]("navigation")
