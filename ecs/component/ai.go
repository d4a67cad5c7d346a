package component

import "github.com/milk9111/enemyai/ai"

// Brain runs a compiled brain prefab for one enemy.
type Brain struct {
	Name    string
	Machine *ai.Machine
}

var BrainComponent = NewComponent[Brain]("brain")
