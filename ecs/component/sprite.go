package component

import "image/color"

// Appearance is how debug views draw an entity.
type Appearance struct {
	Color color.Color
	Label string
}

var AppearanceComponent = NewComponent[Appearance]("appearance")
