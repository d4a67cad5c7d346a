package component

// Collider is the entity's circle in the physics space.
type Collider struct {
	Radius float64
}

var ColliderComponent = NewComponent[Collider]("collider")
