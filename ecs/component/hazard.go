package component

// Explosive describes the blast an armed enemy releases when detonated.
type Explosive struct {
	Radius float64
	Damage float64
}

var ExplosiveComponent = NewComponent[Explosive]("explosive")
