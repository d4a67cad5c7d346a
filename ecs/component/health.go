package component

type Health struct {
	Max            float64
	Current        float64
	Dead           bool
	DestroyOnDeath bool
}

var HealthComponent = NewComponent[Health]("health")
