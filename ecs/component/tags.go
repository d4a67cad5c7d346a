package component

// Tag is the label matched by tag-filtered spatial queries.
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]("tag")

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player")

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]("enemy")
