package component

// ArenaMember marks an enemy spawned by an arena spawner for one of its types.
type ArenaMember struct {
	Type string
}

var ArenaMemberComponent = NewComponent[ArenaMember]("arena_member")
