package component

// AIInterrupt records outside control of an enemy. Either flag holds the
// brain's transition lock and keeps navigation disabled.
type AIInterrupt struct {
	Captured bool
	Armed    bool
}

var AIInterruptComponent = NewComponent[AIInterrupt]("ai_interrupt")
