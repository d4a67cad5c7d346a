package ai

import "strconv"

// EntityRef is an opaque handle to a world entity. Zero means no entity.
type EntityRef uint64

func (r EntityRef) Valid() bool {
	return r != 0
}

func (r EntityRef) String() string {
	return strconv.FormatUint(uint64(r), 10)
}

// TransitionResult is the outcome of evaluating a condition. Target is only
// meaningful when ShouldTransition is set.
type TransitionResult struct {
	ShouldTransition bool
	Target           EntityRef
}

func Trigger(target EntityRef) TransitionResult {
	return TransitionResult{ShouldTransition: true, Target: target}
}

func NoTrigger() TransitionResult {
	return TransitionResult{}
}

// TargetOrNone returns the carried target, or zero when the result did not fire.
func (r TransitionResult) TargetOrNone() EntityRef {
	if !r.ShouldTransition {
		return 0
	}
	return r.Target
}

// Frame is the read-only simulation context passed to every tick.
type Frame struct {
	Now    float64
	Dt     float64
	Aiming bool
}
