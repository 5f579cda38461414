package softbody

// Stage represents a scheduling stage for per-frame systems.
// Systems are executed in stage order: Before → Default → After.
type Stage int

const (
	// Before stage runs first. Visual to physics transform sync and input
	// driven edits of anchors belong here.
	Before Stage = iota

	// Default stage runs second. The external integrator and the constraint
	// solver are registered here.
	Default

	// After stage runs last. Physics to visual sync and follow resolution
	// read the solved positions here.
	After

	// stageCount is the total number of stages.
	stageCount
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case Before:
		return "Before"
	case Default:
		return "Default"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}
