package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityNavigation = 10 // Cancellations and motion synthesis
	PriorityCharacter  = 20 // Consumes the synthesized motion
)
