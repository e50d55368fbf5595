package core

// ProgressTracker reports step-by-step progress of a validation run.
// Implementations live in the tui package (bubbletea, plain text, no-op).
type ProgressTracker interface {
	// Increment advances progress by one step with a status message.
	Increment(message string)
	// SetTotal sets the total number of steps.
	SetTotal(total int)
	// Complete marks the operation as finished.
	Complete()
	// Fail marks the operation as failed.
	Fail(err error)
}
