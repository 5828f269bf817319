// Package status defines the fixed progression a complaint moves through
// and the comparison rules used by both the admin console and the citizen
// tracking view when rendering progress.
package status

// Status is one of the enumerated progression values of a complaint.
type Status string

const (
	Pending         Status = "Pending"
	Ongoing         Status = "Ongoing"
	ActionTakenSoon Status = "Action Taken Soon"
	Completed       Status = "Completed"
)

// Steps is the ordered progression. The order is fixed; a complaint's
// progress is its index in this slice.
var Steps = []Status{Pending, Ongoing, ActionTakenSoon, Completed}

// StepState classifies a single progression step relative to the
// complaint's current status, for rendering.
type StepState int

const (
	StepFuture StepState = iota
	StepCurrent
	StepComplete
)

// Index returns the position of s in the progression, or -1 if s is not a
// recognized value.
func Index(s Status) int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is one of the enumerated progression values.
func IsValid(s Status) bool {
	return Index(s) >= 0
}

// StateOf returns the render state of a progression step given the
// complaint's current status.
//
// Completed is terminal: every step renders complete regardless of index
// comparisons. An unrecognized current status must not break rendering,
// so every step degrades to StepFuture.
func StateOf(step, current Status) StepState {
	if current == Completed {
		return StepComplete
	}

	currentIdx := Index(current)
	if currentIdx < 0 {
		return StepFuture
	}

	stepIdx := Index(step)
	switch {
	case stepIdx < 0:
		return StepFuture
	case stepIdx < currentIdx:
		return StepComplete
	case stepIdx == currentIdx:
		return StepCurrent
	default:
		return StepFuture
	}
}
