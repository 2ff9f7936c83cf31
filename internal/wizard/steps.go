// Package wizard implements the booking step wizard: the step pointer and
// draft (State), the per-step completion predicate (CanAdvance) and the
// transition engine that moves between steps.
package wizard

import (
	"fmt"

	"github.com/mark3labs/inkbook/internal/booking"
)

// Step is a 1-based wizard step index.
type Step int

// Steps in wizard order. StepSubmitted is the terminal read-only step.
const (
	StepArtist Step = iota + 1
	StepVision
	StepPlacement
	StepSize
	StepSchedule
	StepBudget
	StepContact
	StepReview
	StepSubmitted
)

// StepCount is the number of steps including the terminal one.
const StepCount = int(StepSubmitted)

// String returns a short machine name for the step.
func (s Step) String() string {
	switch s {
	case StepArtist:
		return "artist"
	case StepVision:
		return "vision"
	case StepPlacement:
		return "placement"
	case StepSize:
		return "size"
	case StepSchedule:
		return "schedule"
	case StepBudget:
		return "budget"
	case StepContact:
		return "contact"
	case StepReview:
		return "review"
	case StepSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("step-%d", int(s))
}

// Valid reports whether s is within [1, StepCount].
func (s Step) Valid() bool {
	return s >= StepArtist && s <= StepSubmitted
}

// StepConfig describes how a step behaves in the host.
type StepConfig struct {
	Step        Step
	Title       string
	AutoAdvance bool // pick-one steps advance by themselves after a selection
}

// DefaultSteps returns the standard booking flow. Card-picking steps
// auto-advance; the vision, contact and review forms wait for an explicit Next.
func DefaultSteps() []StepConfig {
	return []StepConfig{
		{Step: StepArtist, Title: "Choose your artist", AutoAdvance: true},
		{Step: StepVision, Title: "Describe your vision"},
		{Step: StepPlacement, Title: "Placement", AutoAdvance: true},
		{Step: StepSize, Title: "Size", AutoAdvance: true},
		{Step: StepSchedule, Title: "Date & time", AutoAdvance: true},
		{Step: StepBudget, Title: "Budget", AutoAdvance: true},
		{Step: StepContact, Title: "Contact details"},
		{Step: StepReview, Title: "Review & submit"},
		{Step: StepSubmitted, Title: "Request sent"},
	}
}

// StepForField returns the step on which a field is collected.
func StepForField(f booking.Field) Step {
	switch f {
	case booking.FieldArtist:
		return StepArtist
	case booking.FieldDescription:
		return StepVision
	case booking.FieldPlacement:
		return StepPlacement
	case booking.FieldSize:
		return StepSize
	case booking.FieldTime:
		return StepSchedule
	case booking.FieldBudget:
		return StepBudget
	default:
		return StepContact
	}
}

// IsSelectable reports whether a field is chosen from a catalog rather than typed.
func IsSelectable(f booking.Field) bool {
	switch f {
	case booking.FieldArtist, booking.FieldPlacement, booking.FieldSize, booking.FieldTime, booking.FieldBudget:
		return true
	}
	return false
}
