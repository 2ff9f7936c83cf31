package wizard

import (
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
)

// State owns the current step pointer and the booking draft.
// All operations are total; State does no validation of its own.
type State struct {
	step  Step
	draft booking.Draft

	// PendingAutoAdvance is set while a selection's deferred Next is scheduled.
	PendingAutoAdvance bool

	timer  Timer // deferred auto-advance, stopped on reset
	frozen bool  // set once the booking is submitted
}

// NewState returns a state on step 1 with an empty draft.
func NewState() *State {
	return &State{step: StepArtist}
}

// CurrentStep returns the current step index.
func (s *State) CurrentStep() Step {
	return s.step
}

// Draft returns a copy of the current draft.
func (s *State) Draft() booking.Draft {
	return s.draft.Clone()
}

// Frozen reports whether the draft has become read-only.
func (s *State) Frozen() bool {
	return s.frozen
}

// SetField sets one string field. Writes after submission are ignored.
func (s *State) SetField(field booking.Field, value string) {
	if s.frozen {
		return
	}
	s.draft.Set(field, value)
}

// SetDate sets the selected day. Writes after submission are ignored.
func (s *State) SetDate(date time.Time) {
	if s.frozen {
		return
	}
	s.draft.SetDate(date)
}

// ClearDate removes the selected day.
func (s *State) ClearDate() {
	if s.frozen {
		return
	}
	s.draft.ClearDate()
}

// SetReference replaces the reference attachment (nil removes it).
func (s *State) SetReference(a *booking.Attachment) {
	if s.frozen {
		return
	}
	s.draft.Reference = a
}

// Reset clears the draft, returns to step 1 and cancels any deferred advance.
func (s *State) Reset() {
	if s.timer != nil {
		s.timer.Stop()
	}
	*s = State{step: StepArtist}
}

func (s *State) freeze() {
	s.frozen = true
}
