package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
)

// TransitionKind names a state change reported to observers.
type TransitionKind string

const (
	TransitionSelect        TransitionKind = "select"
	TransitionNext          TransitionKind = "next"
	TransitionAutoAdvance   TransitionKind = "auto_advance"
	TransitionBack          TransitionKind = "back"
	TransitionSubmitStarted TransitionKind = "submit_started"
	TransitionSubmitted     TransitionKind = "submitted"
	TransitionReset         TransitionKind = "reset"
	TransitionClosed        TransitionKind = "closed"
)

// Transition describes one successful state change.
type Transition struct {
	Kind    TransitionKind
	From    Step
	To      Step
	Field   string // set for selections
	Value   string // catalog ID chosen, for selections
	At      time.Time
	Summary *booking.Summary // set when Kind is TransitionSubmitted
}

// Observer is notified after each transition, outside the engine lock.
type Observer interface {
	OnTransition(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

// OnTransition implements Observer.
func (f ObserverFunc) OnTransition(t Transition) {
	f(t)
}

// Submitter receives the completed booking once the wizard reaches the
// submitted step. The transition never waits on or rolls back for it.
type Submitter interface {
	Submit(ctx context.Context, s booking.Summary) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s booking.Summary) error

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, s booking.Summary) error {
	return f(ctx, s)
}

// MultiSubmitter hands a summary to each submitter in turn and joins errors.
type MultiSubmitter []Submitter

// Submit implements Submitter.
func (m MultiSubmitter) Submit(ctx context.Context, s booking.Summary) error {
	var errs []error
	for _, sub := range m {
		if sub == nil {
			continue
		}
		if err := sub.Submit(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
