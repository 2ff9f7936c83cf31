package journal

import (
	"context"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/nats"
	"github.com/mark3labs/inkbook/internal/wizard"
)

// publishTimeout bounds each publish made from an engine callback.
const publishTimeout = 2 * time.Second

// Recorder journals the transitions of one wizard session. It is a
// wizard.Observer and a wizard.Submitter.
type Recorder struct {
	store   *Store
	session string
}

// NewRecorder creates a recorder for the given session ID.
func NewRecorder(store *Store, session string) *Recorder {
	return &Recorder{store: store, session: session}
}

// Session returns the session ID events are recorded under.
func (r *Recorder) Session() string {
	return r.session
}

// OnTransition implements wizard.Observer. Publish failures are logged and
// never reach the wizard.
func (r *Recorder) OnTransition(t wizard.Transition) {
	if t.Kind == wizard.TransitionSubmitted {
		// The submission event is written by Submit with the full summary.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	_, err := r.store.PublishEvent(ctx, Event{
		Timestamp: t.At,
		Session:   r.session,
		Type:      nats.EventTypeWizard,
		Action:    string(t.Kind),
		From:      int(t.From),
		To:        int(t.To),
		Field:     t.Field,
		Value:     t.Value,
	})
	if err != nil {
		logger.Warn("Journal dropped %s transition: %v", t.Kind, err)
	}
}

// Submit implements wizard.Submitter.
func (r *Recorder) Submit(ctx context.Context, summary booking.Summary) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return r.store.PublishSubmission(ctx, r.session, summary)
}
