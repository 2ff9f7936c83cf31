// Package journal records wizard activity on the in-process JetStream bus.
// Events are held in a memory stream only; nothing survives the process.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/nats"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/nats-io/nats.go/jetstream"
)

// Event is one entry in the journal. Wizard events carry only step numbers
// and catalog IDs; the submission event carries the booking summary.
type Event struct {
	ID        string    `json:"id"`        // NATS stream sequence
	Timestamp time.Time `json:"timestamp"` // When the transition happened
	Session   string    `json:"session"`   // Wizard session ID
	Type      string    `json:"type"`      // wizard or submission
	Action    string    `json:"action"`    // Transition kind for wizard events
	From      int       `json:"from,omitempty"`
	To        int       `json:"to,omitempty"`
	Field     string    `json:"field,omitempty"`
	Value     string    `json:"value,omitempty"`
	Data      string    `json:"data,omitempty"` // Summary JSON for submissions
}

// NewSession returns an ID for a wizard session that is safe to use as a
// subject token.
func NewSession() string {
	return uuid.NewString()
}

// Store publishes and replays journal events.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store over an already configured stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
	}
}

// PublishEvent appends an event to the journal.
// Subjects follow the pattern inkbook.{session}.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Session, event.Type)
	logger.Debug("Publishing event: session=%s type=%s action=%s", event.Session, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// PublishSubmission records a submitted booking for the session.
func (s *Store) PublishSubmission(ctx context.Context, session string, summary booking.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	_, err = s.PublishEvent(ctx, Event{
		Timestamp: summary.SubmittedAt,
		Session:   session,
		Type:      nats.EventTypeSubmission,
		Action:    "submitted",
		Value:     summary.Reference,
		Data:      string(data),
	})
	return err
}

// Journey is the reduced view of one wizard session.
type Journey struct {
	Session      string            `json:"session"`
	Events       int               `json:"events"`
	CurrentStep  int               `json:"current_step"`
	FurthestStep int               `json:"furthest_step"`
	Selections   map[string]string `json:"selections"` // field -> last selected ID
	Resets       int               `json:"resets"`
	Closed       bool              `json:"closed"`
	Submitted    bool              `json:"submitted"`
	Summary      *booking.Summary  `json:"summary,omitempty"`
}

func newJourney(session string) *Journey {
	return &Journey{
		Session:      session,
		CurrentStep:  1,
		FurthestStep: 1,
		Selections:   make(map[string]string),
	}
}

// Apply folds one event into the journey.
func (j *Journey) Apply(event Event) {
	j.Events++
	switch event.Type {
	case nats.EventTypeWizard:
		j.applyWizardEvent(event)
	case nats.EventTypeSubmission:
		var summary booking.Summary
		if err := json.Unmarshal([]byte(event.Data), &summary); err != nil {
			logger.Warn("Skipping malformed submission payload (id=%s): %v", event.ID, err)
			return
		}
		j.Submitted = true
		j.Summary = &summary
		j.CurrentStep = int(wizard.StepSubmitted)
		j.FurthestStep = j.CurrentStep
	}
}

func (j *Journey) applyWizardEvent(event Event) {
	switch event.Action {
	case "select":
		j.Selections[event.Field] = event.Value
	case "reset", "closed":
		j.Resets++
		j.Closed = event.Action == "closed"
		j.Selections = make(map[string]string)
		j.Submitted = false
		j.Summary = nil
	}
	if event.To > 0 {
		j.CurrentStep = event.To
	}
	if j.CurrentStep > j.FurthestStep {
		j.FurthestStep = j.CurrentStep
	}
}

// LoadJourney replays every event of a session and reduces them.
func (s *Store) LoadJourney(ctx context.Context, session string) (*Journey, error) {
	consumer, err := s.stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{nats.SubjectForSession(session)},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	journey := newJourney(session)
	err = replay(consumer, func(event Event) {
		journey.Apply(event)
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Journey %s loaded: %d events, step %d", session, journey.Events, journey.CurrentStep)
	return journey, nil
}

// Submissions returns every booking submitted since the bus started, oldest first.
func (s *Store) Submissions(ctx context.Context) ([]booking.Summary, error) {
	consumer, err := s.stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{nats.SubjectForType(nats.EventTypeSubmission)},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	var out []booking.Summary
	err = replay(consumer, func(event Event) {
		var summary booking.Summary
		if err := json.Unmarshal([]byte(event.Data), &summary); err != nil {
			logger.Warn("Skipping malformed submission payload (id=%s): %v", event.ID, err)
			return
		}
		out = append(out, summary)
	})
	return out, err
}

// WatchSubmissions calls fn for each submission, including ones already in
// the stream, until the returned context is stopped.
func (s *Store) WatchSubmissions(ctx context.Context, name string, fn func(booking.Summary)) (jetstream.ConsumeContext, error) {
	consumer, err := nats.CreateConsumer(ctx, s.stream, name, nats.SubjectForType(nats.EventTypeSubmission))
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s: %w", name, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var event Event
		var summary booking.Summary
		decodeErr := json.Unmarshal(msg.Data(), &event)
		if decodeErr == nil {
			decodeErr = json.Unmarshal([]byte(event.Data), &summary)
		}
		if decodeErr != nil {
			logger.Warn("Skipping malformed submission on %s: %v", msg.Subject(), decodeErr)
		} else {
			fn(summary)
		}
		if err := msg.Ack(); err != nil {
			logger.Warn("Failed to ack submission: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consume submissions: %w", err)
	}
	return cc, nil
}

// replay drains a consumer in batches until it runs dry.
func replay(consumer jetstream.Consumer, apply func(Event)) error {
	const batchSize = 1000
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				continue
			}
			if event.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					event.ID = strconv.FormatUint(meta.Sequence.Stream, 10)
				}
			}
			apply(event)
		}
		if err := msgs.Error(); err != nil {
			// An exhausted stream ends the batch early; treat it as the end.
			logger.Debug("Finished reading events: %v", err)
			break
		}
		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events", malformed)
	}
	return nil
}
