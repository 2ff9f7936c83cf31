package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Subject pattern constants and helpers
const (
	streamName = "inkbook_events"

	// Event types
	EventTypeWizard     = "wizard"
	EventTypeSubmission = "submission"
)

// StreamName returns the name of the inkbook event stream.
func StreamName() string {
	return streamName
}

// SubjectForSession returns the wildcard subject pattern for all events in a
// wizard session.
// Example: "inkbook.3f2a.>"
func SubjectForSession(session string) string {
	return fmt.Sprintf("inkbook.%s.>", session)
}

// SubjectForEvent returns the specific subject for an event type in a session.
// Example: "inkbook.3f2a.wizard"
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("inkbook.%s.%s", session, eventType)
}

// SubjectForType matches one event type across every session.
// Example: "inkbook.*.submission"
func SubjectForType(eventType string) string {
	return fmt.Sprintf("inkbook.*.%s", eventType)
}

// SetupStream creates or updates the JetStream stream for inkbook events.
// Bookings are never persisted: the stream lives in memory and is bounded by
// age and message count.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"inkbook.>"},
		Storage:  jetstream.MemoryStorage,
		MaxAge:   24 * time.Hour,
		MaxMsgs:  100_000,
	})
}

// CreateConsumer creates a durable consumer for reading event history.
// The consumer starts from the beginning and requires explicit acknowledgment.
func CreateConsumer(ctx context.Context, stream jetstream.Stream, name, filter string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       name,
		FilterSubject: filter,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
}
