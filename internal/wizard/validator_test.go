package wizard

import (
	"testing"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/stretchr/testify/assert"
)

func TestCanAdvance_RequiredFields(t *testing.T) {
	date := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		step  Step
		draft booking.Draft
		want  bool
	}{
		{"artist unset", StepArtist, booking.Draft{}, false},
		{"artist set", StepArtist, booking.Draft{ArtistID: "groc"}, true},
		{"vision empty", StepVision, booking.Draft{}, false},
		{"vision whitespace", StepVision, booking.Draft{Description: "   \n"}, false},
		{"vision set", StepVision, booking.Draft{Description: "a koi fish"}, true},
		{"placement unset", StepPlacement, booking.Draft{}, false},
		{"placement set", StepPlacement, booking.Draft{Placement: "arm"}, true},
		{"size unset", StepSize, booking.Draft{}, false},
		{"size set", StepSize, booking.Draft{Size: "small"}, true},
		{"schedule time only", StepSchedule, booking.Draft{Time: "10:00"}, false},
		{"schedule date only", StepSchedule, booking.Draft{SelectedDate: &date}, false},
		{"schedule both", StepSchedule, booking.Draft{SelectedDate: &date, Time: "10:00"}, true},
		{"budget unset", StepBudget, booking.Draft{}, false},
		{"budget set", StepBudget, booking.Draft{Budget: "200-500"}, true},
		{"contact missing phone", StepContact, booking.Draft{Name: "Jane", Email: "jane@example.com"}, false},
		{"contact blank name", StepContact, booking.Draft{Name: " ", Email: "jane@example.com", Phone: "555"}, false},
		{"contact complete", StepContact, booking.Draft{Name: "Jane", Email: "jane@example.com", Phone: "555"}, true},
		{"review always", StepReview, booking.Draft{}, true},
		{"submitted never", StepSubmitted, booking.Draft{}, false},
		{"out of range", Step(0), booking.Draft{ArtistID: "groc"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAdvance(tt.step, tt.draft))
		})
	}
}

func TestCanAdvance_IsPure(t *testing.T) {
	d := booking.Draft{ArtistID: "groc"}
	before := d.Clone()

	for i := 0; i < 3; i++ {
		assert.True(t, CanAdvance(StepArtist, d))
	}
	assert.Equal(t, before, d)
}

func TestMissingFields(t *testing.T) {
	assert.Equal(t, []string{"date", "time"}, MissingFields(StepSchedule, booking.Draft{}))
	assert.Equal(t, []string{"date"}, MissingFields(StepSchedule, booking.Draft{Time: "10:00"}))
	assert.Equal(t, []string{"email", "phone"}, MissingFields(StepContact, booking.Draft{Name: "Jane"}))
	assert.Empty(t, MissingFields(StepReview, booking.Draft{}))
}

func TestStepHelpers(t *testing.T) {
	assert.Equal(t, 9, StepCount)
	assert.True(t, StepReview.Valid())
	assert.False(t, Step(10).Valid())
	assert.Equal(t, "schedule", StepSchedule.String())
	assert.Equal(t, StepSchedule, StepForField(booking.FieldTime))
	assert.Equal(t, StepContact, StepForField(booking.FieldNotes))
	assert.True(t, IsSelectable(booking.FieldBudget))
	assert.False(t, IsSelectable(booking.FieldEmail))

	steps := DefaultSteps()
	assert.Len(t, steps, StepCount)
	for _, s := range steps {
		switch s.Step {
		case StepVision, StepContact, StepReview, StepSubmitted:
			assert.False(t, s.AutoAdvance, s.Step.String())
		default:
			assert.True(t, s.AutoAdvance, s.Step.String())
		}
	}
}
