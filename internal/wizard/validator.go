package wizard

import (
	"strings"

	"github.com/mark3labs/inkbook/internal/booking"
)

// CanAdvance reports whether the wizard may move past step given the draft.
// It is a pure function of its arguments.
func CanAdvance(step Step, d booking.Draft) bool {
	switch step {
	case StepArtist:
		return d.ArtistID != ""
	case StepVision:
		return notBlank(d.Description)
	case StepPlacement:
		return d.Placement != ""
	case StepSize:
		return d.Size != ""
	case StepSchedule:
		// Both halves are required: a time without a date does not count.
		return d.SelectedDate != nil && d.Time != ""
	case StepBudget:
		return d.Budget != ""
	case StepContact:
		return notBlank(d.Name) && notBlank(d.Email) && notBlank(d.Phone)
	case StepReview:
		return true
	}
	return false
}

// MissingFields lists the fields still blocking a step, for host hints.
func MissingFields(step Step, d booking.Draft) []string {
	var missing []string
	add := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}

	switch step {
	case StepArtist:
		add(d.ArtistID != "", booking.FieldArtist.String())
	case StepVision:
		add(notBlank(d.Description), booking.FieldDescription.String())
	case StepPlacement:
		add(d.Placement != "", booking.FieldPlacement.String())
	case StepSize:
		add(d.Size != "", booking.FieldSize.String())
	case StepSchedule:
		add(d.SelectedDate != nil, "date")
		add(d.Time != "", booking.FieldTime.String())
	case StepBudget:
		add(d.Budget != "", booking.FieldBudget.String())
	case StepContact:
		add(notBlank(d.Name), booking.FieldName.String())
		add(notBlank(d.Email), booking.FieldEmail.String())
		add(notBlank(d.Phone), booking.FieldPhone.String())
	}
	return missing
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
