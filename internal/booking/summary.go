package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// DateLayout is the format used for dates in summaries, events and hooks.
const DateLayout = "2006-01-02"

// Summary is the read-only view of a submitted booking.
type Summary struct {
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submitted_at"`

	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	Description string `json:"description"`
	Placement   string `json:"placement"`
	Size        string `json:"size"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Budget      string `json:"budget"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes,omitempty"`

	ReferenceFile string `json:"reference_file,omitempty"`
	ReferenceSize int    `json:"reference_size,omitempty"`
}

// Labeler resolves catalog IDs into display labels. catalog.Catalog satisfies it.
type Labeler interface {
	Label(field Field, id string) string
}

// NewSummary builds the summary for a draft. Labels come from the catalog
// when one is supplied; raw IDs are used otherwise.
func NewSummary(d Draft, labels Labeler, now time.Time) Summary {
	s := DraftSummary(d, labels)
	s.Reference = NewReference(d.Name)
	s.SubmittedAt = now
	return s
}

// DraftSummary resolves the draft's answers into display form without
// minting a reference. The review step renders from it.
func DraftSummary(d Draft, labels Labeler) Summary {
	label := func(f Field, id string) string {
		if labels == nil || id == "" {
			return id
		}
		return labels.Label(f, id)
	}

	s := Summary{
		ArtistID:    d.ArtistID,
		ArtistName:  label(FieldArtist, d.ArtistID),
		Description: strings.TrimSpace(d.Description),
		Placement:   label(FieldPlacement, d.Placement),
		Size:        label(FieldSize, d.Size),
		Time:        d.Time,
		Budget:      label(FieldBudget, d.Budget),
		Name:        strings.TrimSpace(d.Name),
		Email:       strings.TrimSpace(d.Email),
		Phone:       strings.TrimSpace(d.Phone),
		Notes:       strings.TrimSpace(d.Notes),
	}
	if d.SelectedDate != nil {
		s.Date = d.SelectedDate.Format(DateLayout)
	}
	if d.Reference != nil {
		s.ReferenceFile = d.Reference.Filename
		s.ReferenceSize = d.Reference.Size()
	}
	return s
}

// NewReference returns a human-friendly booking reference such as
// "jane-doe-1f3a9c2b".
func NewReference(name string) string {
	prefix := slug.Make(name)
	if prefix == "" {
		prefix = "booking"
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + id[:8]
}
