package booking

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SetAndGet(t *testing.T) {
	fields := []Field{
		FieldArtist, FieldDescription, FieldPlacement, FieldSize, FieldTime,
		FieldBudget, FieldName, FieldEmail, FieldPhone, FieldNotes,
	}

	var d Draft
	for _, f := range fields {
		t.Run(f.String(), func(t *testing.T) {
			d.Set(f, "value-"+f.String())
			assert.Equal(t, "value-"+f.String(), d.Get(f))
		})
	}
}

func TestParseField(t *testing.T) {
	f, ok := ParseField(" Placement ")
	require.True(t, ok)
	assert.Equal(t, FieldPlacement, f)

	_, ok = ParseField("colour")
	assert.False(t, ok)
}

func TestDraft_SetDateTruncates(t *testing.T) {
	var d Draft
	d.SetDate(time.Date(2026, 11, 3, 15, 42, 7, 0, time.UTC))

	require.True(t, d.HasDate())
	assert.Equal(t, time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC), *d.SelectedDate)

	d.ClearDate()
	assert.False(t, d.HasDate())
}

func TestDraft_CloneIsDeep(t *testing.T) {
	var d Draft
	d.SetDate(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC))
	d.Reference = &Attachment{Filename: "ref.png", Data: []byte{1, 2, 3}}

	c := d.Clone()
	c.SelectedDate = nil
	d.Reference.Data[0] = 9

	assert.True(t, d.HasDate())
	assert.Equal(t, byte(1), c.Reference.Data[0])
}

func TestDraft_IsEmpty(t *testing.T) {
	var d Draft
	assert.True(t, d.IsEmpty())

	d.Notes = "walk-in"
	assert.False(t, d.IsEmpty())
}

func TestDraft_ContactWarnings(t *testing.T) {
	tests := []struct {
		name  string
		email string
		phone string
		want  int
	}{
		{"empty fields are not flagged", "", "", 0},
		{"valid contact", "jane@example.com", "+1 555 123 4567", 0},
		{"malformed email", "jane-at-example", "+1 555 123 4567", 1},
		{"short phone", "jane@example.com", "12", 1},
		{"both", "nope", "1", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Draft{Email: tt.email, Phone: tt.phone}
			assert.Len(t, d.ContactWarnings(), tt.want)
		})
	}
}

type fakeLabels map[string]string

func (f fakeLabels) Label(_ Field, id string) string {
	if l, ok := f[id]; ok {
		return l
	}
	return id
}

func TestNewSummary(t *testing.T) {
	d := Draft{
		ArtistID:    "groc",
		Description: "  fine-line swallow  ",
		Placement:   "arm",
		Size:        "small",
		Time:        "10:00",
		Budget:      "200-500",
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "555 123 4567",
		Reference:   &Attachment{Filename: "swallow.png", Data: make([]byte, 42)},
	}
	d.SetDate(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC))
	now := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)

	s := NewSummary(d, fakeLabels{"groc": "Groc", "arm": "Arm"}, now)

	assert.Equal(t, "Groc", s.ArtistName)
	assert.Equal(t, "groc", s.ArtistID)
	assert.Equal(t, "Arm", s.Placement)
	assert.Equal(t, "small", s.Size)
	assert.Equal(t, "fine-line swallow", s.Description)
	assert.Equal(t, "2026-11-03", s.Date)
	assert.Equal(t, "swallow.png", s.ReferenceFile)
	assert.Equal(t, 42, s.ReferenceSize)
	assert.Equal(t, now, s.SubmittedAt)
	assert.Regexp(t, regexp.MustCompile(`^jane-doe-[0-9a-f]{8}$`), s.Reference)
}

func TestDraftSummary_HasNoReference(t *testing.T) {
	d := Draft{ArtistID: "groc", Name: "Jane Doe"}

	s := DraftSummary(d, fakeLabels{"groc": "Groc"})
	assert.Equal(t, "Groc", s.ArtistName)
	assert.Equal(t, "Jane Doe", s.Name)
	assert.Empty(t, s.Reference)
	assert.True(t, s.SubmittedAt.IsZero())
}

func TestNewReference_EmptyName(t *testing.T) {
	ref := NewReference("   ")
	assert.Regexp(t, regexp.MustCompile(`^booking-[0-9a-f]{8}$`), ref)
	assert.NotEqual(t, ref, NewReference("   "))
}
