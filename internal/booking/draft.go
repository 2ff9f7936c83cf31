// Package booking holds the answer set collected by the booking wizard and the
// read-only summary produced once a booking is submitted.
package booking

import (
	"net/mail"
	"strings"
	"time"
)

// Field identifies one string-valued answer on a Draft.
// The selected date is not a Field; it is set through Draft.SetDate.
type Field int

const (
	FieldArtist Field = iota
	FieldDescription
	FieldPlacement
	FieldSize
	FieldTime
	FieldBudget
	FieldName
	FieldEmail
	FieldPhone
	FieldNotes
)

var fieldNames = map[Field]string{
	FieldArtist:      "artist",
	FieldDescription: "description",
	FieldPlacement:   "placement",
	FieldSize:        "size",
	FieldTime:        "time",
	FieldBudget:      "budget",
	FieldName:        "name",
	FieldEmail:       "email",
	FieldPhone:       "phone",
	FieldNotes:       "notes",
}

// String returns the wire name of the field (used by MCP tools and events).
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseField maps a wire name back to a Field.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range fieldNames {
		if name == s {
			return f, true
		}
	}
	return 0, false
}

// Attachment is an optional reference image held in memory only.
type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Size returns the attachment payload size in bytes.
func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// Draft is the answer set being built across the wizard steps.
type Draft struct {
	ArtistID     string
	Description  string
	Placement    string
	Size         string
	SelectedDate *time.Time
	Time         string
	Budget       string
	Name         string
	Email        string
	Phone        string
	Notes        string
	Reference    *Attachment
}

// Set assigns a string field. It performs no validation.
func (d *Draft) Set(field Field, value string) {
	switch field {
	case FieldArtist:
		d.ArtistID = value
	case FieldDescription:
		d.Description = value
	case FieldPlacement:
		d.Placement = value
	case FieldSize:
		d.Size = value
	case FieldTime:
		d.Time = value
	case FieldBudget:
		d.Budget = value
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldNotes:
		d.Notes = value
	}
}

// Get returns the current value of a string field.
func (d Draft) Get(field Field) string {
	switch field {
	case FieldArtist:
		return d.ArtistID
	case FieldDescription:
		return d.Description
	case FieldPlacement:
		return d.Placement
	case FieldSize:
		return d.Size
	case FieldTime:
		return d.Time
	case FieldBudget:
		return d.Budget
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldNotes:
		return d.Notes
	}
	return ""
}

// SetDate stores the selected day, truncated to midnight in its location.
func (d *Draft) SetDate(date time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	d.SelectedDate = &day
}

// ClearDate removes the selected date.
func (d *Draft) ClearDate() {
	d.SelectedDate = nil
}

// HasDate reports whether a date has been chosen.
func (d Draft) HasDate() bool {
	return d.SelectedDate != nil
}

// Clone returns a deep copy so callers can read a draft without sharing
// the engine's pointers.
func (d Draft) Clone() Draft {
	out := d
	if d.SelectedDate != nil {
		day := *d.SelectedDate
		out.SelectedDate = &day
	}
	if d.Reference != nil {
		ref := *d.Reference
		ref.Data = append([]byte(nil), d.Reference.Data...)
		out.Reference = &ref
	}
	return out
}

// IsEmpty reports whether nothing has been entered yet.
func (d Draft) IsEmpty() bool {
	for f := range fieldNames {
		if d.Get(f) != "" {
			return false
		}
	}
	return d.SelectedDate == nil && d.Reference == nil
}

// ContactWarnings returns non-blocking remarks about the contact fields.
// Advancement only requires the fields to be non-empty; these are shown on
// the review step.
func (d Draft) ContactWarnings() []string {
	var warnings []string
	if email := strings.TrimSpace(d.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			warnings = append(warnings, "email address looks malformed")
		}
	}
	if phone := strings.TrimSpace(d.Phone); phone != "" && countDigits(phone) < 7 {
		warnings = append(warnings, "phone number looks too short")
	}
	return warnings
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
