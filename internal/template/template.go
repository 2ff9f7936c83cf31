package template

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
)

// Variables holds the data to be injected into template placeholders.
type Variables struct {
	Studio      string // Studio name
	Reference   string // Booking reference (empty before submission)
	Artist      string // Artist display name
	Description string // Tattoo description
	Placement   string // Placement label
	Size        string // Size label
	Date        string // Appointment day, human readable
	Time        string // Slot start time
	Budget      string // Budget tier label
	Name        string // Customer name
	Email       string // Customer email
	Phone       string // Customer phone
	Notes       string // Formatted notes section (empty if none)
	Attachment  string // Formatted reference image line (empty if none)
	Warnings    string // Formatted contact warnings (empty if none)
	Hooks       string // Piped on_submit hook output (empty if none)
}

// Render replaces {{variable}} placeholders in template with actual values.
// Supports the following variables:
// - {{studio}}, {{reference}}
// - {{artist}}, {{description}}, {{placement}}, {{size}}
// - {{date}}, {{time}}, {{budget}}
// - {{name}}, {{email}}, {{phone}}
// - {{notes}}, {{attachment}}, {{warnings}}, {{hooks}} - optional sections
func Render(template string, vars Variables) string {
	// One pass: customer text that contains a placeholder stays literal.
	r := strings.NewReplacer(
		"{{studio}}", vars.Studio,
		"{{reference}}", vars.Reference,
		"{{artist}}", vars.Artist,
		"{{description}}", vars.Description,
		"{{placement}}", vars.Placement,
		"{{size}}", vars.Size,
		"{{date}}", vars.Date,
		"{{time}}", vars.Time,
		"{{budget}}", vars.Budget,
		"{{name}}", vars.Name,
		"{{email}}", vars.Email,
		"{{phone}}", vars.Phone,
		"{{notes}}", vars.Notes,
		"{{attachment}}", vars.Attachment,
		"{{warnings}}", vars.Warnings,
		"{{hooks}}", vars.Hooks,
	)
	return r.Replace(template)
}

// LoadFromFile loads a template from a file.
// If the file doesn't exist or can't be read, returns an error.
func LoadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return string(data), nil
}

// GetTemplate returns the confirmation template content.
// If customPath is non-empty, loads from that file.
// Otherwise returns the default embedded template.
func GetTemplate(customPath string) (string, error) {
	if customPath == "" {
		return DefaultTemplate, nil
	}
	logger.Debug("Using custom confirmation template: %s", customPath)
	return LoadFromFile(customPath)
}

// FromSummary formats a submitted booking for template injection.
func FromSummary(studio string, s booking.Summary) Variables {
	return Variables{
		Studio:      studio,
		Reference:   s.Reference,
		Artist:      s.ArtistName,
		Description: s.Description,
		Placement:   s.Placement,
		Size:        s.Size,
		Date:        formatDate(s.Date),
		Time:        s.Time,
		Budget:      s.Budget,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Notes:       formatNotes(s.Notes),
		Attachment:  formatAttachment(s.ReferenceFile, s.ReferenceSize),
	}
}

// FromDraft formats an in-progress draft, used by the review step. Labels
// resolve catalog IDs; unanswered fields render as a dash.
func FromDraft(studio string, d booking.Draft, labels booking.Labeler) Variables {
	vars := FromSummary(studio, booking.DraftSummary(d, labels))
	vars.Warnings = formatWarnings(d.ContactWarnings())

	for _, field := range []*string{
		&vars.Artist, &vars.Description, &vars.Placement, &vars.Size, &vars.Date,
		&vars.Time, &vars.Budget, &vars.Name, &vars.Email, &vars.Phone,
	} {
		if *field == "" {
			*field = "—"
		}
	}
	return vars
}

// RenderConfirmation renders the confirmation for a submitted booking with
// the template at customPath, or the default one.
func RenderConfirmation(customPath, studio string, s booking.Summary, hookOutput string) (string, error) {
	tmpl, err := GetTemplate(customPath)
	if err != nil {
		return "", err
	}
	vars := FromSummary(studio, s)
	vars.Hooks = formatHooks(hookOutput)
	return Render(tmpl, vars), nil
}

// RenderReview renders the review markdown for a draft.
func RenderReview(studio string, d booking.Draft, labels booking.Labeler) string {
	return Render(ReviewTemplate, FromDraft(studio, d, labels))
}

// formatDate turns 2006-01-02 into "Monday, 2 January 2006".
func formatDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(booking.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, 2 January 2006")
}

// formatNotes returns an empty string when there are no notes so the section
// disappears from the output.
func formatNotes(notes string) string {
	if strings.TrimSpace(notes) == "" {
		return ""
	}
	return "\n**Notes**\n\n" + notes + "\n"
}

func formatAttachment(name string, size int) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("\n**Reference image:** %s (%s)\n", name, formatBytes(size))
}

func formatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n> **Please double-check:**\n")
	for _, w := range warnings {
		sb.WriteString("> - " + w + "\n")
	}
	return sb.String()
}

func formatHooks(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}
	return "\n```\n" + output + "\n```\n"
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
