package bookwizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/tui/theme"
)

// fieldEditedMsg is the intent for a changed free-text value.
type fieldEditedMsg struct {
	field booking.Field
	value string
}

type contactInput struct {
	field booking.Field
	label string
	input textinput.Model
}

// contactStep holds the name, email, phone and notes inputs.
type contactStep struct {
	inputs []contactInput
	focus  int
}

func newContactStep() *contactStep {
	t := theme.Current()
	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}

	specs := []struct {
		field       booking.Field
		label       string
		placeholder string
		limit       int
	}{
		{booking.FieldName, "Name", "Your full name", 100},
		{booking.FieldEmail, "Email", "you@example.com", 254},
		{booking.FieldPhone, "Phone", "+44 7700 900123", 32},
		{booking.FieldNotes, "Notes (optional)", "Allergies, accessibility, anything else", 500},
	}

	c := &contactStep{}
	for _, spec := range specs {
		in := textinput.New()
		in.Placeholder = spec.placeholder
		in.Prompt = "› "
		in.CharLimit = spec.limit
		in.SetStyles(styles)
		in.SetWidth(50)
		c.inputs = append(c.inputs, contactInput{field: spec.field, label: spec.label, input: in})
	}
	return c
}

func (c *contactStep) Focus() tea.Cmd {
	for i := range c.inputs {
		c.inputs[i].input.Blur()
	}
	return c.inputs[c.focus].input.Focus()
}

func (c *contactStep) Blur() {
	for i := range c.inputs {
		c.inputs[i].input.Blur()
	}
}

func (c *contactStep) SetWidth(width int) {
	for i := range c.inputs {
		c.inputs[i].input.SetWidth(width - 4)
	}
}

// sync copies draft values into the inputs.
func (c *contactStep) sync(d booking.Draft) {
	for i := range c.inputs {
		if v := d.Get(c.inputs[i].field); v != c.inputs[i].input.Value() {
			c.inputs[i].input.SetValue(v)
		}
	}
}

// Update moves focus or forwards msg to the focused input. A changed value is
// returned as a fieldEditedMsg intent.
func (c *contactStep) Update(msg tea.Msg) (tea.Cmd, tea.Msg) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab", "down", "enter":
			c.focus = (c.focus + 1) % len(c.inputs)
			return c.Focus(), nil
		case "shift+tab", "up":
			c.focus = (c.focus - 1 + len(c.inputs)) % len(c.inputs)
			return c.Focus(), nil
		}
	}

	in := &c.inputs[c.focus]
	before := in.input.Value()
	var cmd tea.Cmd
	in.input, cmd = in.input.Update(msg)
	if after := in.input.Value(); after != before {
		return cmd, fieldEditedMsg{field: in.field, value: after}
	}
	return cmd, nil
}

func (c *contactStep) View(warnings []string) string {
	s := theme.Current().S()
	var b strings.Builder

	for i, in := range c.inputs {
		label := s.Muted
		if i == c.focus {
			label = s.FieldLabel
		}
		b.WriteString(label.Render(in.label))
		b.WriteString("\n")
		b.WriteString(in.input.View())
		b.WriteString("\n\n")
	}

	for _, w := range warnings {
		b.WriteString(s.Warning.Render("⚠ " + w))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
