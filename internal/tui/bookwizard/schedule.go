package bookwizard

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/catalog"
	"github.com/mark3labs/inkbook/internal/tui/theme"
)

const dayLayout = "Monday, 2 January 2006"

type schedulePane int

const (
	paneDate schedulePane = iota
	paneTime
)

// dateChosenMsg asks the model to set the appointment day.
type dateChosenMsg struct {
	date time.Time
}

// scheduleStep pairs a day stepper with the time slot list.
type scheduleStep struct {
	day   time.Time // day under the stepper
	first time.Time
	last  time.Time // zero means no upper bound
	pane  schedulePane
	slots *optionList
}

func newScheduleStep(c *catalog.Catalog, today time.Time) *scheduleStep {
	first := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	s := &scheduleStep{
		day:   first.AddDate(0, 0, 1),
		first: first,
		slots: newOptionList(c, booking.FieldTime),
	}
	if c.BookingWindowDays > 0 {
		s.last = first.AddDate(0, 0, c.BookingWindowDays)
	}
	return s
}

// sync points the stepper and slot cursor at the draft's answers.
func (s *scheduleStep) sync(d booking.Draft) {
	if d.SelectedDate != nil {
		s.day = *d.SelectedDate
	}
	if d.Time != "" {
		s.slots.focusOn(d.Time)
	}
}

func (s *scheduleStep) move(days int) tea.Msg {
	next := s.day.AddDate(0, 0, days)
	if next.Before(s.first) || (!s.last.IsZero() && next.After(s.last)) {
		return nil
	}
	s.day = next
	return s.choose()
}

func (s *scheduleStep) choose() tea.Msg {
	return dateChosenMsg{date: s.day}
}

// Update moves the stepper or slot cursor and returns a date or slot intent.
func (s *scheduleStep) Update(msg tea.Msg) tea.Msg {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "shift+tab":
		if s.pane == paneDate {
			s.pane = paneTime
		} else {
			s.pane = paneDate
		}
		return nil
	}

	if s.pane == paneTime {
		return s.slots.Update(msg)
	}

	switch keyMsg.String() {
	case "left", "h":
		return s.move(-1)
	case "right", "l":
		return s.move(1)
	case "up", "k":
		return s.move(-7)
	case "down", "j":
		return s.move(7)
	case "enter", "space", " ":
		s.pane = paneTime
		return s.choose()
	}
	return nil
}

func (s *scheduleStep) View(d booking.Draft) string {
	st := theme.Current().S()
	var b strings.Builder

	label := st.FieldLabel
	if s.pane != paneDate {
		label = st.Muted
	}
	b.WriteString(label.Render("Day"))
	b.WriteString("\n")

	day := "◀ " + s.day.Format(dayLayout) + " ▶"
	switch {
	case d.SelectedDate == nil:
		b.WriteString(st.Option.Render(day) + "  " + st.Muted.Render("not chosen"))
	case d.SelectedDate.Equal(s.day):
		b.WriteString(st.OptionSelected.Render(day))
	default:
		b.WriteString(st.Option.Render(day) + "  " + st.Muted.Render("chosen: "+d.SelectedDate.Format(booking.DateLayout)))
	}
	b.WriteString("\n\n")

	label = st.FieldLabel
	if s.pane != paneTime {
		label = st.Muted
	}
	b.WriteString(label.Render("Time"))
	b.WriteString("\n")
	b.WriteString(s.slots.View(d.Time))
	return b.String()
}
