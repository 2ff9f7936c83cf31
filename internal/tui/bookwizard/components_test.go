package bookwizard

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestOptionList_Navigation(t *testing.T) {
	l := newOptionList(defaultCatalog(t), booking.FieldSize)
	require.Len(t, l.items, 4)

	tests := []struct {
		key  string
		want string
	}{
		{"up", "small"},
		{"down", "medium"},
		{"j", "large"},
		{"end", "xl"},
		{"down", "xl"},
		{"k", "large"},
		{"home", "small"},
	}
	for _, tt := range tests {
		assert.Nil(t, l.Update(tea.KeyPressMsg{Text: tt.key}))
		item, ok := l.current()
		require.True(t, ok)
		assert.Equal(t, tt.want, item.id, "after %s", tt.key)
	}

	intent := l.Update(tea.KeyPressMsg{Text: "enter"})
	assert.Equal(t, optionChosenMsg{field: booking.FieldSize, id: "small"}, intent)
}

func TestOptionList_View(t *testing.T) {
	l := newOptionList(defaultCatalog(t), booking.FieldTime)
	l.focusOn("13:00")

	view := l.View("13:00")
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "11:30")
	assert.Contains(t, lines[1], "booked")
	assert.Contains(t, lines[2], "› ")
	assert.Contains(t, lines[2], "✓ 13:00")
}

func TestOptionList_ArtistDetail(t *testing.T) {
	l := newOptionList(defaultCatalog(t), booking.FieldArtist)
	l.width = 200

	assert.Contains(t, l.View(""), "Fine line · Delicate botanicals")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("abcdefgh", 3))
}

func TestScheduleStep_WindowBounds(t *testing.T) {
	c := defaultCatalog(t)
	today := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)
	s := newScheduleStep(c, today)

	// Up a week from tomorrow would pass today.
	assert.Nil(t, s.Update(tea.KeyPressMsg{Text: "up"}))

	var last tea.Msg
	for i := 0; i < 10; i++ {
		if msg := s.Update(tea.KeyPressMsg{Text: "down"}); msg != nil {
			last = msg
		}
	}
	chosen, ok := last.(dateChosenMsg)
	require.True(t, ok)
	assert.False(t, chosen.date.After(today.AddDate(0, 0, c.BookingWindowDays)))
	assert.Equal(t, "2026-11-18", chosen.date.Format(booking.DateLayout))
}

func TestScheduleStep_EnterSwitchesToTime(t *testing.T) {
	s := newScheduleStep(defaultCatalog(t), time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC))

	msg := s.Update(tea.KeyPressMsg{Text: "enter"})
	assert.Equal(t, dateChosenMsg{date: time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)}, msg)
	assert.Equal(t, paneTime, s.pane)

	msg = s.Update(tea.KeyPressMsg{Text: "enter"})
	assert.Equal(t, optionChosenMsg{field: booking.FieldTime, id: "10:00"}, msg)
}

func TestContactStep_FocusCycle(t *testing.T) {
	c := newContactStep()
	c.Focus()

	c.Update(tea.KeyPressMsg{Text: "shift+tab"})
	assert.Equal(t, 3, c.focus)
	c.Update(tea.KeyPressMsg{Text: "tab"})
	assert.Equal(t, 0, c.focus)

	_, intent := c.Update(tea.KeyPressMsg{Code: 'Z', Text: "Z"})
	assert.Equal(t, fieldEditedMsg{field: booking.FieldName, value: "Z"}, intent)
}

func TestContactStep_Sync(t *testing.T) {
	c := newContactStep()
	c.sync(booking.Draft{Name: "Ada", Notes: "left arm only"})

	assert.Equal(t, "Ada", c.inputs[0].input.Value())
	assert.Equal(t, "left arm only", c.inputs[3].input.Value())
}

func TestButtonBarAndHints(t *testing.T) {
	bar := NewButtonBar(stepButtons(false, true, "Next →"))
	bar.SetWidth(40)
	out := bar.Render()
	assert.Contains(t, out, "← Back")
	assert.Contains(t, out, "Next →")

	assert.Equal(t, "", renderHintBar("odd"))
	assert.Equal(t, "enter choose • esc back", ansi.Strip(renderHintBar("enter", "choose", "esc", "back")))
	assert.Equal(t, []string{"ctrl+n", "next"}, hints(keys.Next))
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown("## Hello\n\nSome **bold** text", 60)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")
}
