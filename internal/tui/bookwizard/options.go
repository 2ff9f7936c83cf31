package bookwizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/catalog"
	"github.com/mark3labs/inkbook/internal/tui/theme"
)

// optionItem is one row in an optionList.
type optionItem struct {
	id       string
	label    string
	detail   string
	disabled bool
}

// optionList is a vertical card list over one catalog field.
type optionList struct {
	field  booking.Field
	items  []optionItem
	cursor int
	width  int
}

// optionChosenMsg is the intent emitted when the user picks the row under the
// cursor.
type optionChosenMsg struct {
	field booking.Field
	id    string
}

func newOptionList(c *catalog.Catalog, field booking.Field) *optionList {
	l := &optionList{field: field, width: 60}
	for _, o := range c.Options(field) {
		item := optionItem{id: o.ID, label: o.Label, detail: o.Detail}
		if field == booking.FieldTime {
			slot, _ := c.Slot(o.ID)
			item.disabled = !slot.Available
		}
		if field == booking.FieldArtist {
			if a, ok := c.Artist(o.ID); ok && a.Bio != "" {
				item.detail = strings.TrimSpace(a.Style + " · " + a.Bio)
			}
		}
		l.items = append(l.items, item)
	}
	return l
}

// focusOn moves the cursor to id, if present.
func (l *optionList) focusOn(id string) {
	for i, item := range l.items {
		if item.id == id {
			l.cursor = i
			return
		}
	}
}

// current returns the row under the cursor.
func (l *optionList) current() (optionItem, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return optionItem{}, false
	}
	return l.items[l.cursor], true
}

// Update moves the cursor or returns the picked row as an intent.
func (l *optionList) Update(msg tea.Msg) tea.Msg {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = len(l.items) - 1
	case "enter", "space", " ":
		item, ok := l.current()
		if !ok {
			return nil
		}
		return optionChosenMsg{field: l.field, id: item.id}
	}
	return nil
}

// View renders every row, marking the cursor and the chosen id.
func (l *optionList) View(chosen string) string {
	s := theme.Current().S()
	var b strings.Builder

	for i, item := range l.items {
		marker := "  "
		if i == l.cursor {
			marker = s.OptionCursor.Render("› ")
		}

		var line string
		switch {
		case item.disabled:
			line = s.OptionDisabled.Render(item.label) + " " + s.Muted.Render("booked")
		case item.id == chosen:
			line = s.OptionSelected.Render("✓ " + item.label)
		default:
			line = s.Option.Render(item.label)
		}
		if item.detail != "" && !item.disabled {
			line += "  " + s.OptionDetail.Render(truncate(item.detail, l.width-len(item.label)-8))
		}

		b.WriteString(marker + line)
		if i < len(l.items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 3 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
