package bookwizard

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/tui/theme"
)

const descriptionLimit = 2000

// visionStep collects the free-text tattoo description.
type visionStep struct {
	textarea textarea.Model
	width    int
}

// DescriptionEditedMsg is sent when the external editor returns.
type DescriptionEditedMsg struct {
	Content string
	Err     error
}

func newVisionStep() *visionStep {
	ta := textarea.New()
	ta.Placeholder = "What would you like? Subject, style, colours, anything that matters..."
	ta.CharLimit = descriptionLimit
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(60)
	ta.SetHeight(6)

	t := theme.Current()
	styles := textarea.DefaultDarkStyles()
	styles.Cursor.Color = lipgloss.Color(t.Secondary)
	styles.Cursor.Shape = tea.CursorBlock
	styles.Cursor.Blink = true
	ta.SetStyles(styles)

	return &visionStep{textarea: ta, width: 60}
}

func (v *visionStep) Focus() tea.Cmd {
	return v.textarea.Focus()
}

func (v *visionStep) Blur() {
	v.textarea.Blur()
}

func (v *visionStep) SetWidth(width int) {
	v.width = width
	v.textarea.SetWidth(width)
}

// SetValue replaces the text without emitting an edit.
func (v *visionStep) SetValue(s string) {
	v.textarea.SetValue(s)
}

func (v *visionStep) Value() string {
	return v.textarea.Value()
}

func (v *visionStep) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.textarea, cmd = v.textarea.Update(msg)
	return cmd
}

// openEditor launches $EDITOR on a temp file seeded with the description.
func (v *visionStep) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "inkbook_vision_*.md")
	if err != nil {
		return nil
	}
	if _, err := tmpfile.WriteString(v.textarea.Value()); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("inkbook", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return DescriptionEditedMsg{Err: err}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return DescriptionEditedMsg{Err: err}
		}
		return DescriptionEditedMsg{Content: strings.TrimRight(string(content), "\n")}
	})
}

func (v *visionStep) View(ref *booking.Attachment) string {
	s := theme.Current().S()
	var b strings.Builder

	b.WriteString(v.textarea.View())
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("%d/%d", len([]rune(v.textarea.Value())), descriptionLimit)))

	if ref != nil {
		b.WriteString("\n\n")
		b.WriteString(s.FieldLabel.Render("Reference image: "))
		b.WriteString(fmt.Sprintf("%s (%s, %d KB)", ref.Filename, ref.MIMEType, (ref.Size()+1023)/1024))
	}
	return b.String()
}
