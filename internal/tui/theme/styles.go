package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style
	StepTitle      lipgloss.Style

	// Option cards
	Option         lipgloss.Style
	OptionCursor   lipgloss.Style
	OptionSelected lipgloss.Style
	OptionDisabled lipgloss.Style
	OptionDetail   lipgloss.Style

	// Form fields
	FieldLabel lipgloss.Style
	FieldError lipgloss.Style

	// Buttons
	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	// Hint bar
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	Status  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Secondary)).
			Padding(1, 2),
		ModalTitle: color(t.Primary).Bold(true),
		StepTitle:  color(t.FgBright).Bold(true),

		Option:         color(t.FgBase).PaddingLeft(2),
		OptionCursor:   color(t.Secondary).Bold(true),
		OptionSelected: color(t.Success).Bold(true),
		OptionDisabled: color(t.FgMuted).Strikethrough(true).PaddingLeft(2),
		OptionDetail:   color(t.FgSubtle),

		FieldLabel: color(t.Secondary).Bold(true),
		FieldError: color(t.Error),

		ButtonNormal: button.
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgSurface0)),
		ButtonDisabled: button.
			Foreground(lipgloss.Color(t.FgMuted)).
			Background(lipgloss.Color(t.BgMantle)),
		ButtonFocused: button.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Secondary)).
			Bold(true),

		HintKey:       color(t.FgSubtle).Bold(true),
		HintDesc:      color(t.FgSubtle),
		HintSeparator: color(t.BgSurface1),

		Status:  color(t.Info),
		Warning: color(t.Warning),
		Error:   color(t.Error),
		Success: color(t.Success),
		Muted:   color(t.FgMuted),
	}
}
