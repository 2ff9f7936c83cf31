// Package bookwizard is the terminal host for the booking wizard engine. It
// renders one view per step and turns key presses into engine operations;
// the engine decides what is allowed.
package bookwizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/template"
	"github.com/mark3labs/inkbook/internal/tui/theme"
	"github.com/mark3labs/inkbook/internal/wizard"
)

// Result is what the wizard leaves behind once the program exits.
type Result struct {
	Summary   *booking.Summary
	SubmitErr error
	Cancelled bool
}

// Option configures a Model.
type Option func(*Model)

// WithStudio overrides the studio name shown in the header and documents.
func WithStudio(name string) Option {
	return func(m *Model) {
		if name != "" {
			m.studio = name
		}
	}
}

// WithTemplate sets a custom confirmation template file.
func WithTemplate(path string) Option {
	return func(m *Model) { m.templatePath = path }
}

// WithHookOutput supplies the piped output of on_submit hooks for the
// confirmation page.
func WithHookOutput(fn func() string) Option {
	return func(m *Model) { m.hookOutput = fn }
}

// WithClock sets the clock used to place the day stepper.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// Model is the Bubbletea model for the booking wizard.
type Model struct {
	engine       *wizard.Engine
	studio       string
	templatePath string
	hookOutput   func() string
	now          func() time.Time

	step      wizard.Step
	width     int
	height    int
	status    string
	cancelled bool

	lists    map[booking.Field]*optionList
	vision   *visionStep
	schedule *scheduleStep
	contact  *contactStep
	review   viewport.Model
	spinner  spinner.Model

	submitResult *SubmitFinishedMsg
	confirmation string
	final        *booking.Summary // captured before Close resets the engine
}

// New creates the model over engine.
func New(engine *wizard.Engine, opts ...Option) *Model {
	c := engine.Catalog()
	m := &Model{
		engine: engine,
		studio: c.Studio,
		now:    time.Now,
		step:   engine.CurrentStep(),
		width:  100,
		height: 40,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.lists = map[booking.Field]*optionList{
		booking.FieldArtist:    newOptionList(c, booking.FieldArtist),
		booking.FieldPlacement: newOptionList(c, booking.FieldPlacement),
		booking.FieldSize:      newOptionList(c, booking.FieldSize),
		booking.FieldBudget:    newOptionList(c, booking.FieldBudget),
	}
	m.vision = newVisionStep()
	m.schedule = newScheduleStep(c, m.now())
	m.contact = newContactStep()

	m.review = viewport.New(viewport.WithWidth(60), viewport.WithHeight(12))
	m.review.MouseWheelEnabled = true

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))
	m.spinner = s

	m.setSize(m.width, m.height)
	m.syncStep()
	return m
}

// Run starts a full-screen program for m and blocks until it exits. The
// scheduler and background submitter, when given, are attached to the
// program before it starts.
func Run(m *Model, sched *ProgramScheduler, bg *Background) (*Result, error) {
	p := tea.NewProgram(m)
	if sched != nil {
		sched.Attach(p)
	}
	if bg != nil {
		bg.Attach(p)
	}

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("booking wizard failed: %w", err)
	}
	if bg != nil {
		bg.Wait()
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	res := wm.Result()
	return &res, nil
}

// Result reports the outcome so far.
func (m *Model) Result() Result {
	res := Result{Cancelled: m.cancelled, Summary: m.final}
	if res.Summary == nil {
		if s, ok := m.engine.Summary(); ok {
			res.Summary = &s
		}
	}
	if m.submitResult != nil {
		res.SubmitErr = m.submitResult.Err
	}
	return res
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.focusStep()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case timerFiredMsg:
		msg.fn()
		return m, m.afterEngine()

	case SubmitFinishedMsg:
		m.submitResult = &msg
		m.renderConfirmation()
		return m, nil

	case spinner.TickMsg:
		if m.engine.Phase() == wizard.PhaseSubmitting || m.awaitingHooks() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case DescriptionEditedMsg:
		if msg.Err != nil {
			m.status = "Editor failed: " + msg.Err.Error()
			return m, nil
		}
		m.vision.SetValue(msg.Content)
		return m, m.apply(fieldEditedMsg{field: booking.FieldDescription, value: msg.Content})

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	// Cursor blink and other component messages.
	switch m.step {
	case wizard.StepVision:
		return m, m.vision.Update(msg)
	case wizard.StepContact:
		cmd, _ := m.contact.Update(msg)
		return m, cmd
	case wizard.StepReview:
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		return m.close()
	}

	snap := m.engine.Snapshot()
	if snap.Phase == wizard.PhaseSubmitting {
		return nil
	}

	if snap.Step == wizard.StepSubmitted {
		switch {
		case key.Matches(msg, keys.Finish):
			return m.close()
		case key.Matches(msg, keys.Another):
			m.engine.Reset()
			m.submitResult = nil
			m.confirmation = ""
			return m.afterEngine()
		}
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Back):
		if snap.Step == wizard.StepArtist {
			return m.close()
		}
		m.report(m.engine.Back())
		return m.afterEngine()

	case key.Matches(msg, keys.Next):
		if snap.Step == wizard.StepReview {
			return m.submit()
		}
		m.report(m.engine.Next())
		return m.afterEngine()

	case key.Matches(msg, keys.Reset):
		m.engine.Reset()
		m.status = ""
		return m.afterEngine()
	}

	switch snap.Step {
	case wizard.StepArtist:
		return m.apply(m.lists[booking.FieldArtist].Update(msg))
	case wizard.StepPlacement:
		return m.apply(m.lists[booking.FieldPlacement].Update(msg))
	case wizard.StepSize:
		return m.apply(m.lists[booking.FieldSize].Update(msg))
	case wizard.StepBudget:
		return m.apply(m.lists[booking.FieldBudget].Update(msg))
	case wizard.StepSchedule:
		return m.apply(m.schedule.Update(msg))

	case wizard.StepVision:
		if key.Matches(msg, keys.Editor) {
			return m.vision.openEditor()
		}
		before := m.vision.Value()
		cmd := m.vision.Update(msg)
		if after := m.vision.Value(); after != before {
			return tea.Batch(cmd, m.apply(fieldEditedMsg{field: booking.FieldDescription, value: after}))
		}
		return cmd

	case wizard.StepContact:
		cmd, intent := m.contact.Update(msg)
		return tea.Batch(cmd, m.apply(intent))

	case wizard.StepReview:
		if key.Matches(msg, keys.Submit) {
			return m.submit()
		}
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return cmd
	}
	return nil
}

// close ends the program. Without a submitted booking it counts as cancelled.
func (m *Model) close() tea.Cmd {
	if s, ok := m.engine.Summary(); ok {
		m.final = &s
	} else {
		m.cancelled = true
	}
	m.engine.Close()
	return tea.Quit
}

func (m *Model) submit() tea.Cmd {
	if err := m.engine.Submit(); err != nil {
		m.report(err)
		return nil
	}
	m.status = ""
	return tea.Batch(m.spinner.Tick, m.afterEngine())
}

// apply performs a component intent against the engine.
func (m *Model) apply(intent tea.Msg) tea.Cmd {
	switch in := intent.(type) {
	case optionChosenMsg:
		m.report(m.engine.SelectOption(in.field, in.id))
	case dateChosenMsg:
		m.report(m.engine.SetDate(in.date))
	case fieldEditedMsg:
		m.report(m.engine.SetField(in.field, in.value))
	default:
		return nil
	}
	return m.afterEngine()
}

// report turns an engine rejection into the status line.
func (m *Model) report(err error) {
	if err == nil {
		m.status = ""
		return
	}
	logger.Debug("Wizard rejected action: %v", err)
	switch {
	case errors.Is(err, wizard.ErrStepIncomplete):
		m.status = "Finish this step first: " + strings.Join(m.engine.Snapshot().Missing, ", ")
	case errors.Is(err, wizard.ErrSlotUnavailable):
		m.status = "That time is already booked, please pick another"
	case errors.Is(err, wizard.ErrSelectionPending):
		m.status = ""
	default:
		m.status = err.Error()
	}
}

// afterEngine reconciles the view with the engine after any operation.
func (m *Model) afterEngine() tea.Cmd {
	current := m.engine.CurrentStep()
	if current == m.step {
		m.syncStep()
		return nil
	}

	m.blurStep()
	m.step = current
	m.syncStep()
	return m.focusStep()
}

// syncStep copies the draft into the component for the current step.
func (m *Model) syncStep() {
	snap := m.engine.Snapshot()
	d := snap.Draft

	switch m.step {
	case wizard.StepArtist:
		m.lists[booking.FieldArtist].focusOn(d.ArtistID)
	case wizard.StepPlacement:
		m.lists[booking.FieldPlacement].focusOn(d.Placement)
	case wizard.StepSize:
		m.lists[booking.FieldSize].focusOn(d.Size)
	case wizard.StepBudget:
		m.lists[booking.FieldBudget].focusOn(d.Budget)
	case wizard.StepVision:
		if m.vision.Value() != d.Description {
			m.vision.SetValue(d.Description)
		}
	case wizard.StepSchedule:
		m.schedule.sync(d)
	case wizard.StepContact:
		m.contact.sync(d)
	case wizard.StepReview:
		doc := template.RenderReview(m.studio, d, m.engine.Catalog())
		m.review.SetContent(renderMarkdown(doc, m.review.Width()))
		m.review.GotoTop()
	case wizard.StepSubmitted:
		m.renderConfirmation()
	}
}

func (m *Model) focusStep() tea.Cmd {
	switch m.step {
	case wizard.StepVision:
		return m.vision.Focus()
	case wizard.StepContact:
		return m.contact.Focus()
	}
	return nil
}

func (m *Model) blurStep() {
	switch m.step {
	case wizard.StepVision:
		m.vision.Blur()
	case wizard.StepContact:
		m.contact.Blur()
	}
}

func (m *Model) awaitingHooks() bool {
	return m.step == wizard.StepSubmitted && m.submitResult == nil && m.hookOutput != nil
}

func (m *Model) renderConfirmation() {
	summary, ok := m.engine.Summary()
	if !ok {
		return
	}
	var hookOutput string
	if m.submitResult != nil && m.hookOutput != nil {
		hookOutput = m.hookOutput()
	}
	doc, err := template.RenderConfirmation(m.templatePath, m.studio, summary, hookOutput)
	if err != nil {
		logger.Warn("Confirmation template failed: %v", err)
		doc = fmt.Sprintf("# Booking received\n\nReference: `%s`", summary.Reference)
	}
	m.confirmation = doc
	m.review.SetContent(renderMarkdown(doc, m.review.Width()))
	m.review.GotoTop()
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height

	inner := m.modalWidth() - 8
	for _, l := range m.lists {
		l.width = inner
	}
	m.schedule.slots.width = inner
	m.vision.SetWidth(inner)
	m.contact.SetWidth(inner)

	vpHeight := height - 16
	if vpHeight < 6 {
		vpHeight = 6
	}
	m.review.SetWidth(inner)
	m.review.SetHeight(vpHeight)
	if m.step == wizard.StepReview || m.step == wizard.StepSubmitted {
		m.syncStep()
	}
}

func (m *Model) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100
	}
	return w
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render draws the modal for the current step.
func (m *Model) render() string {
	s := theme.Current().S()
	snap := m.engine.Snapshot()

	var sections []string
	sections = append(sections, m.header(snap))
	sections = append(sections, s.StepTitle.Render(snap.Config.Title), "")
	sections = append(sections, m.body(snap))

	if m.status != "" {
		sections = append(sections, "", s.Error.Render(m.status))
	}
	if buttons := m.buttons(snap); buttons != nil {
		bar := NewButtonBar(buttons)
		bar.SetWidth(m.modalWidth() - 8)
		sections = append(sections, "", bar.Render())
	}
	sections = append(sections, "", renderHintBar(m.hintPairs(snap)...))

	modal := s.ModalContainer.Width(m.modalWidth()).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) header(snap wizard.Snapshot) string {
	t := theme.Current()
	s := t.S()

	if snap.Step == wizard.StepSubmitted {
		return s.ModalTitle.Render(m.studio)
	}

	total := int(wizard.StepReview)
	var dots strings.Builder
	for i := 1; i <= total; i++ {
		if i <= int(snap.Step) {
			c := theme.Blend(t.Primary, t.Success, float64(i-1)/float64(total-1))
			dots.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●"))
		} else {
			dots.WriteString(s.Muted.Render("○"))
		}
	}
	return fmt.Sprintf("%s  %s  %s",
		s.ModalTitle.Render(m.studio),
		dots.String(),
		s.Muted.Render(fmt.Sprintf("Step %d of %d", snap.Step, total)))
}

func (m *Model) body(snap wizard.Snapshot) string {
	s := theme.Current().S()
	d := snap.Draft

	switch snap.Step {
	case wizard.StepArtist:
		return m.lists[booking.FieldArtist].View(d.ArtistID)
	case wizard.StepVision:
		return m.vision.View(d.Reference)
	case wizard.StepPlacement:
		return m.lists[booking.FieldPlacement].View(d.Placement)
	case wizard.StepSize:
		return m.lists[booking.FieldSize].View(d.Size)
	case wizard.StepSchedule:
		return m.schedule.View(d)
	case wizard.StepBudget:
		return m.lists[booking.FieldBudget].View(d.Budget)
	case wizard.StepContact:
		return m.contact.View(d.ContactWarnings())
	case wizard.StepReview:
		if snap.Phase == wizard.PhaseSubmitting {
			return m.review.View() + "\n\n" + m.spinner.View() + " " + s.Status.Render("Sending your booking request...")
		}
		return m.review.View()
	case wizard.StepSubmitted:
		out := m.review.View()
		switch {
		case m.awaitingHooks():
			out += "\n\n" + m.spinner.View() + " " + s.Status.Render("Letting the studio know...")
		case m.submitResult != nil && m.submitResult.Err != nil:
			out += "\n\n" + s.Warning.Render("Your request is saved, but notifying the studio failed: "+m.submitResult.Err.Error())
		}
		return out
	}
	return ""
}

func (m *Model) buttons(snap wizard.Snapshot) []Button {
	switch snap.Step {
	case wizard.StepSubmitted:
		return nil
	case wizard.StepReview:
		canSubmit := snap.Phase == wizard.PhaseEditing
		return stepButtons(snap.CanGoBack, canSubmit, "Send request")
	}
	return stepButtons(snap.CanGoBack, snap.CanAdvance, "Next →")
}

func (m *Model) hintPairs(snap wizard.Snapshot) []string {
	switch snap.Step {
	case wizard.StepSubmitted:
		return hints(keys.Finish, keys.Another)
	case wizard.StepReview:
		if snap.Phase == wizard.PhaseSubmitting {
			return hints(keys.Quit)
		}
		return append([]string{"↑↓", "scroll"}, hints(keys.Submit, keys.Back, keys.Reset)...)
	case wizard.StepVision:
		return hints(keys.Next, keys.Editor, keys.Back)
	case wizard.StepContact:
		return append([]string{"tab", "next field"}, hints(keys.Next, keys.Back)...)
	case wizard.StepSchedule:
		return []string{"←→", "day", "tab", "day/time", "enter", "choose", "ctrl+n", "next", "esc", "back"}
	case wizard.StepArtist:
		return append([]string{"↑↓", "move", "enter", "choose"}, hints(keys.Reset)...)
	}
	return append([]string{"↑↓", "move", "enter", "choose"}, hints(keys.Next, keys.Back)...)
}
