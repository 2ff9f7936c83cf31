package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/catalog"
	"github.com/mark3labs/inkbook/internal/logger"
	"go.uber.org/atomic"
)

// Default delays. Both are cosmetic: nothing is awaited during them.
const (
	DefaultAutoAdvanceDelay  = 400 * time.Millisecond
	DefaultSubmitDelay       = 1500 * time.Millisecond
	DefaultMaxReferenceBytes = 10 << 20
)

// Phase is the submission phase of the wizard.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSubmitted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	}
	return "unknown"
}

// Engine drives a State through the booking steps. It is safe for use from
// multiple goroutines; deferred callbacks take the same lock as the public
// methods.
type Engine struct {
	mu    sync.Mutex
	state *State
	phase Phase

	catalog   *catalog.Catalog
	steps     map[Step]StepConfig
	scheduler Scheduler
	observers []Observer
	submitter Submitter
	ctx       context.Context
	now       func() time.Time

	autoAdvanceDelay time.Duration
	submitDelay      time.Duration
	maxReference     int

	// epoch is bumped whenever deferred work is cancelled; callbacks compare
	// it with the value captured when they were scheduled.
	epoch       *atomic.Uint64
	submitTimer Timer
	summary     *booking.Summary
	submitErr   error
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the RealScheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithAutoAdvanceDelay sets the delay between a selection and its Next.
func WithAutoAdvanceDelay(d time.Duration) Option {
	return func(e *Engine) { e.autoAdvanceDelay = d }
}

// WithSubmitDelay sets the delay between Submit and the submitted step.
func WithSubmitDelay(d time.Duration) Option {
	return func(e *Engine) { e.submitDelay = d }
}

// WithMaxReferenceBytes limits the reference attachment size.
func WithMaxReferenceBytes(n int) Option {
	return func(e *Engine) { e.maxReference = n }
}

// WithSteps overrides the per-step configuration. Steps missing from cfgs
// keep their defaults.
func WithSteps(cfgs ...StepConfig) Option {
	return func(e *Engine) {
		for _, c := range cfgs {
			e.steps[c.Step] = c
		}
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithSubmitter sets the collaborator that receives submitted bookings.
func WithSubmitter(s Submitter) Option {
	return func(e *Engine) { e.submitter = s }
}

// WithClock replaces time.Now, used for date checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithContext sets the context passed to the submitter.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) { e.ctx = ctx }
}

// New creates an engine over the given catalog.
func New(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		state:            NewState(),
		catalog:          c,
		steps:            make(map[Step]StepConfig),
		scheduler:        RealScheduler{},
		ctx:              context.Background(),
		now:              time.Now,
		autoAdvanceDelay: DefaultAutoAdvanceDelay,
		submitDelay:      DefaultSubmitDelay,
		maxReference:     DefaultMaxReferenceBytes,
		epoch:            atomic.NewUint64(0),
	}
	for _, s := range DefaultSteps() {
		e.steps[s.Step] = s
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the option catalog the engine validates against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// CurrentStep returns the current step.
func (e *Engine) CurrentStep() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.step
}

// Phase returns the submission phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Next moves to the following step when the current one is complete.
func (e *Engine) Next() error {
	e.mu.Lock()
	t, err := e.advanceLocked(TransitionNext)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(t)
	return nil
}

// Back moves to the previous step. A pending auto-advance is cancelled.
func (e *Engine) Back() error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	from := e.state.step
	if from <= StepArtist {
		e.mu.Unlock()
		return ErrFirstStep
	}
	e.cancelPendingLocked()
	e.state.step = from - 1
	t := e.transitionLocked(TransitionBack, from)
	e.mu.Unlock()

	e.notify(t)
	return nil
}

// Submit starts submission from the review step. The wizard reaches the
// submitted step after the submit delay.
func (e *Engine) Submit() error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.state.step != StepReview {
		e.mu.Unlock()
		return ErrNotReview
	}

	e.cancelPendingLocked()
	e.phase = PhaseSubmitting
	epoch := e.epoch.Load()
	e.submitTimer = e.scheduler.AfterFunc(e.submitDelay, func() {
		e.completeSubmit(epoch)
	})
	t := e.transitionLocked(TransitionSubmitStarted, StepReview)
	e.mu.Unlock()

	logger.Debug("Submission started, completing in %s", e.submitDelay)
	e.notify(t)
	return nil
}

// SelectOption sets a catalog-backed field and, on auto-advance steps,
// schedules Next after the auto-advance delay. While that Next is pending
// further selections are rejected with ErrSelectionPending.
func (e *Engine) SelectOption(field booking.Field, value string) error {
	if !IsSelectable(field) {
		return ErrNotSelectable
	}

	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.state.PendingAutoAdvance {
		e.mu.Unlock()
		return ErrSelectionPending
	}
	if err := e.checkOptionLocked(field, value); err != nil {
		e.mu.Unlock()
		return err
	}

	e.state.SetField(field, value)
	t := e.transitionLocked(TransitionSelect, e.state.step)
	t.Field = field.String()
	t.Value = value

	step := StepForField(field)
	if step == e.state.step && e.steps[step].AutoAdvance && CanAdvance(step, e.state.draft) {
		e.state.PendingAutoAdvance = true
		epoch := e.epoch.Load()
		e.state.timer = e.scheduler.AfterFunc(e.autoAdvanceDelay, func() {
			e.fireAutoAdvance(epoch, step)
		})
	}
	e.mu.Unlock()

	e.notify(t)
	return nil
}

// SetField sets a field without triggering auto-advance. Catalog-backed
// fields are still checked against the catalog.
func (e *Engine) SetField(field booking.Field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.editableLocked(); err != nil {
		return err
	}
	if IsSelectable(field) && value != "" {
		if err := e.checkOptionLocked(field, value); err != nil {
			return err
		}
	}
	e.state.SetField(field, value)
	return nil
}

// SetDate selects the appointment day. Days before today or beyond the
// catalog's booking window are rejected.
func (e *Engine) SetDate(date time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.editableLocked(); err != nil {
		return err
	}

	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if day.Before(today) {
		return ErrDateInPast
	}
	if day.Equal(today) {
		return ErrSameDay
	}
	if e.catalog != nil && e.catalog.BookingWindowDays > 0 {
		if day.After(today.AddDate(0, 0, e.catalog.BookingWindowDays)) {
			return ErrDateOutOfWindow
		}
	}

	e.state.SetDate(day)
	return nil
}

// ClearDate removes the selected day.
func (e *Engine) ClearDate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.editableLocked(); err != nil {
		return err
	}
	e.state.ClearDate()
	return nil
}

// AttachReference sets the in-memory reference image; nil removes it.
func (e *Engine) AttachReference(a *booking.Attachment) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.editableLocked(); err != nil {
		return err
	}
	if a != nil && e.maxReference > 0 && a.Size() > e.maxReference {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrAttachmentTooLarge, a.Size(), e.maxReference)
	}
	e.state.SetReference(a)
	return nil
}

// Reset discards the draft, cancels deferred work and returns to step 1.
func (e *Engine) Reset() {
	e.resetAs(TransitionReset)
}

// Close resets the wizard as the host closes it. Observers see a closed
// transition carrying the step the user left from.
func (e *Engine) Close() {
	e.resetAs(TransitionClosed)
}

func (e *Engine) resetAs(kind TransitionKind) {
	e.mu.Lock()
	from := e.state.step
	e.cancelPendingLocked()
	if e.submitTimer != nil {
		e.submitTimer.Stop()
		e.submitTimer = nil
	}
	e.state.Reset()
	e.phase = PhaseEditing
	e.summary = nil
	e.submitErr = nil
	t := e.transitionLocked(kind, from)
	e.mu.Unlock()

	e.notify(t)
}

// Summary returns the read-only summary once the booking is submitted.
func (e *Engine) Summary() (booking.Summary, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.summary == nil {
		return booking.Summary{}, false
	}
	return *e.summary, true
}

// SubmitErr returns the error reported by the submitter, if any.
func (e *Engine) SubmitErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitErr
}

// Snapshot is a consistent copy of the engine state for hosts.
type Snapshot struct {
	Step               Step
	Phase              Phase
	Config             StepConfig
	CanAdvance         bool
	CanGoBack          bool
	PendingAutoAdvance bool
	Missing            []string
	Draft              booking.Draft
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	step := e.state.step
	editing := e.phase == PhaseEditing
	return Snapshot{
		Step:               step,
		Phase:              e.phase,
		Config:             e.steps[step],
		CanAdvance:         editing && step < StepReview && CanAdvance(step, e.state.draft),
		CanGoBack:          editing && step > StepArtist && step <= StepReview,
		PendingAutoAdvance: e.state.PendingAutoAdvance,
		Missing:            MissingFields(step, e.state.draft),
		Draft:              e.state.Draft(),
	}
}

func (e *Engine) advanceLocked(kind TransitionKind) (Transition, error) {
	if err := e.editableLocked(); err != nil {
		return Transition{}, err
	}
	from := e.state.step
	if from >= StepReview {
		return Transition{}, ErrReviewStep
	}
	if !CanAdvance(from, e.state.draft) {
		return Transition{}, ErrStepIncomplete
	}

	e.cancelPendingLocked()
	e.state.step = from + 1
	return e.transitionLocked(kind, from), nil
}

func (e *Engine) fireAutoAdvance(epoch uint64, step Step) {
	e.mu.Lock()
	if e.epoch.Load() != epoch {
		// Cancelled by Back, Next, Reset or Close, which cleared the flag.
		e.mu.Unlock()
		return
	}
	e.state.PendingAutoAdvance = false
	e.state.timer = nil
	if e.state.step != step {
		e.mu.Unlock()
		return
	}
	t, err := e.advanceLocked(TransitionAutoAdvance)
	e.mu.Unlock()

	if err != nil {
		logger.Debug("Auto-advance from %s skipped: %v", step, err)
		return
	}
	e.notify(t)
}

func (e *Engine) completeSubmit(epoch uint64) {
	e.mu.Lock()
	if e.epoch.Load() != epoch || e.phase != PhaseSubmitting {
		e.mu.Unlock()
		return
	}

	e.submitTimer = nil
	e.state.step = StepSubmitted
	e.state.freeze()
	e.phase = PhaseSubmitted
	summary := booking.NewSummary(e.state.Draft(), e.catalogLabels(), e.now())
	e.summary = &summary
	t := e.transitionLocked(TransitionSubmitted, StepReview)
	t.Summary = &summary
	submitter := e.submitter
	ctx := e.ctx
	e.mu.Unlock()

	logger.Info("Booking %s submitted", summary.Reference)
	e.notify(t)

	if submitter == nil {
		return
	}
	if err := submitter.Submit(ctx, summary); err != nil {
		logger.Error("Submitter failed for booking %s: %v", summary.Reference, err)
		e.mu.Lock()
		if e.summary != nil && e.summary.Reference == summary.Reference {
			e.submitErr = err
		}
		e.mu.Unlock()
	}
}

func (e *Engine) catalogLabels() booking.Labeler {
	if e.catalog == nil {
		return nil
	}
	return e.catalog
}

func (e *Engine) checkOptionLocked(field booking.Field, value string) error {
	if e.catalog == nil {
		return nil
	}
	if field == booking.FieldTime {
		slot, ok := e.catalog.Slot(value)
		if !ok {
			return fmt.Errorf("%w: %s %q", ErrUnknownOption, field, value)
		}
		if !slot.Available {
			return ErrSlotUnavailable
		}
		return nil
	}
	if _, ok := e.catalog.Lookup(field, value); !ok {
		return fmt.Errorf("%w: %s %q", ErrUnknownOption, field, value)
	}
	return nil
}

func (e *Engine) editableLocked() error {
	switch e.phase {
	case PhaseSubmitting:
		return ErrSubmitting
	case PhaseSubmitted:
		return ErrSubmitted
	}
	return nil
}

func (e *Engine) cancelPendingLocked() {
	if e.state.timer != nil {
		e.state.timer.Stop()
		e.state.timer = nil
	}
	e.state.PendingAutoAdvance = false
	e.epoch.Inc()
}

func (e *Engine) transitionLocked(kind TransitionKind, from Step) Transition {
	return Transition{
		Kind: kind,
		From: from,
		To:   e.state.step,
		At:   e.now(),
	}
}

func (e *Engine) notify(t Transition) {
	for _, o := range e.observers {
		o.OnTransition(t)
	}
}
