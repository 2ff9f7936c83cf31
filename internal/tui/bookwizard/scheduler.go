package bookwizard

import (
	"context"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/wizard"
)

// timerFiredMsg carries an engine callback onto the UI loop.
type timerFiredMsg struct {
	fn func()
}

// SubmitFinishedMsg is sent when the background submitters return.
type SubmitFinishedMsg struct {
	Reference string
	Err       error
}

// ProgramScheduler is a wizard.Scheduler whose callbacks run inside the
// Bubbletea update loop, so the model always renders settled engine state.
type ProgramScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// Attach routes fired timers to p. Call before the program starts.
func (s *ProgramScheduler) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = p.Send
}

// AfterFunc implements wizard.Scheduler.
func (s *ProgramScheduler) AfterFunc(d time.Duration, f func()) wizard.Timer {
	return time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()

		if send == nil {
			// No program yet; the engine lock still serializes the call.
			f()
			return
		}
		send(timerFiredMsg{fn: f})
	})
}

// Background runs a submitter off the UI loop and reports the outcome as a
// SubmitFinishedMsg. Failures therefore never reach Engine.SubmitErr; the
// model shows them instead.
type Background struct {
	inner wizard.Submitter

	mu   sync.Mutex
	send func(tea.Msg)
	wg   sync.WaitGroup
}

// NewBackground wraps inner.
func NewBackground(inner wizard.Submitter) *Background {
	return &Background{inner: inner}
}

// Attach routes completion messages to p.
func (b *Background) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = p.Send
}

// Submit implements wizard.Submitter. It returns immediately.
func (b *Background) Submit(ctx context.Context, s booking.Summary) error {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		err := b.inner.Submit(ctx, s)
		if err != nil {
			logger.Warn("Background submit for %s failed: %v", s.Reference, err)
		}

		b.mu.Lock()
		send := b.send
		b.mu.Unlock()
		if send != nil {
			send(SubmitFinishedMsg{Reference: s.Reference, Err: err})
		}
	}()
	return nil
}

// Wait blocks until every started submission has returned.
func (b *Background) Wait() {
	b.wg.Wait()
}
