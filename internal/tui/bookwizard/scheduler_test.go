package bookwizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramScheduler_SendsToProgram(t *testing.T) {
	msgs := make(chan tea.Msg, 1)
	s := &ProgramScheduler{send: func(msg tea.Msg) { msgs <- msg }}

	ran := false
	s.AfterFunc(time.Millisecond, func() { ran = true })

	select {
	case msg := <-msgs:
		fired, ok := msg.(timerFiredMsg)
		require.True(t, ok)
		assert.False(t, ran, "callback must wait for the update loop")
		fired.fn()
		assert.True(t, ran)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestProgramScheduler_StopBeforeFire(t *testing.T) {
	s := &ProgramScheduler{send: func(tea.Msg) { t.Error("stopped timer fired") }}

	timer := s.AfterFunc(time.Hour, func() {})
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
}

func TestProgramScheduler_Detached(t *testing.T) {
	s := &ProgramScheduler{}

	var mu sync.Mutex
	ran := false
	s.AfterFunc(time.Millisecond, func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ran
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBackground(t *testing.T) {
	boom := errors.New("hook failed")
	release := make(chan struct{})
	inner := wizard.SubmitterFunc(func(context.Context, booking.Summary) error {
		<-release
		return boom
	})

	msgs := make(chan tea.Msg, 1)
	b := NewBackground(inner)
	b.send = func(msg tea.Msg) { msgs <- msg }

	// Submit returns before the inner submitter finishes.
	require.NoError(t, b.Submit(context.Background(), booking.Summary{Reference: "INK-1"}))
	close(release)
	b.Wait()

	msg := <-msgs
	done, ok := msg.(SubmitFinishedMsg)
	require.True(t, ok)
	assert.Equal(t, "INK-1", done.Reference)
	assert.ErrorIs(t, done.Err, boom)
}
