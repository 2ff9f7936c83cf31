package wizard

import (
	"sync"
	"time"
)

// Timer is a handle to a deferred task.
type Timer interface {
	// Stop prevents the task from running. It returns false if the task
	// already ran or was stopped.
	Stop() bool
}

// Scheduler runs deferred tasks. The engine uses it for the auto-advance
// delay and the cosmetic submit delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules with time.AfterFunc. Callbacks run on their own
// goroutine and take the engine lock.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler queues tasks until RunPending is called. Hosts that step
// through the wizard deterministically (tests, MCP tools) use it.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	s     *ManualScheduler
	delay time.Duration
	f     func()
	done  bool
}

// Stop implements Timer.
func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// AfterFunc implements Scheduler. The delay is recorded but not waited for.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, delay: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of tasks that are scheduled and not stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// RunPending runs every task queued so far, in scheduling order, and returns
// how many ran. Tasks scheduled by those callbacks wait for the next call.
func (s *ManualScheduler) RunPending() int {
	s.mu.Lock()
	batch := s.tasks
	s.tasks = nil
	var due []*manualTask
	for _, t := range batch {
		if !t.done {
			t.done = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}
