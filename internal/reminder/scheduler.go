package reminder

import (
	"sync"
	"time"

	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/logger"
)

// Notifier receives fired reminders.
type Notifier interface {
	Notify(title, description string)
}

type timer interface {
	Stop() bool
}

type handle struct {
	timer timer
	gen   uint64
}

// Scheduler keeps at most one armed reminder per habit. Scheduling a habit
// again cancels its previous handle before arming the next one.
type Scheduler struct {
	mu      sync.Mutex
	handles map[string]handle
	gen     uint64
	stopped bool

	notifier  Notifier
	now       func() time.Time
	afterFunc func(time.Duration, func()) timer
}

func NewScheduler(n Notifier) *Scheduler {
	return &Scheduler{
		handles:  make(map[string]handle),
		notifier: n,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Schedule cancels any handle for h and arms the next reminder. It reports
// whether a reminder was armed.
func (s *Scheduler) Schedule(h habit.Habit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleLocked(h.Clone())
}

func (s *Scheduler) scheduleLocked(h habit.Habit) bool {
	s.cancelLocked(h.ID)
	if s.stopped {
		return false
	}
	now := s.now()
	at, ok := Next(h, now)
	if !ok {
		return false
	}
	s.gen++
	gen := s.gen
	t := s.afterFunc(at.Sub(now), func() { s.fire(h, gen) })
	s.handles[h.ID] = handle{timer: t, gen: gen}
	logger.Debug("reminder armed", "habit", h.ID, "at", at.Format(time.RFC3339))
	return true
}

func (s *Scheduler) fire(h habit.Habit, gen uint64) {
	if !s.current(h.ID, gen) {
		return
	}

	title, body := Message(h)
	logger.Info("reminder fired", "habit", h.ID)
	if s.notifier != nil {
		s.notifier.Notify(title, body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A Cancel or Schedule during delivery wins over re-arming.
	if cur, ok := s.handles[h.ID]; ok && cur.gen == gen {
		s.scheduleLocked(h)
	}
}

func (s *Scheduler) current(id string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.handles[id]
	return ok && cur.gen == gen
}

// Cancel disarms the reminder for id, reporting whether one was armed.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(id)
}

func (s *Scheduler) cancelLocked(id string) bool {
	cur, ok := s.handles[id]
	if !ok {
		return false
	}
	cur.timer.Stop()
	delete(s.handles, id)
	return true
}

// Sync schedules every habit in habits and cancels handles for habits that
// are no longer present.
func (s *Scheduler) Sync(habits []habit.Habit) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := make(map[string]bool, len(habits))
	armed := 0
	for _, h := range habits {
		keep[h.ID] = true
		if s.scheduleLocked(h.Clone()) {
			armed++
		}
	}
	for id := range s.handles {
		if !keep[id] {
			s.cancelLocked(id)
		}
	}
	return armed
}

// Armed reports how many reminders are pending.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Stop cancels everything; later Schedule calls are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.handles {
		s.cancelLocked(id)
	}
	s.stopped = true
}
