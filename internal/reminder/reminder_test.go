package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/sadopc/streaknest/internal/habit"
)

var morning = time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC)

func reminderHabit(id string) habit.Habit {
	h := habit.New(id, "Water", "droplet")
	h.Goal, h.Unit = 8, "glasses"
	h.ReminderEnabled = true
	h.ReminderStart, h.ReminderEnd, h.ReminderInterval = "08:00", "10:00", 30
	return h
}

// ============================================================
// Times
// ============================================================

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		h, m    int
		wantErr bool
	}{
		{"08:30", 8, 30, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"8", 0, 0, true},
		{"aa:bb", 0, 0, true},
		{"12:60", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (h != tt.h || m != tt.m) {
			t.Errorf("ParseClock(%q) = %d:%d", tt.in, h, m)
		}
	}
}

func TestTimes(t *testing.T) {
	times := Times(morning, "08:00", "10:00", 30)
	if len(times) != 5 {
		t.Fatalf("expected 5 times, got %d", len(times))
	}
	if times[0].Hour() != 8 || times[0].Minute() != 0 {
		t.Fatalf("unexpected first time %v", times[0])
	}
	if last := times[4]; last.Hour() != 10 || last.Minute() != 0 {
		t.Fatalf("end should be inclusive, got %v", last)
	}
}

func TestTimesInvalid(t *testing.T) {
	tests := []struct {
		start, end string
		interval   int
	}{
		{"10:00", "08:00", 30},
		{"08:00", "10:00", 0},
		{"bad", "10:00", 30},
		{"08:00", "", 30},
	}
	for _, tt := range tests {
		if got := Times(morning, tt.start, tt.end, tt.interval); got != nil {
			t.Errorf("Times(%q, %q, %d) = %v, want none", tt.start, tt.end, tt.interval, got)
		}
	}
}

func TestNext(t *testing.T) {
	h := reminderHabit("1")
	at, ok := Next(h, morning)
	if !ok || at.Hour() != 9 || at.Minute() != 30 {
		t.Fatalf("expected 09:30, got %v %v", at, ok)
	}

	late := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	at, ok = Next(h, late)
	if !ok || at.Day() != 2 || at.Hour() != 8 {
		t.Fatalf("expected tomorrow 08:00, got %v %v", at, ok)
	}

	h.ReminderEnabled = false
	if _, ok := Next(h, morning); ok {
		t.Fatal("disabled reminder should not schedule")
	}
}

func TestMessage(t *testing.T) {
	title, body := Message(reminderHabit("1"))
	if title != "Reminder: Water" {
		t.Fatalf("unexpected title %q", title)
	}
	if body != "Time to work on water (goal: 8 glasses)" {
		t.Fatalf("unexpected body %q", body)
	}
}

// ============================================================
// Scheduler
// ============================================================

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

type recorder struct {
	mu     sync.Mutex
	titles []string
}

func (r *recorder) Notify(title, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
}

func newTestScheduler() (*Scheduler, *recorder, *[]*fakeTimer) {
	rec := &recorder{}
	s := NewScheduler(rec)
	s.now = func() time.Time { return morning }
	timers := &[]*fakeTimer{}
	s.afterFunc = func(d time.Duration, fn func()) timer {
		ft := &fakeTimer{d: d, fn: fn}
		*timers = append(*timers, ft)
		return ft
	}
	return s, rec, timers
}

func TestScheduleArmsNextReminder(t *testing.T) {
	s, _, timers := newTestScheduler()
	if !s.Schedule(reminderHabit("1")) {
		t.Fatal("expected reminder armed")
	}
	if len(*timers) != 1 || (*timers)[0].d != 15*time.Minute {
		t.Fatalf("expected one 15m timer, got %+v", *timers)
	}
	if s.Armed() != 1 {
		t.Fatalf("expected 1 armed, got %d", s.Armed())
	}
}

func TestRescheduleCancelsPrevious(t *testing.T) {
	s, rec, timers := newTestScheduler()
	s.Schedule(reminderHabit("1"))
	s.Schedule(reminderHabit("1"))

	if len(*timers) != 2 {
		t.Fatalf("expected 2 timers, got %d", len(*timers))
	}
	if !(*timers)[0].stopped {
		t.Fatal("first handle should be cancelled")
	}
	if s.Armed() != 1 {
		t.Fatalf("expected 1 armed, got %d", s.Armed())
	}

	// A stale callback that races the cancel must not notify.
	(*timers)[0].fn()
	if len(rec.titles) != 0 {
		t.Fatalf("stale handle fired: %v", rec.titles)
	}
}

func TestFireNotifiesAndRearms(t *testing.T) {
	s, rec, timers := newTestScheduler()
	s.Schedule(reminderHabit("1"))
	(*timers)[0].fn()

	if len(rec.titles) != 1 || rec.titles[0] != "Reminder: Water" {
		t.Fatalf("unexpected notifications %v", rec.titles)
	}
	if len(*timers) != 2 || s.Armed() != 1 {
		t.Fatalf("expected re-armed handle, timers=%d armed=%d", len(*timers), s.Armed())
	}
}

func TestScheduleDisabledCancels(t *testing.T) {
	s, _, timers := newTestScheduler()
	h := reminderHabit("1")
	s.Schedule(h)
	h.ReminderEnabled = false
	if s.Schedule(h) {
		t.Fatal("disabled habit should not arm")
	}
	if !(*timers)[0].stopped || s.Armed() != 0 {
		t.Fatal("previous handle should be cancelled")
	}
}

func TestSyncDropsRemovedHabits(t *testing.T) {
	s, _, _ := newTestScheduler()
	s.Sync([]habit.Habit{reminderHabit("1"), reminderHabit("2")})
	if s.Armed() != 2 {
		t.Fatalf("expected 2 armed, got %d", s.Armed())
	}
	if n := s.Sync([]habit.Habit{reminderHabit("2")}); n != 1 {
		t.Fatalf("expected 1 armed by sync, got %d", n)
	}
	if s.Armed() != 1 {
		t.Fatalf("expected removed habit cancelled, got %d armed", s.Armed())
	}
}

func TestCancelAndStop(t *testing.T) {
	s, _, _ := newTestScheduler()
	s.Schedule(reminderHabit("1"))
	if !s.Cancel("1") || s.Cancel("1") {
		t.Fatal("cancel should report once")
	}
	s.Schedule(reminderHabit("2"))
	s.Stop()
	if s.Armed() != 0 {
		t.Fatal("stop should cancel all")
	}
	if s.Schedule(reminderHabit("3")) {
		t.Fatal("schedule after stop should be ignored")
	}
}
