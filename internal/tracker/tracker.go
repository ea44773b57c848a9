package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/logger"
	"github.com/sadopc/streaknest/internal/store"
)

// Slots is the durable key-value store the tracker flushes to.
type Slots interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Notifier receives one call per achievement unlocked by Increment. It is
// called after the state update is committed.
type Notifier interface {
	Notify(title, description string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, description string)

func (f NotifierFunc) Notify(title, description string) { f(title, description) }

type Option func(*Tracker)

// WithClock replaces time.Now for calendar-day decisions.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

// WithDebounce sets the quiet period before a flush. Zero writes on every mutation.
func WithDebounce(d time.Duration) Option {
	return func(t *Tracker) { t.debounce = d }
}

// WithIDGenerator replaces the uuid generator used for new habits.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) { t.newID = gen }
}

// Tracker owns the in-memory habit list and is the only thing that mutates it.
// The in-memory copy is authoritative; the slot store may lag by the debounce window.
type Tracker struct {
	mu      sync.Mutex
	habits  []habit.Habit
	loading bool
	err     error

	// readOnly is set while the stored list could not be read; saving then
	// would overwrite records that were never loaded.
	readOnly bool
	dirty    bool

	saveMu   sync.Mutex
	closed   bool
	slots    Slots
	saver    *debouncer
	debounce time.Duration

	notifier Notifier
	now      func() time.Time
	newID    func() string
}

func New(slots Slots, opts ...Option) *Tracker {
	t := &Tracker{
		slots:   slots,
		loading: true,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(t)
	}
	t.saver = newDebouncer(t.debounce, func() { t.save() })
	return t
}

// ErrNotLoaded is returned by writes while the stored list could not be read.
var ErrNotLoaded = errors.New("stored habits were not loaded, refusing to overwrite them")

// Load reads the habits slot. A missing slot yields the seed set; a corrupt
// slot is deleted and also yields the seed set. Only a failing store read is
// returned as an error. The seed set is still installed in that case but
// writes are refused until a later Load succeeds.
func (t *Tracker) Load() error {
	defer func() {
		t.mu.Lock()
		t.loading = false
		t.mu.Unlock()
	}()

	raw, err := t.slots.Get(store.KeyHabits)
	switch {
	case errors.Is(err, store.ErrSlotNotFound):
		logger.Debug("no persisted habits, using seed set")
		t.install(habit.Defaults())
		return nil
	case err != nil:
		err = fmt.Errorf("load habits: %w", err)
		t.mu.Lock()
		t.habits = habit.Defaults()
		t.readOnly = true
		t.err = err
		t.mu.Unlock()
		return err
	}

	habits, dropped, err := habit.Decode([]byte(raw))
	if err != nil {
		logger.Warn("persisted habits unreadable, resetting", "error", err)
		if derr := t.slots.Delete(store.KeyHabits); derr != nil {
			logger.Error("clear corrupt habits slot", "error", derr)
		}
		t.install(habit.Defaults())
		return nil
	}
	if dropped > 0 {
		logger.Debug("dropped invalid habit records", "count", dropped)
	}
	t.install(habits)
	return nil
}

func (t *Tracker) install(habits []habit.Habit) {
	t.mu.Lock()
	t.habits = habits
	t.dirty = false
	if t.readOnly {
		t.readOnly = false
		t.err = nil
	}
	t.mu.Unlock()
}

// Habits returns a deep copy of the current list.
func (t *Tracker) Habits() []habit.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return habit.CloneAll(t.habits)
}

func (t *Tracker) Get(id string) (habit.Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(id); i >= 0 {
		return t.habits[i].Clone(), true
	}
	return habit.Habit{}, false
}

// Resolve finds a habit by id, then by case-insensitive name.
func (t *Tracker) Resolve(ref string) (habit.Habit, bool) {
	if h, ok := t.Get(ref); ok {
		return h, true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, h := range t.habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			return h.Clone(), true
		}
	}
	return habit.Habit{}, false
}

func (t *Tracker) IsLoading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Err returns the last persistence failure, or nil once a write succeeds.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Today is the calendar day the tracker's clock currently reports.
func (t *Tracker) Today() string {
	return habit.Day(t.now())
}

func (t *Tracker) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

func (t *Tracker) indexOf(id string) int {
	for i := range t.habits {
		if t.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// mutate runs fn under the lock and schedules a flush when fn reports a change.
func (t *Tracker) mutate(fn func() bool) bool {
	t.mu.Lock()
	changed := fn()
	if changed {
		t.dirty = true
	}
	t.mu.Unlock()
	if changed {
		t.saver.Trigger()
	}
	return changed
}

// AddHabit appends a new habit. A blank name is ignored.
func (t *Tracker) AddHabit(name, icon string) (habit.Habit, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return habit.Habit{}, false
	}
	h := habit.New(t.newID(), name, icon)
	t.mutate(func() bool {
		t.habits = append(t.habits, h)
		return true
	})
	logger.Debug("habit added", "id", h.ID, "name", name)
	return h.Clone(), true
}

// Increment records one unit of progress for today and returns the
// achievements it unlocked. Unknown ids are a no-op.
func (t *Tracker) Increment(id string) []habit.Achievement {
	var unlocked []habit.Achievement
	t.mutate(func() bool {
		i := t.indexOf(id)
		if i < 0 {
			return false
		}
		now := t.now()
		today := habit.Day(now)
		h := &t.habits[i]

		if !h.TrackedOn(today) {
			h.Streak++
		}
		h.Count++

		tracked := false
		for j := range h.TrackingData {
			if h.TrackingData[j].Date == today {
				h.TrackingData[j].Count++
				tracked = true
				break
			}
		}
		if !tracked {
			h.TrackingData = append(h.TrackingData, habit.TrackingEntry{Date: today, Count: 1})
		}
		h.LastTracked = &today

		for _, j := range habit.Unlock(h.Achievements, now.Weekday(), h.Streak) {
			unlocked = append(unlocked, h.Achievements[j])
		}
		return true
	})

	for _, a := range unlocked {
		logger.Info("achievement unlocked", "habit", id, "achievement", a.ID)
		if t.notifier != nil {
			t.notifier.Notify(a.Title, a.Description)
		}
	}
	return unlocked
}

// Update replaces the descriptive fields. A blank name or unit, or a goal
// below one, leaves that field unchanged.
func (t *Tracker) Update(id, name string, goal int, unit string) bool {
	return t.mutate(func() bool {
		i := t.indexOf(id)
		if i < 0 {
			return false
		}
		h := &t.habits[i]
		if name = strings.TrimSpace(name); name != "" {
			h.Name = name
		}
		if goal > 0 {
			h.Goal = goal
		}
		if unit = strings.TrimSpace(unit); unit != "" {
			h.Unit = unit
		}
		return true
	})
}

// Delete removes the habit and its achievements.
func (t *Tracker) Delete(id string) bool {
	return t.mutate(func() bool {
		i := t.indexOf(id)
		if i < 0 {
			return false
		}
		t.habits = append(t.habits[:i], t.habits[i+1:]...)
		return true
	})
}

// ResetCount clears counters and tracking history for one habit.
// Achievements keep their achieved flags.
func (t *Tracker) ResetCount(id string) bool {
	return t.mutate(func() bool {
		i := t.indexOf(id)
		if i < 0 {
			return false
		}
		resetProgress(&t.habits[i])
		return true
	})
}

// ResetAllStreaks applies ResetCount to every habit.
func (t *Tracker) ResetAllStreaks() {
	t.mutate(func() bool {
		for i := range t.habits {
			resetProgress(&t.habits[i])
		}
		return len(t.habits) > 0
	})
}

func resetProgress(h *habit.Habit) {
	h.Count = 0
	h.Streak = 0
	h.LastTracked = nil
	h.TrackingData = []habit.TrackingEntry{}
}

// UpdateReminder merges reminder settings.
func (t *Tracker) UpdateReminder(id string, patch habit.ReminderPatch) bool {
	return t.mutate(func() bool {
		i := t.indexOf(id)
		if i < 0 {
			return false
		}
		t.habits[i].ApplyReminder(patch)
		return true
	})
}

// Replace swaps the whole list, used after a validated import.
func (t *Tracker) Replace(habits []habit.Habit) {
	habits = habit.CloneAll(habits)
	t.mutate(func() bool {
		t.habits = habits
		return true
	})
}

// Flush cancels any pending debounced write and writes now.
func (t *Tracker) Flush() error {
	t.saver.Cancel()
	return t.save()
}

// Close cancels the debounce timer, waits for any write already running and
// writes whatever is still unsaved. Later saves are no-ops.
func (t *Tracker) Close() error {
	t.saver.Cancel()
	t.saveMu.Lock()
	defer t.saveMu.Unlock()
	if t.closed {
		return t.Err()
	}
	t.closed = true

	t.mu.Lock()
	dirty := t.dirty
	t.mu.Unlock()
	if !dirty {
		return t.Err()
	}
	return t.saveLocked()
}

func (t *Tracker) save() error {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()
	if t.closed {
		return nil
	}
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	t.mu.Lock()
	if t.readOnly {
		err := t.err
		t.mu.Unlock()
		logger.Warn("skipping save", "error", ErrNotLoaded)
		return fmt.Errorf("%w: %v", ErrNotLoaded, err)
	}
	habits := t.habits
	if habits == nil {
		habits = []habit.Habit{}
	}
	data, err := json.Marshal(habits)
	t.dirty = false
	t.mu.Unlock()
	if err == nil {
		err = t.slots.Set(store.KeyHabits, string(data))
	}
	if err != nil {
		err = fmt.Errorf("save habits: %w", err)
		logger.Error("persist habits", "error", err)
		t.mu.Lock()
		t.dirty = true
		t.mu.Unlock()
	}
	t.setErr(err)
	return err
}
