package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/streaknest/internal/store"
	"github.com/sadopc/streaknest/internal/tracker"
)

var monday = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestTracker(t *testing.T, slots tracker.Slots) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(slots,
		tracker.WithClock(func() time.Time { return monday }),
		tracker.WithDebounce(0),
	)
	if err := tr.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return tr
}

func newTestApp(t *testing.T) (App, *tracker.Tracker, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	app := NewApp(tr, s, themeDark)
	app.width = 120
	app.height = 40
	app = feed(app, refresh(tr))
	t.Cleanup(func() { applyTheme(themeDark) })
	return app, tr, s
}

// collect runs cmd and flattens batches. Only use it on commands that do
// not sleep (no ticks, no form init).
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func feed(a App, cmd tea.Cmd) App {
	for _, msg := range collect(cmd) {
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func press(a App, k tea.KeyMsg) (App, tea.Cmd) {
	m, cmd := a.Update(k)
	return m.(App), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

type brokenSlots struct{}

func (brokenSlots) Get(string) (string, error) { return "", store.ErrSlotNotFound }
func (brokenSlots) Set(string, string) error   { return errors.New("disk full") }
func (brokenSlots) Delete(string) error        { return nil }

// ============================================================
// Toasts
// ============================================================

func TestToastPushAndExpire(t *testing.T) {
	tm := newToastModel()
	tm.ttl = time.Millisecond

	cmd := tm.push("Monday Read", "Complete read on Monday")
	if !tm.active() {
		t.Fatal("toast should be active after push")
	}

	msg, ok := cmd().(toastExpiredMsg)
	if !ok {
		t.Fatal("push should schedule a toastExpiredMsg")
	}
	tm.expire(msg.id)
	if tm.active() {
		t.Fatal("toast should be gone after expiry")
	}
}

func TestToastExpireOnlyMatchingID(t *testing.T) {
	tm := newToastModel()
	tm.push("a", "")
	tm.push("b", "")

	tm.expire(1)
	if len(tm.queue) != 1 || tm.queue[0].title != "b" {
		t.Fatalf("expected only b left, got %+v", tm.queue)
	}
	tm.expire(42)
	if len(tm.queue) != 1 {
		t.Fatal("unknown id should be ignored")
	}
}

func TestToastView(t *testing.T) {
	tm := newToastModel()
	if tm.view(80) != "" {
		t.Fatal("empty queue should render nothing")
	}
	tm.push("Monday Read", "Complete read on Monday")
	if !strings.Contains(tm.view(80), "Monday Read") {
		t.Fatal("toast view should contain title")
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestProgressBar(t *testing.T) {
	tests := []struct {
		p      float64
		filled int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{3, 10},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := progressBar(tt.p, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Fatalf("progressBar(%v) filled = %d, want %d", tt.p, got, tt.filled)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.filled {
			t.Fatalf("progressBar(%v) empty = %d, want %d", tt.p, got, 10-tt.filled)
		}
	}
	if progressBar(0.5, 0) != "" {
		t.Fatal("zero width should render nothing")
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct{ cursor, n, want int }{
		{0, 0, 0},
		{5, 3, 2},
		{1, 3, 1},
		{-1, 3, 0},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.n); got != tt.want {
			t.Fatalf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
		}
	}
}

func TestExportTo(t *testing.T) {
	_, tr, _ := newTestApp(t)
	dir := t.TempDir()

	csvPath, err := exportTo(tr.Habits(), dir, 0, monday)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(csvPath) != "streaknest-export-2024-01-01.csv" {
		t.Fatalf("unexpected csv path %s", csvPath)
	}

	jsonPath, err := exportTo(tr.Habits(), dir, 1, monday)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Fatalf("json export missing: %v", err)
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 3 {
		t.Fatalf("expected 3 views, got %d", len(viewNames))
	}
	if viewNames[viewHabits] != "Habits" || viewNames[viewSettings] != "Settings" {
		t.Fatal("view names out of order")
	}
}

// ============================================================
// Habits view
// ============================================================

func TestHabitsViewListsSeeds(t *testing.T) {
	app, _, _ := newTestApp(t)

	out := app.habits.view()
	for _, name := range []string{"Drink Water", "Exercise", "Read"} {
		if !strings.Contains(out, name) {
			t.Fatalf("habits view missing %q", name)
		}
	}
	if !strings.Contains(out, "0/8 glasses") {
		t.Fatal("habits view should show count/goal")
	}
}

func TestHabitsTrackKey(t *testing.T) {
	app, tr, _ := newTestApp(t)

	app, cmd := press(app, spaceKey)
	h, _ := tr.Get("1")
	if h.Count != 1 || h.Streak != 1 {
		t.Fatalf("expected count 1 streak 1, got %d/%d", h.Count, h.Streak)
	}

	var toasts []toastMsg
	for _, msg := range collect(cmd) {
		if tm, ok := msg.(toastMsg); ok {
			toasts = append(toasts, tm)
		}
	}
	if len(toasts) != 1 || toasts[0].title != "Monday Drink Water" {
		t.Fatalf("expected one Monday toast, got %+v", toasts)
	}

	// Second increment on the same day unlocks nothing new.
	_, cmd = press(app, spaceKey)
	for _, msg := range collect(cmd) {
		if _, ok := msg.(toastMsg); ok {
			t.Fatal("no toast expected on second increment")
		}
	}
}

func TestHabitsCursorMovement(t *testing.T) {
	app, tr, _ := newTestApp(t)

	app, _ = press(app, runes("j"))
	app, _ = press(app, runes("j"))
	app, _ = press(app, runes("j")) // stays on last
	if app.habits.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", app.habits.cursor)
	}

	press(app, spaceKey)
	if h, _ := tr.Get("3"); h.Count != 1 {
		t.Fatal("space should track the selected habit")
	}
}

func TestHabitsResetKeys(t *testing.T) {
	app, tr, _ := newTestApp(t)
	tr.Increment("1")
	tr.Increment("2")

	app, cmd := press(app, runes("r"))
	app = feed(app, cmd)
	if h, _ := tr.Get("1"); h.Count != 0 || h.Streak != 0 {
		t.Fatal("r should reset the selected habit")
	}
	if h, _ := tr.Get("2"); h.Count != 1 {
		t.Fatal("r should not touch other habits")
	}
	if app.status != "Reset Drink Water" {
		t.Fatalf("status = %q", app.status)
	}

	press(app, runes("R"))
	if h, _ := tr.Get("2"); h.Streak != 0 {
		t.Fatal("R should reset every habit")
	}
}

func TestHabitsFormsOpenAndCancel(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, k := range []struct {
		key   string
		title string
	}{
		{"n", "New Habit"},
		{"e", "Edit Habit"},
		{"d", "Delete Habit"},
	} {
		app, _ = press(app, runes(k.key))
		if !app.isFormActive() {
			t.Fatalf("%s should open a form", k.key)
		}
		if !strings.Contains(app.habits.view(), k.title) {
			t.Fatalf("%s form should be titled %q", k.key, k.title)
		}
		app, _ = press(app, tea.KeyMsg{Type: tea.KeyEsc})
		if app.isFormActive() {
			t.Fatal("esc should close the form")
		}
	}
}

func TestHabitsEditPrefillsFields(t *testing.T) {
	app, _, _ := newTestApp(t)

	app, _ = press(app, runes("e"))
	if *app.habits.formName != "Drink Water" || *app.habits.formGoal != "8" || *app.habits.formUnit != "glasses" {
		t.Fatalf("edit form not prefilled: %q %q %q", *app.habits.formName, *app.habits.formGoal, *app.habits.formUnit)
	}
	if app.habits.editingID != "1" {
		t.Fatalf("editingID = %q", app.habits.editingID)
	}
}

func TestValidateNameAndGoal(t *testing.T) {
	if validateName("  ") == nil {
		t.Fatal("blank name should fail")
	}
	if validateName("Walk") != nil {
		t.Fatal("name should pass")
	}
	for _, bad := range []string{"", "0", "-2", "abc"} {
		if validateGoal(bad) == nil {
			t.Fatalf("goal %q should fail", bad)
		}
	}
	if validateGoal(" 5 ") != nil {
		t.Fatal("goal 5 should pass")
	}
}

// ============================================================
// Achievements view
// ============================================================

func TestAchievementsView(t *testing.T) {
	app, tr, _ := newTestApp(t)
	tr.Increment("1")
	app = feed(app, refresh(tr))

	out := app.achievements.view()
	if !strings.Contains(out, "1/8 unlocked") {
		t.Fatal("achievements view should count unlocked entries")
	}
	if !strings.Contains(out, "Drink Water Master") {
		t.Fatal("achievements view should list the month achievement")
	}

	app.activeView = viewAchievements
	app, _ = press(app, runes("l"))
	if !strings.Contains(app.achievements.view(), "Exercise") {
		t.Fatal("right should move to the next habit")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsToggleTheme(t *testing.T) {
	app, _, s := newTestApp(t)
	app.activeView = viewSettings

	app, cmd := press(app, runes("t"))
	app = feed(app, cmd)
	if app.settings.theme != themeLight {
		t.Fatalf("theme = %q, want light", app.settings.theme)
	}
	v, err := s.Get(store.KeyTheme)
	if err != nil || v != themeLight {
		t.Fatalf("theme slot = %q, %v", v, err)
	}
	if app.status != "Theme: light" {
		t.Fatalf("status = %q", app.status)
	}
}

func TestNewAppUsesStoredTheme(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set(store.KeyTheme, themeLight); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { applyTheme(themeDark) })

	app := NewApp(newTestTracker(t, s), s, themeDark)
	if app.settings.theme != themeLight {
		t.Fatalf("theme = %q, want light", app.settings.theme)
	}
}

func TestSettingsSaveReminder(t *testing.T) {
	app, tr, _ := newTestApp(t)
	sm := app.settings
	sm.editingID = "2"
	*sm.reminderOn = true
	*sm.reminderStart = "09:00"
	*sm.reminderEnd = "17:00"
	*sm.reminderInterval = "90"

	collect(sm.saveReminder())

	h, _ := tr.Get("2")
	if !h.ReminderEnabled || h.ReminderStart != "09:00" || h.ReminderEnd != "17:00" || h.ReminderInterval != 90 {
		t.Fatalf("reminder not saved: %+v", h)
	}
}

func TestSettingsSaveReminderInvalid(t *testing.T) {
	app, tr, _ := newTestApp(t)
	sm := app.settings
	sm.editingID = "2"
	*sm.reminderOn = true
	*sm.reminderStart = "18:00"
	*sm.reminderEnd = "08:00"
	*sm.reminderInterval = "30"

	msgs := collect(sm.saveReminder())
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if st, ok := msgs[0].(statusMsg); !ok || !st.isError {
		t.Fatalf("expected error status, got %+v", msgs[0])
	}
	if h, _ := tr.Get("2"); h.ReminderEnabled {
		t.Fatal("invalid reminder should not be saved")
	}
}

func TestSettingsViewShowsStorage(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = feed(app, app.settings.refreshSlots())

	out := app.settings.view()
	if !strings.Contains(out, "Storage") || !strings.Contains(out, "theme") {
		t.Fatal("settings view should list stored slots")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.activeView != viewHabits {
		t.Fatal("default view should be habits")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if len(app.habits.habits) != 3 {
		t.Fatalf("expected 3 seeded habits, got %d", len(app.habits.habits))
	}
}

func TestAppViewStates(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, v := range []viewState{viewHabits, viewAchievements, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, want := range []viewState{viewAchievements, viewSettings, viewHabits} {
		app, _ = press(app, tea.KeyMsg{Type: tea.KeyTab})
		if app.activeView != want {
			t.Fatalf("activeView = %d, want %d", app.activeView, want)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _, _ := newTestApp(t)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(newTestTracker(t, s), s, themeDark)
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.status = "test status"

	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppFooterShowsPersistenceError(t *testing.T) {
	tr := newTestTracker(t, brokenSlots{})
	app := NewApp(tr, nil, themeDark)
	app.width = 160
	app.height = 40

	if strings.Contains(app.renderFooter(), "not saved") {
		t.Fatal("no banner before a failed write")
	}
	tr.Increment("1")
	if !strings.Contains(app.renderFooter(), "changes not saved") {
		t.Fatal("footer should show the persistence error")
	}
}

func TestAppToastLifecycle(t *testing.T) {
	app, _, _ := newTestApp(t)

	m, cmd := app.Update(toastMsg{title: "Monday Read", description: "Complete read on Monday"})
	app = m.(App)
	if cmd == nil || !app.toasts.active() {
		t.Fatal("toastMsg should queue a toast with an expiry command")
	}
	if !strings.Contains(app.View(), "Monday Read") {
		t.Fatal("view should render the toast")
	}

	m, _ = app.Update(toastExpiredMsg{id: app.toasts.queue[0].id})
	app = m.(App)
	if app.toasts.active() {
		t.Fatal("toast should be dismissed on expiry")
	}
}

func TestAppExportPicker(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.exportDir = t.TempDir()

	app, _ = press(app, runes("x"))
	if !app.exportPicking {
		t.Fatal("x should open the export picker")
	}
	app, _ = press(app, runes("j"))
	app, cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	app = feed(app, cmd)

	want := filepath.Join(app.exportDir, "streaknest-export-"+time.Now().Format("2006-01-02")+".json")
	if app.status != "Exported to "+want {
		t.Fatalf("status = %q", app.status)
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestApplyThemeFallsBack(t *testing.T) {
	t.Cleanup(func() { applyTheme(themeDark) })

	if got := applyTheme("solarized"); got != themeDark {
		t.Fatalf("unknown theme applied as %q", got)
	}
	if got := applyTheme(themeLight); got != themeLight {
		t.Fatalf("light applied as %q", got)
	}
	if otherTheme(themeLight) != themeDark || otherTheme(themeDark) != themeLight {
		t.Fatal("otherTheme should toggle")
	}
}

func TestStylesRender(t *testing.T) {
	t.Cleanup(func() { applyTheme(themeDark) })

	for _, theme := range []string{themeDark, themeLight} {
		applyTheme(theme)
		styles := []struct {
			name string
			fn   func() string
		}{
			{"activeTab", func() string { return activeTabStyle.Render("test") }},
			{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
			{"panel", func() string { return panelStyle.Render("test") }},
			{"activePanel", func() string { return activePanelStyle.Render("test") }},
			{"toast", func() string { return toastStyle.Render("test") }},
			{"title", func() string { return titleStyle.Render("test") }},
			{"subtitle", func() string { return subtitleStyle.Render("test") }},
			{"accent", func() string { return accentStyle.Render("test") }},
			{"success", func() string { return successStyle.Render("test") }},
			{"warning", func() string { return warningStyle.Render("test") }},
			{"error", func() string { return errorStyle.Render("test") }},
			{"muted", func() string { return mutedStyle.Render("test") }},
			{"highlight", func() string { return highlightStyle.Render("test") }},
			{"banner", func() string { return bannerStyle.Render("test") }},
			{"header", func() string { return headerStyle.Render("test") }},
			{"footer", func() string { return footerStyle.Render("test") }},
			{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
			{"normalItem", func() string { return normalItemStyle.Render("test") }},
		}

		for _, s := range styles {
			if s.fn() == "" {
				t.Fatalf("%s: style %q rendered empty", theme, s.name)
			}
		}
	}
}
