package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindly/internal/config"
	"remindly/internal/notify"
	"remindly/internal/reminder"
	"remindly/internal/storage"
	"remindly/internal/view"
)

var now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type memStore struct {
	reminders []reminder.Reminder
	next      int
}

func (m *memStore) FetchReminders(string) ([]reminder.Reminder, error) {
	return append([]reminder.Reminder(nil), m.reminders...), nil
}

func (m *memStore) AddReminder(_ string, r reminder.Reminder) (reminder.Reminder, error) {
	m.next++
	r.ID = fmt.Sprintf("new-%d", m.next)
	m.reminders = append(m.reminders, r)
	return r, nil
}

func (m *memStore) UpdateReminder(_ string, r reminder.Reminder) error {
	for i := range m.reminders {
		if m.reminders[i].ID == r.ID {
			m.reminders[i] = r
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) DeleteReminder(_, id string) error {
	for i := range m.reminders {
		if m.reminders[i].ID == id {
			m.reminders = append(m.reminders[:i], m.reminders[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func day(offset int) time.Time {
	return reminder.Today(now).AddDate(0, 0, offset)
}

func fixture() *memStore {
	return &memStore{reminders: []reminder.Reminder{
		{ID: "passport", Title: "Passport", Date: day(400), Category: "personal"},
		{ID: "rca", Title: "RCA Auto", Date: day(3), Category: "auto", CreatedAt: day(-362)},
		{ID: "itp", Title: "ITP", Date: day(-2), Category: "auto"},
	}}
}

func newModel(t *testing.T, store Store, opts Options) Model {
	t.Helper()
	m, err := New(store, config.Default(), opts)
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	m.refilter()
	return m
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func ids(rs []reminder.Reminder) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestNewUsesDefaultQuery(t *testing.T) {
	m := newModel(t, fixture(), Options{})
	assert.Equal(t, view.FilterAll, m.query.Filter)
	assert.Equal(t, view.SortUrgency, m.query.Sort)
	assert.Equal(t, []string{"rca", "passport", "itp"}, ids(m.items))
}

func TestFilterAndSortCycle(t *testing.T) {
	m := newModel(t, fixture(), Options{})

	m = press(t, m, runes("f"))
	assert.Equal(t, view.FilterUrgent, m.query.Filter)
	assert.Equal(t, []string{"rca"}, ids(m.items))

	m = press(t, m, runes("f"))
	assert.Equal(t, []string{"itp"}, ids(m.items))

	m = press(t, m, runes("s"))
	assert.Equal(t, view.SortDateAsc, m.query.Sort)
}

func TestNextFilterWraps(t *testing.T) {
	cycle := filterCycle()
	assert.Equal(t, cycle[0], nextFilter(cycle[len(cycle)-1]))
	assert.Equal(t, view.FilterUrgent, nextFilter(""))
}

func TestSearchMode(t *testing.T) {
	m := newModel(t, fixture(), Options{})

	m = press(t, m, runes("/"), runes("pass"))
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, []string{"passport"}, ids(m.items))

	m = press(t, m, enter)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "pass", m.query.Search)

	m = press(t, m, runes("/"), esc)
	assert.Empty(t, m.query.Search)
	assert.Len(t, m.items, 3)
}

func TestAddThroughForm(t *testing.T) {
	store := fixture()
	m := newModel(t, store, Options{})

	m = press(t, m, runes("a"), runes("Home insurance"), enter, runes("2024-06-20"), enter, runes("home"), enter)
	m = press(t, m, enter, enter, enter)

	require.Len(t, store.reminders, 4)
	got := store.reminders[3]
	assert.Equal(t, "Home insurance", got.Title)
	assert.Equal(t, "2024-06-20", reminder.FormatDate(got.Date))
	assert.Equal(t, "home", got.Category)
	assert.Equal(t, 7, got.RemindDaysBefore)
	assert.Equal(t, reminder.ForMe, got.ForWhom)

	assert.Equal(t, modeList, m.mode)
	r, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, got.ID, r.ID)
}

func TestFormRejectsBadDate(t *testing.T) {
	store := fixture()
	m := newModel(t, store, Options{})

	m = press(t, m, runes("a"), runes("Visa"), enter, runes("tomorrow"))
	m = press(t, m, enter, enter, enter, enter, enter)

	assert.Len(t, store.reminders, 3)
	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.status, "date invalid")
}

func TestEditKeepsIdentity(t *testing.T) {
	store := fixture()
	m := newModel(t, store, Options{})
	require.Equal(t, "rca", m.items[0].ID)

	m = press(t, m, runes("e"))
	require.Equal(t, modeForm, m.mode)
	m.input.SetValue("RCA Renewed")
	m = press(t, m, enter, enter, enter, enter, enter, enter)

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "RCA Renewed", store.reminders[1].Title)
	assert.Equal(t, "rca", store.reminders[1].ID)
	assert.Equal(t, day(-362), store.reminders[1].CreatedAt)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	store := fixture()
	m := newModel(t, store, Options{})

	m = press(t, m, runes("d"), runes("n"))
	assert.Len(t, store.reminders, 3)

	m = press(t, m, runes("d"), runes("y"))
	assert.Len(t, store.reminders, 2)
	assert.NotContains(t, ids(store.reminders), "rca")
	assert.Len(t, m.items, 2)
}

func TestTemplateQuickAdd(t *testing.T) {
	store := fixture()
	m := newModel(t, store, Options{})

	m = press(t, m, runes("t"))
	require.Equal(t, modeTemplate, m.mode)
	for _, tpl := range m.templates {
		assert.NotEqual(t, "RCA Auto", tpl.Title, "existing titles are not offered")
	}
	first := m.templates[0]

	m = press(t, m, enter)
	assert.Equal(t, modeList, m.mode)
	require.Len(t, store.reminders, 4)
	assert.Equal(t, first.Title, store.reminders[3].Title)
}

func TestExportWritesICS(t *testing.T) {
	dir := t.TempDir()
	m := newModel(t, fixture(), Options{ExportDir: dir})

	m = press(t, m, runes("x"))
	assert.Contains(t, m.status, "Exported")

	matches, err := filepath.Glob(filepath.Join(dir, "*.ics"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:RCA Auto")
}

func TestNotificationsShowBanner(t *testing.T) {
	dedup := notify.NewDeduper(notify.NewMemoryStore(), nil)
	m := newModel(t, fixture(), Options{Dedup: dedup})

	cmd := m.checkNotifications()
	require.NotNil(t, cmd)
	msg, ok := cmd().(notifiedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	require.Len(t, msg.messages, 1)

	next, _ := m.Update(msg)
	m = next.(Model)
	assert.Contains(t, m.View(), "Expires in 3 days")

	again := m.checkNotifications()().(notifiedMsg)
	assert.Empty(t, again.messages, "same day checks stay silent")

	m = press(t, m, esc)
	assert.Empty(t, m.banner)
}

func TestNotificationsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.NotificationsEnabled = false
	m, err := New(fixture(), cfg, Options{Dedup: notify.NewDeduper(notify.NewMemoryStore(), nil)})
	require.NoError(t, err)
	assert.Nil(t, m.checkNotifications())
}

func TestParseFormValidation(t *testing.T) {
	valid := []string{"Passport", "2030-01-02", "", "", "", ""}

	r, err := parseForm(&formState{values: valid})
	require.NoError(t, err)
	assert.Equal(t, reminder.CategoryCustom, r.Category)
	assert.Equal(t, reminder.ForMe, r.ForWhom)

	cases := map[int]string{0: "  ", 1: "2030-13-40", 2: "spaceship", 4: "-3"}
	for field, value := range cases {
		values := append([]string(nil), valid...)
		values[field] = value
		_, err := parseForm(&formState{values: values})
		assert.Error(t, err, "field %d = %q", field, value)
	}
}

func TestViewEmptyCollection(t *testing.T) {
	m := newModel(t, &memStore{}, Options{})
	assert.Contains(t, m.View(), "No reminders yet")
}

func TestTableListsReminders(t *testing.T) {
	out := Table(fixture().reminders, now)
	for _, want := range []string{"TITLE", "Passport", "RCA Auto", "Expired", "3d", "3 days from now", "2 days ago"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}

func TestRelative(t *testing.T) {
	assert.Equal(t, "today", relative(0, now))
	assert.Equal(t, "1 day from now", relative(1, now))
	assert.Equal(t, "2 days ago", relative(-2, now))
}

func TestClampAndWrap(t *testing.T) {
	assert.Equal(t, 0, clampCursor(-1, 3))
	assert.Equal(t, 2, clampCursor(5, 3))
	assert.Equal(t, 0, clampCursor(1, 0))
	assert.Equal(t, 2, wrapIndex(-1, 3))
	assert.Equal(t, 0, wrapIndex(3, 3))
}
