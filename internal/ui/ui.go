package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"remindly/internal/calendar"
	"remindly/internal/catalog"
	"remindly/internal/config"
	"remindly/internal/notify"
	"remindly/internal/reminder"
	"remindly/internal/view"
)

// Store is the persistence the UI reads and writes through.
type Store interface {
	FetchReminders(owner string) ([]reminder.Reminder, error)
	AddReminder(owner string, r reminder.Reminder) (reminder.Reminder, error)
	UpdateReminder(owner string, r reminder.Reminder) error
	DeleteReminder(owner, id string) error
}

// Options carries the optional collaborators of the UI.
type Options struct {
	// Dedup enables notifications; nil disables them.
	Dedup *notify.Deduper
	// Deliveries receive notifications in addition to the in-app banner.
	Deliveries []notify.Delivery
	Log        zerolog.Logger
	// ExportDir is where calendar files are written.
	ExportDir string
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeTemplate
)

type loadedMsg struct {
	reminders []reminder.Reminder
	err       error
}

type notifiedMsg struct {
	messages []notify.Message
	err      error
}

type refreshMsg time.Time

type formState struct {
	id        string
	createdAt time.Time
	values    []string
	index     int
}

type Model struct {
	store Store
	cfg   config.Config
	opts  Options
	theme catalog.Theme
	now   func() time.Time

	all        []reminder.Reminder
	items      []reminder.Reminder
	query      view.Query
	cursor     int
	mode       mode
	input      textinput.Model
	bar        progress.Model
	status     string
	banner     []notify.Message
	confirmDel bool
	pendingDel *reminder.Reminder
	form       *formState
	templates  []catalog.Template
	tplCursor  int
}

// New builds the initial model from the stored collection.
func New(store Store, cfg config.Config, opts Options) (Model, error) {
	reminders, err := store.FetchReminders(cfg.User)
	if err != nil {
		return Model{}, err
	}

	theme := catalog.ThemeByID(cfg.Settings.Theme)

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:  store,
		cfg:    cfg,
		opts:   opts,
		theme:  theme,
		now:    time.Now,
		input:  ti,
		bar:    progress.New(progress.WithGradient(theme.Accent, theme.Accent2), progress.WithWidth(16), progress.WithoutPercentage()),
		mode:   modeList,
		status: "Press 'a' to add, 't' for templates, '/' to search.",
		query: view.Query{
			Filter: strings.ToLower(cfg.DefaultFilter),
			Sort:   strings.ToLower(cfg.DefaultSort),
		},
	}
	m.all = reminders
	m.refilter()
	return m, nil
}

// Run starts the interactive program and blocks until it exits.
func Run(store Store, cfg config.Config, opts Options) error {
	m, err := New(store, cfg, opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkNotifications(), m.scheduleRefresh())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.bar.Width = min(max(msg.Width/5, 10), 30)
	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("reload failed: %v", msg.err)
			return m, nil
		}
		m.all = msg.reminders
		m.refilter()
		return m, m.checkNotifications()
	case notifiedMsg:
		if msg.err != nil {
			m.opts.Log.Warn().Err(msg.err).Msg("notification check")
		}
		if len(msg.messages) > 0 {
			m.banner = msg.messages
		}
	case refreshMsg:
		return m, tea.Batch(m.reload(), m.scheduleRefresh())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeForm:
		return m.updateFormMode(key, msg)
	case modeTemplate:
		return m.updateTemplateMode(key)
	}
	return m.updateListMode(key)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.items))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.items))
	case m.cfg.Keys.Cancel:
		m.banner = nil
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search titles"
		m.input.SetValue(m.query.Search)
		m.input.Focus()
		m.status = "Search: type to filter, Enter to keep, Esc to clear"
	case m.cfg.Keys.Filter:
		m.query.Filter = nextFilter(m.query.Filter)
		m.refilter()
		m.status = "Filter: " + filterLabel(m.query.Filter)
	case m.cfg.Keys.Sort:
		m.query.Sort = view.NextSort(m.query.Sort)
		m.refilter()
		m.status = "Sort: " + m.query.Sort
	case m.cfg.Keys.Add:
		return m.startForm(reminder.Reminder{RemindDaysBefore: m.cfg.Settings.DefaultRemindDays, ForWhom: reminder.ForMe})
	case m.cfg.Keys.Edit:
		r, ok := m.selected()
		if !ok {
			m.status = "No reminders to edit"
			return m, nil
		}
		return m.startForm(r)
	case m.cfg.Keys.Template:
		titles := make([]string, 0, len(m.all))
		for _, r := range m.all {
			titles = append(titles, r.Title)
		}
		m.templates = catalog.QuickAdd(titles, m.cfg.Settings.CoupleMode)
		if len(m.templates) == 0 {
			m.status = "Every quick template is already added"
			return m, nil
		}
		m.tplCursor = 0
		m.mode = modeTemplate
		m.status = "Pick a template: Enter to add, Esc to cancel"
	case m.cfg.Keys.Delete:
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &r
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", r.Title)
	case m.cfg.Keys.Detail:
		r, ok := m.selected()
		if !ok {
			m.status = "No reminders"
			return m, nil
		}
		m.status = "Google Calendar: " + calendar.GoogleURL(r)
	case m.cfg.Keys.Export:
		r, ok := m.selected()
		if !ok {
			m.status = "No reminders to export"
			return m, nil
		}
		path, err := exportICS(m.opts.ExportDir, r)
		if err != nil {
			m.status = fmt.Sprintf("export failed: %v", err)
			return m, nil
		}
		m.status = "Exported " + path
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.query.Search = ""
		m.endInput("Search cleared")
	case m.cfg.Keys.Confirm:
		m.endInput(fmt.Sprintf("%d match(es)", len(m.items)))
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.query.Search = m.input.Value()
		m.refilter()
		return m, cmd
	}
	m.refilter()
	return m, nil
}

func (m Model) updateTemplateMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Cancel:
		m.mode = modeList
		m.status = "Cancelled"
	case m.cfg.Keys.Down, "down":
		m.tplCursor = wrapIndex(m.tplCursor+1, len(m.templates))
	case m.cfg.Keys.Up, "up":
		m.tplCursor = wrapIndex(m.tplCursor-1, len(m.templates))
	case m.cfg.Keys.Confirm:
		t := m.templates[clampCursor(m.tplCursor, len(m.templates))]
		added, err := m.store.AddReminder(m.cfg.User, t.Reminder(m.now(), m.cfg.Settings.DefaultRemindDays))
		m.mode = modeList
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.status = "Added " + added.Title
		return m.reloadSelecting(added.ID)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		pending := m.pendingDel
		m.confirmDel = false
		m.pendingDel = nil
		if pending == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		if err := m.store.DeleteReminder(m.cfg.User, pending.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.status = "Deleted " + pending.Title
		return m.reloadSelecting("")
	default:
		return m, nil
	}
}

func (m Model) startForm(r reminder.Reminder) (tea.Model, tea.Cmd) {
	date := ""
	if !r.Date.IsZero() {
		date = reminder.FormatDate(r.Date)
	}
	days := ""
	if r.RemindDaysBefore > 0 {
		days = strconv.Itoa(r.RemindDaysBefore)
	}
	m.form = &formState{
		id:        r.ID,
		createdAt: r.CreatedAt,
		values:    []string{r.Title, date, r.Category, r.Notes, days, r.ForWhom},
	}
	m.mode = modeForm
	m.input.SetValue(m.form.values[0])
	m.input.Placeholder = formFields()[0]
	m.input.Focus()
	m.status = m.formPrompt()
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.form = nil
		m.endInput("Edit cancelled")
		return m, nil
	case "tab", "down":
		m.moveField(1)
		return m, nil
	case "shift+tab", "up":
		m.moveField(-1)
		return m, nil
	case m.cfg.Keys.Confirm:
		m.form.values[m.form.index] = m.input.Value()
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.values[m.form.index] = m.input.Value()
	m.form.index = wrapIndex(m.form.index+delta, len(formFields()))
	m.input.SetValue(m.form.values[m.form.index])
	m.input.Placeholder = formFields()[m.form.index]
	m.status = m.formPrompt()
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	r, err := parseForm(m.form)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	if r.ID == "" {
		added, err := m.store.AddReminder(m.cfg.User, r)
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		r = added
		m.status = "Added " + r.Title
	} else {
		if err := m.store.UpdateReminder(m.cfg.User, r); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.status = "Saved " + r.Title
	}

	m.form = nil
	m.endInput(m.status)
	return m.reloadSelecting(r.ID)
}

func (m *Model) endInput(status string) {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
	m.status = status
}

func formFields() []string {
	return []string{"title", "date (YYYY-MM-DD)", "category", "notes", "remind days before", "for whom (me/partner/both)"}
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		formFields()[m.form.index], m.form.index+1, len(formFields()))
}

func parseForm(f *formState) (reminder.Reminder, error) {
	v := func(i int) string { return strings.TrimSpace(f.values[i]) }

	r := reminder.Reminder{ID: f.id, CreatedAt: f.createdAt, Title: v(0), Notes: v(3)}
	if r.Title == "" {
		return r, errors.New("title cannot be empty")
	}
	date, err := reminder.ParseDate(v(1))
	if err != nil {
		return r, errors.New("date invalid: use YYYY-MM-DD")
	}
	r.Date = date

	r.Category = strings.ToLower(v(2))
	if r.Category != "" && !catalog.Known(r.Category) {
		return r, fmt.Errorf("unknown category %q", r.Category)
	}
	if days := v(4); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return r, fmt.Errorf("remind days invalid: %q", days)
		}
		r.RemindDaysBefore = n
	}
	r.ForWhom = strings.ToLower(v(5))
	return r.Normalized(), nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle(m.theme).Render("⏰ remindly"))
	b.WriteString("  ")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.renderQuery()))
	b.WriteString("\n\n")

	if len(m.banner) > 0 {
		b.WriteString(m.renderBanner())
		b.WriteString("\n")
	}

	switch {
	case len(m.all) == 0:
		b.WriteString("No reminders yet. Press 'a' to add one or 't' for a template.")
	case len(m.items) == 0:
		b.WriteString("Nothing matches the current search and filter.")
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n---\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeSearch:
		b.WriteString(m.input.View())
	case modeTemplate:
		b.WriteString(m.renderTemplates())
	default:
		b.WriteString(m.renderDetailPanel())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s search • %s filter • %s sort • %s add • %s edit • %s template • %s delete • %s export • %s quit",
		k.Up, k.Down, k.Search, k.Filter, k.Sort, k.Add, k.Edit, k.Template, k.Delete, k.Export, k.Quit)
}

func (m Model) renderStats() string {
	s := reminder.Summarize(m.all, m.now())
	return fmt.Sprintf("%d total • %s • %s • %d ok",
		s.Total,
		tierStyles[reminder.TierCritical].Render(fmt.Sprintf("%d urgent", s.Urgent)),
		tierStyles[reminder.TierExpired].Render(fmt.Sprintf("%d expired", s.Expired)),
		s.OK)
}

func (m Model) renderQuery() string {
	out := fmt.Sprintf("filter: %s • sort: %s", filterLabel(m.query.Filter), m.query.Sort)
	if m.query.Search != "" {
		out += fmt.Sprintf(" • search: %q", m.query.Search)
	}
	return out
}

func (m Model) renderBanner() string {
	lines := make([]string, 0, len(m.banner)+1)
	for _, msg := range m.banner {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Title, msg.Body))
	}
	lines = append(lines, mutedStyle.Render(m.cfg.Keys.Cancel+" to dismiss"))
	return bannerStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderList() string {
	now := m.now()
	var b strings.Builder
	for i, r := range m.items {
		d := reminder.DaysUntil(r.Date, now)
		cursor := " "
		title := r.Title
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
			title = selectedStyle.Render(title)
		}
		cat := catalog.Lookup(r.Normalized().Category)
		line := fmt.Sprintf("%s %s %s %s %s  %s  %s",
			cursor,
			badge(reminder.Classify(d)),
			cat.Emoji,
			title,
			mutedStyle.Render(reminder.FormatDate(r.Date)),
			accentStyle(m.theme).Render(relative(d, now)),
			m.bar.ViewAs(reminder.Progress(r.CreatedAt, r.Date, now)/100),
		)
		if m.cfg.Settings.CoupleMode {
			line += " " + forWhomLabel(r.Normalized().ForWhom, m.cfg.Settings.PartnerName)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, emptyPlaceholder(m.form.values[i])))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderTemplates() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Quick add"))
	b.WriteString("\n")
	for i, t := range m.templates {
		cursor := " "
		if i == m.tplCursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %-24s %s\n", cursor, t.Emoji, t.Title, mutedStyle.Render(t.Description)))
	}
	return b.String()
}

func (m Model) renderDetailPanel() string {
	r, ok := m.selected()
	if !ok {
		return "No reminder selected"
	}
	r = r.Normalized()
	now := m.now()
	cat := catalog.Lookup(r.Category)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Title     : %s\n", r.Title))
	b.WriteString(fmt.Sprintf("Expires   : %s (%s)\n", reminder.FormatDate(r.Date), relative(reminder.DaysUntil(r.Date, now), now)))
	b.WriteString(fmt.Sprintf("Category  : %s %s\n", cat.Emoji, cat.Label))
	b.WriteString(fmt.Sprintf("Notes     : %s\n", emptyPlaceholder(r.Notes)))
	b.WriteString(fmt.Sprintf("Remind    : %d days before\n", notify.Threshold(r, m.cfg.Settings.DefaultRemindDays)))
	b.WriteString(fmt.Sprintf("Elapsed   : %.0f%%", reminder.Progress(r.CreatedAt, r.Date, now)))
	if m.cfg.Settings.CoupleMode {
		b.WriteString(fmt.Sprintf("\nFor       : %s", forWhomLabel(r.ForWhom, m.cfg.Settings.PartnerName)))
	}
	return panelStyle.Render(b.String())
}

func (m Model) selected() (reminder.Reminder, bool) {
	if len(m.items) == 0 {
		return reminder.Reminder{}, false
	}
	return m.items[clampCursor(m.cursor, len(m.items))], true
}

func (m *Model) refilter() {
	m.items = view.Apply(m.all, m.query, m.now())
	m.cursor = clampCursor(m.cursor, len(m.items))
}

// reloadSelecting refreshes the collection synchronously, moves the cursor
// to id when it is visible, and schedules a notification check.
func (m Model) reloadSelecting(id string) (tea.Model, tea.Cmd) {
	reminders, err := m.store.FetchReminders(m.cfg.User)
	if err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return m, nil
	}
	m.all = reminders
	m.refilter()
	if id != "" {
		if i := slices.IndexFunc(m.items, func(r reminder.Reminder) bool { return r.ID == id }); i >= 0 {
			m.cursor = i
		}
	}
	return m, m.checkNotifications()
}

func (m Model) reload() tea.Cmd {
	store, owner := m.store, m.cfg.User
	return func() tea.Msg {
		reminders, err := store.FetchReminders(owner)
		return loadedMsg{reminders: reminders, err: err}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	interval := time.Duration(m.cfg.Scheduler.Interval) * time.Second
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// checkNotifications runs the de-duplicated check over the current
// collection and reports what fired back as a notifiedMsg.
func (m Model) checkNotifications() tea.Cmd {
	if m.opts.Dedup == nil || !m.cfg.Settings.NotificationsEnabled {
		return nil
	}
	dedup, log := m.opts.Dedup, m.opts.Log
	now, days := m.now(), m.cfg.Settings.DefaultRemindDays
	snapshot := slices.Clone(m.all)
	deliveries := m.opts.Deliveries
	return func() tea.Msg {
		ctx := context.Background()
		collected := &bannerDelivery{}
		fn := notify.Callback(ctx, log, append([]notify.Delivery{collected}, deliveries...)...)
		_, err := dedup.CheckAndNotify(ctx, now, snapshot, days, fn)
		return notifiedMsg{messages: collected.messages, err: err}
	}
}

// bannerDelivery collects notifications for the in-app banner.
type bannerDelivery struct {
	messages []notify.Message
}

func (b *bannerDelivery) Granted() bool { return true }

func (b *bannerDelivery) Deliver(_ context.Context, msg notify.Message) error {
	b.messages = append(b.messages, msg)
	return nil
}

func exportICS(dir string, r reminder.Reminder) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, calendar.Filename(r))
	if err := os.WriteFile(path, []byte(calendar.ICS(r)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func filterCycle() []string {
	return append([]string{view.FilterAll, view.FilterUrgent, view.FilterExpired}, catalog.FilterIDs()...)
}

func nextFilter(current string) string {
	cycle := filterCycle()
	i := slices.Index(cycle, current)
	return cycle[wrapIndex(i+1, len(cycle))]
}

func filterLabel(f string) string {
	switch f {
	case "", view.FilterAll:
		return "all"
	case view.FilterUrgent, view.FilterExpired:
		return f
	default:
		return catalog.Lookup(f).Label
	}
}

func forWhomLabel(forWhom, partner string) string {
	if partner == "" {
		partner = "partner"
	}
	switch forWhom {
	case reminder.ForPartner:
		return "👤 " + partner
	case reminder.ForBoth:
		return "👥 both"
	default:
		return "🙋 me"
	}
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
