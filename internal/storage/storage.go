package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"remindly/internal/catalog"
	"remindly/internal/reminder"
)

// ErrNotFound is returned when a reminder id does not exist for the owner.
var ErrNotFound = errors.New("reminder not found")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'custom',
	created_at TEXT DEFAULT NULL
);
CREATE INDEX IF NOT EXISTS reminders_owner_date ON reminders (owner, date);
CREATE TABLE IF NOT EXISTS notified (
	key TEXT PRIMARY KEY,
	ids TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return s.ensureReminderColumns()
}

// ensureReminderColumns adds columns introduced after the first schema.
func (s *Store) ensureReminderColumns() error {
	required := map[string]string{
		"remind_days_before": "ALTER TABLE reminders ADD COLUMN remind_days_before INTEGER NOT NULL DEFAULT 0;",
		"for_whom":           "ALTER TABLE reminders ADD COLUMN for_whom TEXT NOT NULL DEFAULT 'me';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(reminders);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return fmt.Errorf("add column %s: %w", col, err)
		}
	}
	return nil
}

// FetchReminders returns a snapshot of owner's reminders ordered by date.
func (s *Store) FetchReminders(owner string) ([]reminder.Reminder, error) {
	rows, err := s.db.Query(`SELECT id, title, date, notes, category, created_at, remind_days_before, for_whom
FROM reminders WHERE owner = ? ORDER BY date, id;`, owner)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var out []reminder.Reminder
	for rows.Next() {
		var r reminder.Reminder
		var dateStr string
		var createdStr sql.NullString

		if err := rows.Scan(&r.ID, &r.Title, &dateStr, &r.Notes, &r.Category, &createdStr, &r.RemindDaysBefore, &r.ForWhom); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		if parsed, err := reminder.ParseDate(dateStr); err == nil {
			r.Date = parsed
		}
		if createdStr.Valid {
			if parsed, err := time.Parse(time.RFC3339, createdStr.String); err == nil {
				r.CreatedAt = parsed.Local()
			}
		}
		out = append(out, normalize(r))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReminder returns a single reminder of owner.
func (s *Store) GetReminder(owner, id string) (reminder.Reminder, error) {
	all, err := s.FetchReminders(owner)
	if err != nil {
		return reminder.Reminder{}, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return reminder.Reminder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// AddReminder stores r for owner under a new id and returns the stored copy.
// A zero CreatedAt is set to the current time.
func (s *Store) AddReminder(owner string, r reminder.Reminder) (reminder.Reminder, error) {
	if strings.TrimSpace(r.Title) == "" {
		return reminder.Reminder{}, errors.New("title is empty")
	}
	r = normalize(r)
	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO reminders (id, owner, title, date, notes, category, created_at, remind_days_before, for_whom)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		r.ID, owner, r.Title, reminder.FormatDate(r.Date), r.Notes, r.Category,
		formatCreated(r.CreatedAt), r.RemindDaysBefore, r.ForWhom)
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	r.CreatedAt = r.CreatedAt.Truncate(time.Second).Local()
	return r, nil
}

// UpdateReminder overwrites the editable fields of an existing reminder.
func (s *Store) UpdateReminder(owner string, r reminder.Reminder) error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is empty")
	}
	r = normalize(r)
	res, err := s.db.Exec(`UPDATE reminders SET title = ?, date = ?, notes = ?, category = ?, remind_days_before = ?, for_whom = ?
WHERE id = ? AND owner = ?;`,
		r.Title, reminder.FormatDate(r.Date), r.Notes, r.Category, r.RemindDaysBefore, r.ForWhom, r.ID, owner)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return expectRow(res, r.ID)
}

func (s *Store) DeleteReminder(owner, id string) error {
	res, err := s.db.Exec(`DELETE FROM reminders WHERE id = ? AND owner = ?;`, id, owner)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return expectRow(res, id)
}

// DeleteAll removes every reminder of owner and returns how many were removed.
func (s *Store) DeleteAll(owner string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM reminders WHERE owner = ?;`, owner)
	if err != nil {
		return 0, fmt.Errorf("delete reminders: %w", err)
	}
	return res.RowsAffected()
}

// Get returns the notified-id set stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT ids FROM notified WHERE key = ?;`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode notified set %s: %w", key, err)
	}
	return ids, nil
}

// Set overwrites the notified-id set stored under key.
func (s *Store) Set(ctx context.Context, key string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO notified (key, ids) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET ids = excluded.ids;`, key, string(raw))
	return err
}

// normalize applies reminder defaults and files unknown category ids under
// the custom category.
func normalize(r reminder.Reminder) reminder.Reminder {
	r = r.Normalized()
	if !catalog.Known(r.Category) {
		r.Category = reminder.CategoryCustom
	}
	return r
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func formatCreated(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
