package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"wellness-diary/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// ---------- settings --------------------------------------------------------

// GetSettings returns the singleton settings row, creating it with defaults
// on first read.
func (d *DB) GetSettings() (*models.Settings, error) {
	var s models.Settings
	err := d.QueryRow(`
        SELECT id, phone_number, notifications_enabled, analysis_frequency
        FROM settings LIMIT 1`,
	).Scan(&s.ID, &s.PhoneNumber, &s.NotificationsEnabled, &s.AnalysisFrequency)

	if errors.Is(err, sql.ErrNoRows) {
		s = models.Settings{
			ID:                uuid.NewString(),
			AnalysisFrequency: models.FrequencyDaily,
		}
		_, err = d.Exec(`
            INSERT INTO settings (id, phone_number, notifications_enabled, analysis_frequency)
            VALUES (?,?,?,?)`,
			s.ID, s.PhoneNumber, s.NotificationsEnabled, s.AnalysisFrequency)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *DB) UpdateSettings(s *models.Settings) error {
	_, err := d.Exec(`
        UPDATE settings SET phone_number=?, notifications_enabled=?, analysis_frequency=?
        WHERE id=?`,
		s.PhoneNumber, s.NotificationsEnabled, s.AnalysisFrequency, s.ID)
	return err
}

// ---------- reminders -------------------------------------------------------

const reminderCols = `id, title, description, category, time, days, is_active, last_sent_at, created_at`

func scanReminder(row interface{ Scan(...any) error }) (*models.Reminder, error) {
	var r models.Reminder
	var days string
	var lastSent sql.NullInt64
	var created int64
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Category, &r.Time,
		&days, &r.IsActive, &lastSent, &created)
	if err != nil {
		return nil, err
	}
	// A days payload that does not parse leaves Days empty, so the reminder
	// never matches.
	_ = json.Unmarshal([]byte(days), &r.Days)
	if lastSent.Valid {
		t := time.Unix(lastSent.Int64, 0)
		r.LastSentAt = &t
	}
	r.CreatedAt = time.Unix(created, 0)
	return &r, nil
}

func (d *DB) CreateReminder(r *models.Reminder) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	days, err := json.Marshal(r.Days)
	if err != nil {
		return err
	}
	_, err = d.Exec(`
        INSERT INTO reminders (`+reminderCols+`)
        VALUES (?,?,?,?,?,?,?,?,?)`,
		r.ID, r.Title, r.Description, r.Category, r.Time, string(days),
		r.IsActive, lastSentUnix(r.LastSentAt), r.CreatedAt.Unix())
	return err
}

func (d *DB) GetReminder(id string) (*models.Reminder, error) {
	r, err := scanReminder(d.QueryRow(`SELECT `+reminderCols+` FROM reminders WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

func (d *DB) ListReminders() ([]models.Reminder, error) {
	return d.queryReminders(`SELECT ` + reminderCols + ` FROM reminders ORDER BY is_active DESC, time ASC`)
}

// ListDueReminders returns active reminders whose wall-clock time equals
// timeOfDay ("HH:MM"). Weekday filtering is the evaluator's job.
func (d *DB) ListDueReminders(timeOfDay string) ([]models.Reminder, error) {
	return d.queryReminders(`SELECT `+reminderCols+` FROM reminders WHERE is_active=1 AND time=?`, timeOfDay)
}

func (d *DB) queryReminders(query string, args ...any) ([]models.Reminder, error) {
	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *r)
	}
	return res, rows.Err()
}

func (d *DB) UpdateReminder(r *models.Reminder) error {
	days, err := json.Marshal(r.Days)
	if err != nil {
		return err
	}
	_, err = d.Exec(`
        UPDATE reminders SET title=?, description=?, category=?, time=?, days=?, is_active=?
        WHERE id=?`,
		r.Title, r.Description, r.Category, r.Time, string(days), r.IsActive, r.ID)
	return err
}

func (d *DB) SetReminderActive(id string, active bool) error {
	_, err := d.Exec(`UPDATE reminders SET is_active=? WHERE id=?`, active, id)
	return err
}

// MarkReminderSent records a successful dispatch. The next run reads the new
// last_sent_at back before deciding to send again.
func (d *DB) MarkReminderSent(id string, at time.Time) error {
	_, err := d.Exec(`UPDATE reminders SET last_sent_at=? WHERE id=?`, at.Unix(), id)
	return err
}

func (d *DB) DeleteReminder(id string) error {
	_, err := d.Exec(`DELETE FROM reminders WHERE id=?`, id)
	return err
}

func lastSentUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// ---------- journal entries -------------------------------------------------

const entryCols = `id, date, mood, energy, anxiety, sleep, content, notes, ai_analysis, ai_analyzed_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.JournalEntry, error) {
	var e models.JournalEntry
	var date int64
	var sleep sql.NullFloat64
	var analyzed sql.NullInt64
	err := row.Scan(&e.ID, &date, &e.Mood, &e.Energy, &e.Anxiety, &sleep,
		&e.Content, &e.Notes, &e.AiAnalysis, &analyzed)
	if err != nil {
		return nil, err
	}
	e.Date = time.Unix(date, 0)
	if sleep.Valid {
		e.Sleep = &sleep.Float64
	}
	if analyzed.Valid {
		t := time.Unix(analyzed.Int64, 0)
		e.AiAnalyzedAt = &t
	}
	return &e, nil
}

func (d *DB) CreateEntry(e *models.JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	var sleep any
	if e.Sleep != nil {
		sleep = *e.Sleep
	}
	_, err := d.Exec(`
        INSERT INTO journal_entries (id, date, mood, energy, anxiety, sleep, content, notes)
        VALUES (?,?,?,?,?,?,?,?)`,
		e.ID, e.Date.Unix(), e.Mood, e.Energy, e.Anxiety, sleep, e.Content, e.Notes)
	return err
}

func (d *DB) GetEntry(id string) (*models.JournalEntry, error) {
	e, err := scanEntry(d.QueryRow(`SELECT `+entryCols+` FROM journal_entries WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (d *DB) ListEntries() ([]models.JournalEntry, error) {
	return d.queryEntries(`SELECT ` + entryCols + ` FROM journal_entries ORDER BY date DESC`)
}

// ListEntriesSince returns entries dated at or after t, oldest first. The
// insight pipeline depends on that ordering.
func (d *DB) ListEntriesSince(t time.Time) ([]models.JournalEntry, error) {
	return d.queryEntries(`SELECT `+entryCols+` FROM journal_entries WHERE date >= ? ORDER BY date ASC`, t.Unix())
}

func (d *DB) queryEntries(query string, args ...any) ([]models.JournalEntry, error) {
	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *e)
	}
	return res, rows.Err()
}

func (d *DB) UpdateEntry(e *models.JournalEntry) error {
	var sleep any
	if e.Sleep != nil {
		sleep = *e.Sleep
	}
	_, err := d.Exec(`
        UPDATE journal_entries SET mood=?, energy=?, anxiety=?, sleep=?, content=?, notes=?
        WHERE id=?`,
		e.Mood, e.Energy, e.Anxiety, sleep, e.Content, e.Notes, e.ID)
	return err
}

// SetEntryAnalysis stores the background reflection produced after a create
// or edit.
func (d *DB) SetEntryAnalysis(id, analysis string, at time.Time) error {
	_, err := d.Exec(`UPDATE journal_entries SET ai_analysis=?, ai_analyzed_at=? WHERE id=?`,
		analysis, at.Unix(), id)
	return err
}

func (d *DB) DeleteEntry(id string) error {
	_, err := d.Exec(`DELETE FROM journal_entries WHERE id=?`, id)
	return err
}

// ---------- ai insights -----------------------------------------------------

const insightCols = `id, type, severity, title, content, suggestions, period_start, period_end, dismissed, created_at`

func scanInsight(row interface{ Scan(...any) error }) (*models.AiInsight, error) {
	var in models.AiInsight
	var suggestions string
	var start, end, created int64
	err := row.Scan(&in.ID, &in.Type, &in.Severity, &in.Title, &in.Content,
		&suggestions, &start, &end, &in.Dismissed, &created)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(suggestions), &in.Suggestions)
	in.PeriodStart = time.Unix(start, 0)
	in.PeriodEnd = time.Unix(end, 0)
	in.CreatedAt = time.Unix(created, 0)
	return &in, nil
}

func (d *DB) CreateInsight(in *models.AiInsight) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	suggestions, err := json.Marshal(in.Suggestions)
	if err != nil {
		return err
	}
	_, err = d.Exec(`
        INSERT INTO ai_insights (`+insightCols+`)
        VALUES (?,?,?,?,?,?,?,?,?,?)`,
		in.ID, in.Type, in.Severity, in.Title, in.Content, string(suggestions),
		in.PeriodStart.Unix(), in.PeriodEnd.Unix(), in.Dismissed, in.CreatedAt.Unix())
	return err
}

func (d *DB) ListInsights() ([]models.AiInsight, error) {
	rows, err := d.Query(`SELECT ` + insightCols + ` FROM ai_insights ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.AiInsight
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *in)
	}
	return res, rows.Err()
}

// HasInsightSince reports whether any insight was created at or after t. The
// daily gate asks this with local midnight.
func (d *DB) HasInsightSince(t time.Time) (bool, error) {
	var n int
	err := d.QueryRow(`SELECT COUNT(1) FROM ai_insights WHERE created_at >= ?`, t.Unix()).Scan(&n)
	return n > 0, err
}

func (d *DB) SetInsightDismissed(id string, dismissed bool) error {
	_, err := d.Exec(`UPDATE ai_insights SET dismissed=? WHERE id=?`, dismissed, id)
	return err
}

func (d *DB) DeleteInsight(id string) error {
	_, err := d.Exec(`DELETE FROM ai_insights WHERE id=?`, id)
	return err
}
