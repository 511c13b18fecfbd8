package storage

import (
	"path/filepath"
	"testing"
	"time"

	"wellness-diary/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettingsLazyCreate(t *testing.T) {
	db := testDB(t)

	s, err := db.GetSettings()
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if s.ID == "" {
		t.Fatal("settings created without id")
	}
	if s.AnalysisFrequency != models.FrequencyDaily {
		t.Fatalf("default frequency = %q", s.AnalysisFrequency)
	}
	if s.NotificationsEnabled || s.PhoneNumber != "" {
		t.Fatal("notifications should default off with no destination")
	}

	again, err := db.GetSettings()
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if again.ID != s.ID {
		t.Fatal("second read created a second settings row")
	}
}

func TestSettingsUpdate(t *testing.T) {
	db := testDB(t)

	s, _ := db.GetSettings()
	s.PhoneNumber = "+15550001111"
	s.NotificationsEnabled = true
	s.AnalysisFrequency = models.FrequencyManual
	if err := db.UpdateSettings(s); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := db.GetSettings()
	if got.PhoneNumber != "+15550001111" || !got.NotificationsEnabled || got.AnalysisFrequency != models.FrequencyManual {
		t.Fatalf("settings after update: %+v", got)
	}
}

func TestReminderRoundTrip(t *testing.T) {
	db := testDB(t)

	r := models.Reminder{
		Title:       "Vitamins",
		Description: "With breakfast",
		Category:    models.CategoryMedication,
		Time:        "08:30",
		Days:        []string{"monday", "thursday"},
		IsActive:    true,
	}
	if err := db.CreateReminder(&r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ID == "" {
		t.Fatal("create left id empty")
	}

	got, err := db.GetReminder(r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("reminder not found")
	}
	if got.Title != r.Title || got.Time != "08:30" || !got.IsActive {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Days) != 2 || got.Days[0] != "monday" {
		t.Fatalf("days round trip: %v", got.Days)
	}
	if got.LastSentAt != nil {
		t.Fatal("new reminder should never have been sent")
	}
}

func TestGetReminderMissing(t *testing.T) {
	db := testDB(t)
	got, err := db.GetReminder("nope")
	if err != nil || got != nil {
		t.Fatalf("missing reminder: got %v, err %v", got, err)
	}
}

func TestListDueReminders(t *testing.T) {
	db := testDB(t)

	mk := func(title, at string, active bool) {
		t.Helper()
		r := models.Reminder{Title: title, Time: at, Days: []string{"daily"}, IsActive: active}
		if err := db.CreateReminder(&r); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("due", "09:00", true)
	mk("wrong time", "09:01", true)
	mk("inactive", "09:00", false)

	due, err := db.ListDueReminders("09:00")
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].Title != "due" {
		t.Fatalf("due reminders = %+v", due)
	}
}

func TestMarkReminderSentReadsBack(t *testing.T) {
	db := testDB(t)

	r := models.Reminder{Title: "x", Time: "09:00", Days: []string{"daily"}, IsActive: true}
	if err := db.CreateReminder(&r); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := db.MarkReminderSent(r.ID, at); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	got, _ := db.GetReminder(r.ID)
	if got.LastSentAt == nil || got.LastSentAt.Unix() != at.Unix() {
		t.Fatalf("last sent read back = %v, want %v", got.LastSentAt, at)
	}
}

func TestListEntriesSinceOrdersOldestFirst(t *testing.T) {
	db := testDB(t)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, offset := range []int{-2, -9, -1} { // days relative to base
		e := models.JournalEntry{
			Date: base.AddDate(0, 0, offset), Mood: 3, Energy: 3, Anxiety: 3,
			Content: "day",
		}
		if err := db.CreateEntry(&e); err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}

	entries, err := db.ListEntriesSince(base.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries inside window, want 2", len(entries))
	}
	if !entries[0].Date.Before(entries[1].Date) {
		t.Fatal("entries not ordered oldest first")
	}
}

func TestSetEntryAnalysis(t *testing.T) {
	db := testDB(t)

	e := models.JournalEntry{Mood: 4, Energy: 3, Anxiety: 2, Content: "good day"}
	if err := db.CreateEntry(&e); err != nil {
		t.Fatalf("create: %v", err)
	}
	at := time.Now()
	if err := db.SetEntryAnalysis(e.ID, "a warm reflection", at); err != nil {
		t.Fatalf("set analysis: %v", err)
	}

	got, _ := db.GetEntry(e.ID)
	if got.AiAnalysis != "a warm reflection" || got.AiAnalyzedAt == nil {
		t.Fatalf("analysis not stored: %+v", got)
	}
}

func TestHasInsightSince(t *testing.T) {
	db := testDB(t)

	noon := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	has, err := db.HasInsightSince(midnight)
	if err != nil {
		t.Fatalf("empty check: %v", err)
	}
	if has {
		t.Fatal("no insights yet, but HasInsightSince says otherwise")
	}

	in := models.AiInsight{
		Type: models.InsightSummary, Severity: models.SeverityInfo,
		Title: "Weekly Check-in", Content: "ok",
		PeriodStart: noon.AddDate(0, 0, -7), PeriodEnd: noon,
		CreatedAt: noon,
	}
	if err := db.CreateInsight(&in); err != nil {
		t.Fatalf("create insight: %v", err)
	}

	if has, _ = db.HasInsightSince(midnight); !has {
		t.Fatal("insight created today not seen by HasInsightSince")
	}
	if has, _ = db.HasInsightSince(noon.Add(time.Hour)); has {
		t.Fatal("future threshold should see nothing")
	}
}

func TestInsightDismissAndDelete(t *testing.T) {
	db := testDB(t)

	in := models.AiInsight{
		Type: models.InsightAlert, Severity: models.SeverityWarning,
		Title: "Anxiety Levels Elevated", Content: "…",
		Suggestions: []string{"breathe"},
		PeriodStart: time.Now().AddDate(0, 0, -7), PeriodEnd: time.Now(),
	}
	if err := db.CreateInsight(&in); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := db.SetInsightDismissed(in.ID, true); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	list, _ := db.ListInsights()
	if len(list) != 1 || !list[0].Dismissed {
		t.Fatalf("insight after dismiss: %+v", list)
	}
	if list[0].Suggestions[0] != "breathe" {
		t.Fatalf("suggestions round trip: %v", list[0].Suggestions)
	}

	if err := db.DeleteInsight(in.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ = db.ListInsights(); len(list) != 0 {
		t.Fatal("insight not deleted")
	}
}
