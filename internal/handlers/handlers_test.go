package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wellness-diary/internal/ai"
	"wellness-diary/internal/cron"
	"wellness-diary/internal/insights"
	"wellness-diary/internal/models"
	"wellness-diary/internal/notify"
	"wellness-diary/internal/storage"
)

func testMux(t *testing.T, secret string) (*http.ServeMux, *storage.DB) {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	analyzer := ai.NewAnalyzer("", "")
	pipeline := &insights.Pipeline{DB: db, Analyzer: analyzer}
	runner := &cron.Runner{
		DB:       db,
		Gateway:  notify.Disabled{},
		Pipeline: pipeline,
		Now:      func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
	}

	journalHandler := NewJournalHandler(db, analyzer)
	reminderHandler := NewReminderHandler(db)
	settingsHandler := NewSettingsHandler(db)
	insightHandler := NewInsightHandler(db, pipeline)
	cronHandler := NewCronHandler(runner, secret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cron", cronHandler.Trigger)
	mux.HandleFunc("POST /api/notifications/check", cronHandler.CheckNotifications)
	mux.HandleFunc("GET /api/journal", journalHandler.List)
	mux.HandleFunc("POST /api/journal", journalHandler.Create)
	mux.HandleFunc("GET /api/journal/{id}", journalHandler.Get)
	mux.HandleFunc("POST /api/reminders", reminderHandler.Create)
	mux.HandleFunc("PATCH /api/reminders/{id}", reminderHandler.Toggle)
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings", settingsHandler.Update)
	mux.HandleFunc("POST /api/insights/generate", insightHandler.Generate)
	return mux, db
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCronRequiresSecret(t *testing.T) {
	mux, _ := testMux(t, "s3cret")

	if rec := do(t, mux, "GET", "/api/cron", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret: status %d", rec.Code)
	}
	wrong := map[string]string{"Authorization": "Bearer nope"}
	if rec := do(t, mux, "GET", "/api/cron", "", wrong); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status %d", rec.Code)
	}

	right := map[string]string{"Authorization": "Bearer s3cret"}
	rec := do(t, mux, "GET", "/api/cron", "", right)
	if rec.Code != http.StatusOK {
		t.Fatalf("correct secret: status %d, body %s", rec.Code, rec.Body)
	}
	var res cron.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Success || res.Results == nil {
		t.Fatalf("result = %+v", res)
	}
}

func TestCronOpenWhenNoSecretConfigured(t *testing.T) {
	mux, _ := testMux(t, "")
	if rec := do(t, mux, "GET", "/api/cron", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestNotificationsCheckDisabled(t *testing.T) {
	mux, _ := testMux(t, "")
	rec := do(t, mux, "POST", "/api/notifications/check", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Notifications not enabled") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestSettingsLazyGetAndUpdate(t *testing.T) {
	mux, _ := testMux(t, "")

	rec := do(t, mux, "GET", "/api/settings", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	var s models.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.AnalysisFrequency != models.FrequencyDaily {
		t.Fatalf("default frequency = %q", s.AnalysisFrequency)
	}

	rec = do(t, mux, "PUT", "/api/settings",
		`{"phoneNumber":"+15550001111","notificationsEnabled":true,"analysisFrequency":"weekly"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: status %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, mux, "PUT", "/api/settings", `{"analysisFrequency":"hourly"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad frequency accepted: status %d", rec.Code)
	}
}

func TestReminderCreateValidation(t *testing.T) {
	mux, db := testMux(t, "")

	if rec := do(t, mux, "POST", "/api/reminders", `{"time":"09:00"}`, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title: status %d", rec.Code)
	}
	if rec := do(t, mux, "POST", "/api/reminders", `{"title":"x","time":"25:00"}`, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad time: status %d", rec.Code)
	}

	rec := do(t, mux, "POST", "/api/reminders", `{"title":"Vitamins","time":"08:30"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body)
	}
	var r models.Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Category != models.CategoryOther {
		t.Fatalf("default category = %q", r.Category)
	}
	if len(r.Days) != 1 || r.Days[0] != models.DayDaily {
		t.Fatalf("default days = %v", r.Days)
	}
	if !r.IsActive {
		t.Fatal("new reminder should start active")
	}

	rec = do(t, mux, "PATCH", "/api/reminders/"+r.ID, `{}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: status %d", rec.Code)
	}
	got, _ := db.GetReminder(r.ID)
	if got.IsActive {
		t.Fatal("toggle without body should flip the flag off")
	}
}

func TestJournalCreateAppliesScaleDefaults(t *testing.T) {
	mux, _ := testMux(t, "")

	rec := do(t, mux, "POST", "/api/journal", `{"content":"long day"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body)
	}
	var e models.JournalEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Mood != 3 || e.Energy != 3 || e.Anxiety != 3 {
		t.Fatalf("scale defaults: %+v", e)
	}
	if e.Date.IsZero() {
		t.Fatal("date should default to now")
	}
}

func TestInsightsGenerateWithoutEntries(t *testing.T) {
	mux, _ := testMux(t, "")

	rec := do(t, mux, "POST", "/api/insights/generate", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No insights generated") {
		t.Fatalf("body = %s", rec.Body)
	}
}
