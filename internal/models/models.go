package models

import "time"

// Reminder categories.
const (
	CategoryMedication  = "medication"
	CategoryFeeding     = "feeding"
	CategorySelfcare    = "selfcare"
	CategoryAppointment = "appointment"
	CategoryOther       = "other"
)

// DayDaily is the sentinel entry in Reminder.Days meaning "every day".
const DayDaily = "daily"

// Analysis frequencies. "manual" disables the periodic insight run.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyManual = "manual"
)

// Insight types.
const (
	InsightTrend      = "trend"
	InsightAlert      = "alert"
	InsightSuggestion = "suggestion"
	InsightSummary    = "summary"
)

// Insight severities, ordered info < warning < concern.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityConcern = "concern"
)

var severityRank = map[string]int{
	SeverityInfo:    0,
	SeverityWarning: 1,
	SeverityConcern: 2,
}

// SeverityAtLeast reports whether severity a is ordered at or above b.
// Unknown severities rank below info.
func SeverityAtLeast(a, b string) bool {
	ra, ok := severityRank[a]
	if !ok {
		return false
	}
	return ra >= severityRank[b]
}

// Reminder is a recurring wall-clock notification.
type Reminder struct {
	ID          string     `db:"id"           json:"id"`
	Title       string     `db:"title"        json:"title"`
	Description string     `db:"description"  json:"description"`
	Category    string     `db:"category"     json:"category"`
	Time        string     `db:"time"         json:"time"` // "HH:MM"
	Days        []string   `db:"days"         json:"days"` // weekday names or "daily"
	IsActive    bool       `db:"is_active"    json:"isActive"`
	LastSentAt  *time.Time `db:"last_sent_at" json:"lastSentAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at"   json:"createdAt"`
}

// Settings is the singleton configuration record, created lazily on first read.
type Settings struct {
	ID                   string `db:"id"                    json:"id"`
	PhoneNumber          string `db:"phone_number"          json:"phoneNumber"`
	NotificationsEnabled bool   `db:"notifications_enabled" json:"notificationsEnabled"`
	AnalysisFrequency    string `db:"analysis_frequency"    json:"analysisFrequency"`
}

// JournalEntry is a single free-text wellness entry. Mood, energy and anxiety
// are 1–5 scales; sleep is optional hours.
type JournalEntry struct {
	ID           string     `db:"id"             json:"id"`
	Date         time.Time  `db:"date"           json:"date"`
	Mood         int        `db:"mood"           json:"mood"`
	Energy       int        `db:"energy"         json:"energy"`
	Anxiety      int        `db:"anxiety"        json:"anxiety"`
	Sleep        *float64   `db:"sleep"          json:"sleep,omitempty"`
	Content      string     `db:"content"        json:"content"`
	Notes        string     `db:"notes"          json:"notes"`
	AiAnalysis   string     `db:"ai_analysis"    json:"aiAnalysis,omitempty"`
	AiAnalyzedAt *time.Time `db:"ai_analyzed_at" json:"aiAnalyzedAt,omitempty"`
}

// AiInsight is one generated insight. Batches produced by a single pipeline
// run share PeriodStart/PeriodEnd.
type AiInsight struct {
	ID          string    `db:"id"           json:"id"`
	Type        string    `db:"type"         json:"type"`
	Severity    string    `db:"severity"     json:"severity"`
	Title       string    `db:"title"        json:"title"`
	Content     string    `db:"content"      json:"content"`
	Suggestions []string  `db:"suggestions"  json:"suggestions"`
	PeriodStart time.Time `db:"period_start" json:"periodStart"`
	PeriodEnd   time.Time `db:"period_end"   json:"periodEnd"`
	Dismissed   bool      `db:"dismissed"    json:"dismissed"`
	CreatedAt   time.Time `db:"created_at"   json:"createdAt"`
}
