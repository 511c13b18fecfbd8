// Package cron is the single-pass scheduler entrypoint: one invocation checks
// due reminders, then decides whether today's insight batch is due. All
// idempotence lives in the per-reminder cooldown and the since-midnight
// insight gate, both re-read from storage on every run, so overlapping
// invocations stay safe without locks.
package cron

import (
	"fmt"
	"log"
	"time"

	"wellness-diary/internal/insights"
	"wellness-diary/internal/models"
	"wellness-diary/internal/notify"
	"wellness-diary/internal/schedule"
	"wellness-diary/internal/storage"
)

// DefaultAnalysisHour is when the daily insight batch is generated (8 PM local).
const DefaultAnalysisHour = 20

// InsightExcerptLen caps the insight content sent out-of-band, matching one
// SMS segment.
const InsightExcerptLen = 160

type Runner struct {
	DB       *storage.DB
	Gateway  notify.Gateway
	Pipeline *insights.Pipeline

	// AnalysisHour defaults to DefaultAnalysisHour when zero-valued is not
	// desired; main wires it from config.
	AnalysisHour int

	// Now is the time source, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

// Result is the payload every run returns. Results holds human-readable lines
// in the order the work happened.
type Result struct {
	Success   bool      `json:"success"`
	Results   []string  `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run performs one full scheduler pass: reminder dispatch, then the insight
// due-check and, when due, generation plus alert escalation. Only storage
// failures return an error; collaborator failures fold into the result.
func (r *Runner) Run() (Result, error) {
	now := r.now()
	res := Result{Timestamp: now}

	settings, err := r.DB.GetSettings()
	if err != nil {
		return res, err
	}

	sent, err := r.CheckReminders(settings, now)
	if err != nil {
		return res, err
	}
	for _, title := range sent {
		res.Results = append(res.Results, "Sent reminder: "+title)
	}

	due, err := r.insightsDue(settings, now)
	if err != nil {
		return res, err
	}
	if due {
		batch, err := r.Pipeline.Generate(now)
		if err != nil {
			return res, err
		}
		if len(batch) > 0 {
			res.Results = append(res.Results, fmt.Sprintf("Generated %d insights", len(batch)))
			if r.escalate(settings, batch) {
				res.Results = append(res.Results, "Sent insight notification")
			}
		}
	}

	res.Success = true
	return res, nil
}

// CheckReminders dispatches every reminder eligible at now and returns the
// titles sent. Settings gate the whole sweep: with notifications disabled or
// no destination nothing is attempted. A failed send leaves last_sent_at
// untouched, so the next tick inside the same minute retries.
func (r *Runner) CheckReminders(settings *models.Settings, now time.Time) ([]string, error) {
	if !settings.NotificationsEnabled || settings.PhoneNumber == "" {
		return nil, nil
	}

	reminders, err := r.DB.ListDueReminders(schedule.TimeOfDay(now))
	if err != nil {
		return nil, err
	}

	var sent []string
	for i := range reminders {
		rem := &reminders[i]
		if !schedule.Eligible(rem, now) || !schedule.CanSend(rem.LastSentAt, now) {
			continue
		}
		if !r.Gateway.Send(settings.PhoneNumber, notify.FormatReminder(rem.Title, rem.Description)) {
			continue
		}
		if err := r.DB.MarkReminderSent(rem.ID, now); err != nil {
			return sent, err
		}
		sent = append(sent, rem.Title)
	}
	return sent, nil
}

// insightsDue applies the daily gate: the analysis hour, a non-manual
// frequency setting, and no insight created since local midnight. Checking
// storage instead of a flag keeps repeated ticks within the hour idempotent.
func (r *Runner) insightsDue(settings *models.Settings, now time.Time) (bool, error) {
	hour := r.AnalysisHour
	if hour == 0 {
		hour = DefaultAnalysisHour
	}
	if !schedule.AtAnalysisHour(now, hour) || settings.AnalysisFrequency == models.FrequencyManual {
		return false, nil
	}
	generated, err := r.DB.HasInsightSince(schedule.StartOfDay(now))
	if err != nil {
		return false, err
	}
	return !generated, nil
}

// escalate sends the first warning-or-above insight of the batch out-of-band.
// Gateway failure is logged, never fatal.
func (r *Runner) escalate(settings *models.Settings, batch []models.AiInsight) bool {
	if !settings.NotificationsEnabled || settings.PhoneNumber == "" {
		return false
	}
	in := insights.FirstEscalatable(batch)
	if in == nil {
		return false
	}
	excerpt := in.Content
	if len(excerpt) > InsightExcerptLen {
		excerpt = excerpt[:InsightExcerptLen]
	}
	if !r.Gateway.Send(settings.PhoneNumber, notify.FormatInsight(in.Title, excerpt)) {
		log.Println("cron: insight notification failed")
		return false
	}
	return true
}
