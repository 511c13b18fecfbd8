// Package schedule holds the pure time logic behind reminder dispatch and the
// daily insight gate: exact-minute matching, weekday matching and the one-hour
// resend cooldown.
package schedule

import (
	"strings"
	"time"

	"wellness-diary/internal/models"
)

// Cooldown is the minimum spacing between two sends of the same reminder.
// Ticks arrive every minute, so without it a reminder would fire on every
// tick inside its matching minute.
const Cooldown = time.Hour

// TimeOfDay formats now as "HH:MM", the representation reminders store.
func TimeOfDay(now time.Time) string {
	return now.Format("15:04")
}

// WeekdayName returns the lowercase full English weekday name for now,
// independent of locale.
func WeekdayName(now time.Time) string {
	return strings.ToLower(now.Weekday().String())
}

// Eligible reports whether the reminder is due at now: it must be active, its
// time must equal now truncated to the minute, and its day set must contain
// either the "daily" sentinel or today's weekday. An empty day set never
// matches.
func Eligible(r *models.Reminder, now time.Time) bool {
	if !r.IsActive || r.Time != TimeOfDay(now) {
		return false
	}
	today := WeekdayName(now)
	for _, d := range r.Days {
		if d == models.DayDaily || strings.EqualFold(d, today) {
			return true
		}
	}
	return false
}

// CanSend reports whether a reminder last sent at lastSentAt may be sent
// again at now. A never-sent reminder may always be sent.
func CanSend(lastSentAt *time.Time, now time.Time) bool {
	return lastSentAt == nil || lastSentAt.Before(now.Add(-Cooldown))
}

// StartOfDay returns local midnight of the day containing now.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// AtAnalysisHour reports whether now falls inside the given trigger hour.
func AtAnalysisHour(now time.Time, hour int) bool {
	return now.Hour() == hour
}
