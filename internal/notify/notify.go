// Package notify delivers out-of-band notifications. A Gateway never returns
// an error: every failure, including "not configured", surfaces as false.
package notify

import "log"

type Gateway interface {
	// Send delivers message to the destination and reports success.
	Send(to, message string) bool
	// IsConfigured reports whether the gateway has credentials to send at all.
	IsConfigured() bool
}

// FormatReminder builds the reminder notification text.
func FormatReminder(title, description string) string {
	if description != "" {
		return "🌸 Reminder: " + title + "\n" + description
	}
	return "🌸 Reminder: " + title
}

// FormatInsight builds the insight notification text. The caller is expected
// to pass an already-truncated content excerpt.
func FormatInsight(title, content string) string {
	return "💜 " + title + "\n\n" + content + "\n\nOpen your journal app for more details."
}

// Disabled is the gateway used when no transport is configured. It logs what
// it would have sent and reports failure.
type Disabled struct{}

func (Disabled) Send(to, message string) bool {
	log.Printf("notify: not configured, would send to %s: %q", to, message)
	return false
}

func (Disabled) IsConfigured() bool { return false }
