package handlers

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"time"

	"wellness-diary/internal/cron"
)

// CronHandler exposes the scheduler entrypoint to an external cron caller,
// gated by a static shared secret.
type CronHandler struct {
	Runner *cron.Runner
	Secret string
}

func NewCronHandler(runner *cron.Runner, secret string) *CronHandler {
	return &CronHandler{Runner: runner, Secret: secret}
}

// Trigger runs one scheduler pass. The secret is checked before any work; an
// unset secret leaves the endpoint open, matching a trusted-network deploy.
func (h *CronHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.Secret != "" {
		header := r.Header.Get("Authorization")
		want := "Bearer " + h.Secret
		if subtle.ConstantTimeCompare([]byte(header), []byte(want)) != 1 {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
	}

	res, err := h.Runner.Run()
	if err != nil {
		log.Println("cron: run failed:", err)
		writeError(w, http.StatusInternalServerError, "Cron job failed")
		return
	}
	if res.Results == nil {
		res.Results = []string{}
	}
	writeJSON(w, http.StatusOK, res)
}

// CheckNotifications runs only the reminder sweep, for a manual "fire my
// reminders now" poke from the UI.
func (h *CronHandler) CheckNotifications(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Runner.DB.GetSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check notifications")
		return
	}
	if !settings.NotificationsEnabled || settings.PhoneNumber == "" {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Notifications not enabled"})
		return
	}

	sent, err := h.Runner.CheckReminders(settings, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check notifications")
		return
	}
	if sent == nil {
		sent = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Sent %d notifications", len(sent)),
		"notifications": sent,
	})
}
