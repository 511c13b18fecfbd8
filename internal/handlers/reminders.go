package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"wellness-diary/internal/models"
	"wellness-diary/internal/storage"
)

var timeRx = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ReminderHandler struct {
	DB *storage.DB
}

func NewReminderHandler(db *storage.DB) *ReminderHandler {
	return &ReminderHandler{DB: db}
}

type reminderRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Time        string   `json:"time"`
	Days        []string `json:"days"`
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.DB.ListReminders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch reminders")
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if !timeRx.MatchString(req.Time) {
		writeError(w, http.StatusBadRequest, "Time must be HH:MM")
		return
	}
	if req.Category == "" {
		req.Category = models.CategoryOther
	}
	if len(req.Days) == 0 {
		req.Days = []string{models.DayDaily}
	}

	reminder := models.Reminder{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Time:        req.Time,
		Days:        req.Days,
		IsActive:    true,
	}
	if err := h.DB.CreateReminder(&reminder); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create reminder")
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	reminder, err := h.DB.GetReminder(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch reminder")
		return
	}
	if reminder == nil {
		writeError(w, http.StatusNotFound, "Reminder not found")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	reminder, err := h.DB.GetReminder(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update reminder")
		return
	}
	if reminder == nil {
		writeError(w, http.StatusNotFound, "Reminder not found")
		return
	}

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !timeRx.MatchString(req.Time) {
		writeError(w, http.StatusBadRequest, "Time must be HH:MM")
		return
	}

	reminder.Title = req.Title
	reminder.Description = req.Description
	reminder.Category = req.Category
	reminder.Time = req.Time
	reminder.Days = req.Days
	if err := h.DB.UpdateReminder(reminder); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update reminder")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

// Toggle flips or sets the active flag, the one PATCH the UI needs.
func (h *ReminderHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	reminder, err := h.DB.GetReminder(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update reminder")
		return
	}
	if reminder == nil {
		writeError(w, http.StatusNotFound, "Reminder not found")
		return
	}

	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	active := !reminder.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := h.DB.SetReminderActive(reminder.ID, active); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update reminder")
		return
	}
	reminder.IsActive = active
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.DeleteReminder(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete reminder")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
