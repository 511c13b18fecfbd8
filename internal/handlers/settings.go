package handlers

import (
	"encoding/json"
	"net/http"

	"wellness-diary/internal/models"
	"wellness-diary/internal/storage"
)

type SettingsHandler struct {
	DB *storage.DB
}

func NewSettingsHandler(db *storage.DB) *SettingsHandler {
	return &SettingsHandler{DB: db}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.DB.GetSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber          string `json:"phoneNumber"`
		NotificationsEnabled bool   `json:"notificationsEnabled"`
		AnalysisFrequency    string `json:"analysisFrequency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.AnalysisFrequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyManual:
	default:
		writeError(w, http.StatusBadRequest, "Invalid analysis frequency")
		return
	}

	settings, err := h.DB.GetSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	settings.PhoneNumber = req.PhoneNumber
	settings.NotificationsEnabled = req.NotificationsEnabled
	settings.AnalysisFrequency = req.AnalysisFrequency
	if err := h.DB.UpdateSettings(settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
