package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wellness-diary/internal/insights"
	"wellness-diary/internal/models"
	"wellness-diary/internal/storage"
)

type InsightHandler struct {
	DB       *storage.DB
	Pipeline *insights.Pipeline
}

func NewInsightHandler(db *storage.DB, pipeline *insights.Pipeline) *InsightHandler {
	return &InsightHandler{DB: db, Pipeline: pipeline}
}

func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.DB.ListInsights()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch insights")
		return
	}
	if list == nil {
		list = []models.AiInsight{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Generate runs the insight pipeline on demand, bypassing the daily gate: a
// manual trigger always regenerates.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	batch, err := h.Pipeline.Generate(time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}
	if len(batch) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No insights generated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  fmt.Sprintf("Generated %d insights", len(batch)),
		"insights": batch,
	})
}

func (h *InsightHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dismissed *bool `json:"dismissed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Dismissed == nil {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	if err := h.DB.SetInsightDismissed(r.PathValue("id"), *req.Dismissed); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update insight")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *InsightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.DeleteInsight(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete insight")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
