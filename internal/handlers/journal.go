package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"wellness-diary/internal/ai"
	"wellness-diary/internal/models"
	"wellness-diary/internal/storage"
)

type JournalHandler struct {
	DB       *storage.DB
	Analyzer *ai.Analyzer
}

func NewJournalHandler(db *storage.DB, analyzer *ai.Analyzer) *JournalHandler {
	return &JournalHandler{DB: db, Analyzer: analyzer}
}

type entryRequest struct {
	Date    *time.Time `json:"date"`
	Mood    int        `json:"mood"`
	Energy  int        `json:"energy"`
	Anxiety int        `json:"anxiety"`
	Sleep   *float64   `json:"sleep"`
	Content string     `json:"content"`
	Notes   string     `json:"notes"`
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.DB.ListEntries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch entries")
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry := models.JournalEntry{
		Mood:    scaleOrDefault(req.Mood),
		Energy:  scaleOrDefault(req.Energy),
		Anxiety: scaleOrDefault(req.Anxiety),
		Sleep:   req.Sleep,
		Content: req.Content,
		Notes:   req.Notes,
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	if err := h.DB.CreateEntry(&entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	go h.reflect(entry)

	writeJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.DB.GetEntry(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	entry, err := h.DB.GetEntry(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry.Mood = scaleOrDefault(req.Mood)
	entry.Energy = scaleOrDefault(req.Energy)
	entry.Anxiety = scaleOrDefault(req.Anxiety)
	entry.Sleep = req.Sleep
	entry.Content = req.Content
	entry.Notes = req.Notes
	if err := h.DB.UpdateEntry(entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	go h.reflect(*entry)

	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.DeleteEntry(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// reflect runs the single-entry reflection in the background after a create
// or edit and stores the result when one comes back.
func (h *JournalHandler) reflect(entry models.JournalEntry) {
	analysis := h.Analyzer.Reflect(&entry)
	if analysis == "" {
		return
	}
	if err := h.DB.SetEntryAnalysis(entry.ID, analysis, time.Now()); err != nil {
		log.Println("journal: failed to store reflection:", err)
	}
}

func scaleOrDefault(v int) int {
	if v < 1 || v > 5 {
		return 3
	}
	return v
}
