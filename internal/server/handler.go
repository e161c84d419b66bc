package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diario-app/diario/internal/alerts"
	"github.com/diario-app/diario/internal/analytics"
	"github.com/diario-app/diario/internal/model"
	"github.com/diario-app/diario/internal/store"
	"github.com/diario-app/diario/internal/workload"
)

// Handler holds dependencies for the API handlers.
type Handler struct {
	Store      *store.Store
	Detector   *alerts.Detector
	ShortNames map[string]string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleListEvents handles GET /api/events.
func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.Events(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []model.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleListGrades handles GET /api/grades.
func (h *Handler) HandleListGrades(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.Store.Ledger(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ledger == nil {
		ledger = []model.SubjectLedger{}
	}
	writeJSON(w, http.StatusOK, ledger)
}

// HandleListStatuses handles GET /api/status.
func (h *Handler) HandleListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Store.Statuses(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// StatusRequest is the payload for POST /api/status.
type StatusRequest struct {
	EventID   string `json:"event_id"`
	Started   bool   `json:"started"`
	Completed bool   `json:"completed"`
}

// HandleSetStatus handles POST /api/status.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.EventID == "" {
		http.Error(w, "event_id is required", http.StatusBadRequest)
		return
	}
	status := model.TaskStatus{Started: req.Started, Completed: req.Completed}
	if err := h.Store.SetStatus(r.Context(), req.EventID, status); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event_id": req.EventID, "status": status})
}

// TaskRequest is the payload for POST /api/tasks.
type TaskRequest struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Note    string `json:"note"`
}

// HandleCreateTask handles POST /api/tasks.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	ev := model.CalendarEvent{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Kind:        model.KindHomework,
		SubjectHint: strings.TrimSpace(req.Subject),
		Note:        strings.TrimSpace(req.Note),
		IsManual:    true,
	}
	if ev.SubjectHint != "" {
		ev.Author = "COMPITI DI " + strings.ToUpper(ev.SubjectHint)
	}
	if req.Date != "" {
		start, err := parseTaskDate(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		ev.Start = &start
	}

	if err := h.Store.AddManualTask(r.Context(), ev); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// HandleDeleteTask handles DELETE /api/tasks/{id}.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.Store.DeleteManualTask(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTestAlerts handles GET /api/alerts/tests.
func (h *Handler) HandleTestAlerts(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.Events(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ledger, err := h.Store.Ledger(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := h.Detector.Tests(events, ledger, h.now())
	if out == nil {
		out = []model.TestAlert{}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleScheduleAlerts handles GET /api/alerts/schedule.
func (h *Handler) HandleScheduleAlerts(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.Events(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := h.Detector.Schedule(events, h.now())
	if out == nil {
		out = []model.ScheduleAlert{}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleWorkload handles GET /api/workload.
func (h *Handler) HandleWorkload(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.Events(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	statuses, err := h.Store.Statuses(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, workload.Aggregate(events, statuses, h.now()))
}

// HandleOverview handles GET /api/overview.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.Store.Ledger(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Overview(ledger, h.ShortNames))
}

func parseTaskDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
