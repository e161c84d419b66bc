// Package server exposes the dashboard HTTP API.
package server

import "net/http"

// NewRouter wires the API routes onto a ServeMux.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /api/events", h.HandleListEvents)
	mux.HandleFunc("GET /api/grades", h.HandleListGrades)
	mux.HandleFunc("GET /api/status", h.HandleListStatuses)
	mux.HandleFunc("POST /api/status", h.HandleSetStatus)
	mux.HandleFunc("POST /api/tasks", h.HandleCreateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.HandleDeleteTask)
	mux.HandleFunc("GET /api/alerts/tests", h.HandleTestAlerts)
	mux.HandleFunc("GET /api/alerts/schedule", h.HandleScheduleAlerts)
	mux.HandleFunc("GET /api/workload", h.HandleWorkload)
	mux.HandleFunc("GET /api/overview", h.HandleOverview)

	return withCORS(mux)
}

// withCORS allows the dashboard frontend, served from a different
// origin during development, to call the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
