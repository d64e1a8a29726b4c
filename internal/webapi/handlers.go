// Package webapi exposes the aggregated dispatcher records over a small REST
// API for the review dashboard.
package webapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cs4273g/callreview/internal/store"
)

// Version is reported by the health endpoint.
var Version = "0.2.0"

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store DispatcherStore
}

// NewHandlers creates a new Handlers with the given store.
func NewHandlers(s DispatcherStore) *Handlers {
	return &Handlers{store: s}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleSummary returns aggregate metrics across all dispatchers.
func (h *Handlers) HandleSummary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.store.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleDispatchers returns all dispatchers, with optional sort/order params.
func (h *Handlers) HandleDispatchers(w http.ResponseWriter, r *http.Request) {
	sortField := r.URL.Query().Get("sort")
	order := r.URL.Query().Get("order")

	dispatchers, err := h.store.ListDispatchers(sortField, order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dispatchers == nil {
		dispatchers = []DispatcherSummary{}
	}
	writeJSON(w, http.StatusOK, dispatchers)
}

// HandleDispatcherDetail returns one dispatcher with per-file grades.
func (h *Handlers) HandleDispatcherDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "dispatcher name is required")
		return
	}

	detail, err := h.store.GetDispatcher(name)
	if err != nil {
		if errors.Is(err, store.ErrDispatcherNotFound) {
			writeError(w, http.StatusNotFound, "dispatcher not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, s DispatcherStore) {
	h := NewHandlers(s)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/summary", h.HandleSummary)
	mux.HandleFunc("GET /api/dispatchers", h.HandleDispatchers)
	mux.HandleFunc("GET /api/dispatchers/{name}", h.HandleDispatcherDetail)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
