package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"keepalive/internal/state"
	"keepalive/internal/store"
)

const defaultRunsLimit = 20

// Trigger is the manual-dispatch side of the scheduler.
type Trigger interface {
	TriggerNow(ctx context.Context, name string) error
}

// RouteHandler serves the local status and manual-trigger endpoints.
type RouteHandler struct {
	runStore store.RunStore
	trigger  Trigger
	Port     uint
}

func NewRouteHandler(runStore store.RunStore, trigger Trigger, port uint) RouteHandler {
	return RouteHandler{
		runStore: runStore,
		trigger:  trigger,
		Port:     port,
	}
}

// Routes builds the mux. Split from Serve so tests can drive the
// handlers without a listener.
func (h *RouteHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.HandleFunc("/runs", h.handleRuns)
	mux.HandleFunc("/stats", h.handleStats)
	mux.HandleFunc("/trigger", h.handleTrigger)
	return mux
}

// Serve runs the admin server until ctx is cancelled.
func (h *RouteHandler) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", h.Port),
		Handler: h.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("web: shutdown: %v", err)
		}
	}()

	log.Printf("web: admin server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (h *RouteHandler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *RouteHandler) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.runStore.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("web: failed to fetch runs: %v", err)
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"runs": runs})
}

func (h *RouteHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.runStore.CountGroupedByStatus(r.Context())
	if err != nil {
		log.Printf("web: failed to count runs: %v", err)
		http.Error(w, "Failed to count runs", http.StatusInternalServerError)
		return
	}

	for _, status := range state.AllStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}

	writeJSON(w, map[string]interface{}{"runs_by_status": counts})
}

func (h *RouteHandler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("target")
	if err := h.trigger.TriggerNow(r.Context(), name); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "triggered"}); err != nil {
		log.Println("web: error encoding JSON:", err)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Println("web: error encoding JSON:", err)
	}
}
