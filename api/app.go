package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"sheetops/app"
	"sheetops/models"
)

// maxCommandBytes bounds a single envelope; table payloads are small and
// anything larger is a caller bug.
const maxCommandBytes = 1 << 20

// App is the HTTP command intake: it accepts raw operation envelopes,
// feeds them to the dispatcher unchanged, and exposes read-only table
// snapshots.
type App struct {
	router     *chi.Mux
	dispatcher *app.CommandDispatcher
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates the HTTP intake bound to one dispatcher.
func NewApp(dispatcher *app.CommandDispatcher) *App {
	a := &App{
		router:     chi.NewRouter(),
		dispatcher: dispatcher,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router exposes the underlying handler for embedding and tests.
func (a *App) Router() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Post("/api/commands", a.handleCommand)
	a.router.Get("/api/table", a.handleTable)
	a.router.Get("/api/table/header", a.handleTableHeader)
	a.router.Get("/healthz", a.handleHealth)
}

// Start starts the HTTP server
func (a *App) Start(config Config) error {
	addr := ":" + config.Port
	log.Printf("[API] Starting command intake on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// handleCommand feeds the raw body to the dispatcher. The reward contract
// is the API: malformed payloads still answer 200 with reward -1, exactly
// as a direct caller would see them.
func (a *App) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	reward, feedback := a.dispatcher.Process(r.Context(), body)

	result := models.CommandResult{
		ID:        uuid.New(),
		Name:      commandName(body),
		Reward:    reward,
		Feedback:  feedback,
		Duration:  float64(time.Since(start).Nanoseconds()) / 1e6,
		Timestamp: time.Now().UTC(),
	}
	writeJSON(w, http.StatusOK, result)
}

// handleTable returns a snapshot of the full table
func (a *App) handleTable(w http.ResponseWriter, r *http.Request) {
	store := a.dispatcher.Store()
	snapshot := models.TableSnapshot{
		Name:   store.Name(),
		Path:   store.Path(),
		MaxRow: store.MaxRow(),
		MaxCol: store.MaxCol(),
		Rows:   store.Rows(),
	}
	if header, ok := store.HeaderRow(); ok {
		snapshot.Headers = header
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// handleTableHeader returns row 1 and whether the table has any rows at all
func (a *App) handleTableHeader(w http.ResponseWriter, r *http.Request) {
	header, ok := a.dispatcher.Store().HeaderRow()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"headers": header,
		"present": ok,
	})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// commandName peeks at the envelope for response labeling only; the
// dispatcher does its own parsing and validation.
func commandName(body []byte) string {
	var envelope struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Name
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}
