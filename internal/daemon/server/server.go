// Package server provides the HTTP API of the clueitems daemon.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/internal/daemon/engine"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/internal/daemon/store"
	"github.com/grovetools/clueitems/progress"
)

// RunningConfig describes the feeds and profile the daemon was started with.
// It is exposed via /api/config.
type RunningConfig struct {
	Profile   string    `json:"profile"`
	Store     string    `json:"store"`
	Feeds     []string  `json:"feeds"`
	Record    string    `json:"record,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Server manages the daemon's HTTP server over a Unix socket.
type Server struct {
	logger        *logrus.Entry
	server        *http.Server
	engine        *engine.Engine
	settings      *config.Manager
	runningConfig *RunningConfig
}

// New creates a new Server instance.
func New(logger *logrus.Entry) *Server {
	s := &Server{logger: logger}
	s.server = &http.Server{
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}
	return s
}

// SetEngine sets the engine the server reads from and submits to.
func (s *Server) SetEngine(eng *engine.Engine) {
	s.engine = eng
}

// SetSettings sets the settings exposed via /api/settings.
func (s *Server) SetSettings(settings *config.Manager) {
	s.settings = settings
}

// SetRunningConfig sets the running configuration for the server.
func (s *Server) SetRunningConfig(cfg *RunningConfig) {
	s.runningConfig = cfg
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc("/api/items", s.handleGetItems)
	mux.HandleFunc("/api/stash", s.handleGetStash)
	mux.HandleFunc("/api/stream", s.handleStreamState)
	mux.HandleFunc("/api/config", s.handleGetConfig)
	mux.HandleFunc("/api/settings", s.handleGetSettings)
	mux.HandleFunc("/api/events", s.handlePostEvent)
	mux.HandleFunc("/api/highlight", s.handleHighlight)
	return mux
}

// ListenAndServe starts the daemon on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.WithField("socket", socketPath).Info("Daemon listening")
	return s.server.Serve(listener)
}

// Shutdown gracefully stops the server. A later ListenAndServe returns
// http.ErrServerClosed at once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) requireEngine(w http.ResponseWriter) bool {
	if s.engine == nil {
		http.Error(w, "engine not initialized", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// handleGetState returns the whole panel as JSON.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if !s.requireEngine(w) {
		return
	}
	writeJSON(w, s.engine.Store().Get())
}

// handleGetItems returns the item grid. ?status=owned|missing|unknown filters it.
func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	if !s.requireEngine(w) {
		return
	}
	items := s.engine.Store().Get().Items
	if name := r.URL.Query().Get("status"); name != "" {
		status, err := progress.ParseStatus(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		want := make([]store.ItemRow, 0, len(items))
		for _, row := range items {
			if row.Status == status {
				want = append(want, row)
			}
		}
		items = want
	}
	writeJSON(w, items)
}

// handleGetStash returns the STASH grid.
func (s *Server) handleGetStash(w http.ResponseWriter, r *http.Request) {
	if !s.requireEngine(w) {
		return
	}
	writeJSON(w, s.engine.Store().Get().StashUnits)
}

// handleStreamState provides Server-Sent Events (SSE) for panel updates. The
// first message carries the full state.
func (s *Server) handleStreamState(w http.ResponseWriter, r *http.Request) {
	if !s.requireEngine(w) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.engine.Store().Subscribe()
	defer s.engine.Store().Unsubscribe(ch)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	s.logger.Debug("SSE client connected")

	if data, err := json.Marshal(s.engine.Store().Get()); err == nil {
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case update, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				s.logger.WithError(err).Error("Failed to marshal update")
				continue
			}
			fmt.Fprintf(w, "event: update\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleGetConfig returns the running configuration as JSON.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.runningConfig == nil {
		http.Error(w, "config not initialized", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s.runningConfig)
}

// handleGetSettings returns the effective settings as raw key/value pairs.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		http.Error(w, "settings not initialized", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, config.Encode(s.settings.Load()))
}

// handlePostEvent accepts one host event and waits until it is dispatched.
func (s *Server) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireEngine(w) {
		return
	}

	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := ev.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.engine.Submit(r.Context(), ev); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.logger.WithField("event", ev.Type).Debug("Event submitted")
	w.WriteHeader(http.StatusAccepted)
}

// handleHighlight answers ?kind=<interface>&item=<id>.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	if !s.requireEngine(w) {
		return
	}
	q := r.URL.Query()
	kind, err := catalogue.ParseInterfaceKind(q.Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	itemID, err := strconv.Atoi(q.Get("item"))
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	highlight, err := s.engine.ShouldHighlight(r.Context(), kind, itemID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{
		"kind":      kind.String(),
		"item":      itemID,
		"highlight": highlight,
	})
}
