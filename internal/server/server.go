// Package server exposes the tracker over HTTP: the MJPEG live stream, the
// JSON APIs, the gallery and dashboard pages, snapshot files, and the
// Prometheus scrape endpoint.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/catwatch/cat-tracker/internal/event"
	"github.com/catwatch/cat-tracker/internal/logger"
	"github.com/catwatch/cat-tracker/internal/metrics"
	"github.com/catwatch/cat-tracker/internal/pipeline"
	"github.com/catwatch/cat-tracker/internal/snapshot"
)

// Server composes the event store, snapshot store and frame broadcaster
// behind the HTTP surface.
type Server struct {
	events        *event.Store
	snapshots     *snapshot.Store
	broadcaster   *pipeline.Broadcaster
	hub           *Hub
	metrics       *metrics.Metrics
	statsInterval time.Duration
}

// New wires a server and registers the hub as the store's append listener
// so fresh events reach websocket clients immediately.
func New(
	events *event.Store,
	snapshots *snapshot.Store,
	broadcaster *pipeline.Broadcaster,
	m *metrics.Metrics,
	statsInterval time.Duration,
) *Server {
	s := &Server{
		events:        events,
		snapshots:     snapshots,
		broadcaster:   broadcaster,
		hub:           NewHub(),
		metrics:       m,
		statsInterval: statsInterval,
	}
	events.Notify(func(e event.Event) { s.hub.Broadcast(e) })
	return s
}

// Hub returns the websocket event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/video", s.handleVideo)
	mux.HandleFunc("/gallery", s.handleGallery)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/stats/stream", s.handleStatsStream)
	mux.HandleFunc("/api/events", s.handleAPIEvents)
	mux.HandleFunc("/api/events/", s.handleAPIEventByID)
	mux.HandleFunc("/delete_snapshot", s.handleDeleteSnapshot)
	mux.HandleFunc("/captures/", s.handleCaptures)
	mux.Handle("/ws", s.hub)
	mux.Handle("/metrics", s.metrics.Handler())

	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONWithStatus(w, map[string]any{"error": "not found"}, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	id, frameCh := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(id)

	s.metrics.StreamClients.Add(1)
	defer s.metrics.StreamClients.Add(-1)

	streamMJPEG(w, r, frameCh)
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Events   []event.Event
		CatCount int
	}{
		Events:   s.events.List(200, true), // newest first
		CatCount: s.events.Total(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := galleryTmpl.Execute(w, data); err != nil {
		logger.Error("Server", "render gallery: %v", err)
	}
}

func (s *Server) statsPayload() map[string]any {
	var last any
	if e, ok := s.events.Last(); ok {
		last = e
	}
	return map[string]any{
		"cat_count":  s.events.Total(),
		"last_event": last,
		"events":     s.events.List(50, false),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.statsPayload())
}

func (s *Server) handleStatsStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(s.statsInterval)
	defer ticker.Stop()

	for {
		if err := writeSSE(w, s.statsPayload()); err != nil {
			return
		}
		flusher.Flush()
		select {
		case <-ticker.C:
		case <-r.Context().Done():
			return
		}
	}
}

// apiEvent is the /api/events row: the positional index doubles as the id
// and is only stable until the next delete or trim.
type apiEvent struct {
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp"`
	Filename  string `json:"filename"`
	Count     int    `json:"count"`
	URL       string `json:"url"`
}

func (s *Server) handleAPIEvents(w http.ResponseWriter, r *http.Request) {
	events, total := s.events.Snapshot()
	rows := make([]apiEvent, len(events))
	for i, e := range events {
		rows[i] = apiEvent{
			ID:        i,
			Timestamp: e.Timestamp,
			Filename:  e.Filename,
			Count:     e.Count,
			URL:       "/captures/" + e.Filename,
		}
	}
	writeJSON(w, map[string]any{
		"cat_count": total,
		"events":    rows,
	})
}

func (s *Server) handleAPIEventByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/events/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeJSONWithStatus(w, map[string]any{"error": "invalid event id"}, http.StatusNotFound)
		return
	}

	removed, err := s.events.DeleteByIndex(id)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			writeJSONWithStatus(w, map[string]any{"error": "invalid event id"}, http.StatusNotFound)
			return
		}
		writeJSONWithStatus(w, map[string]any{"error": err.Error()}, http.StatusInternalServerError)
		return
	}

	// The store is authoritative; a failed file delete only gets logged.
	if err := s.snapshots.Delete(removed.Filename); err != nil {
		logger.Warn("Server", "failed to delete snapshot %s: %v", removed.Filename, err)
	}
	s.metrics.EventsDeleted.Add(1)
	logger.Info("Server", "deleted event %d (%s)", id, removed.Filename)

	writeJSON(w, map[string]any{"status": "ok"})
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Fire-and-forget form flow: always back to the gallery, whatever happened.
	defer http.Redirect(w, r, "/gallery", http.StatusFound)

	filename := r.FormValue("filename")
	if filename == "" {
		return
	}

	removed := s.events.DeleteByFilename(filename)
	for _, e := range removed {
		if err := s.snapshots.Delete(e.Filename); err != nil {
			logger.Warn("Server", "failed to delete snapshot %s: %v", e.Filename, err)
		}
		s.metrics.EventsDeleted.Add(1)
	}
	if len(removed) > 0 {
		logger.Info("Server", "deleted %d event(s) for %s", len(removed), filename)
	}
}

func (s *Server) handleCaptures(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/captures/")
	data, err := s.snapshots.Read(name)
	if err != nil {
		// Invalid names and missing files look the same to the caller.
		writeJSONWithStatus(w, map[string]any{"error": "snapshot not found"}, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, payload any) {
	writeJSONWithStatus(w, payload, http.StatusOK)
}

func writeJSONWithStatus(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		_, _ = fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}
