package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/sirsim/internal/logging"
	"github.com/aretw0/sirsim/pkg/domain"
)

// allRuns is the subscription key that receives events of every run.
const allRuns = ""

// StreamManager fans simulation events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // RunID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for runID, or for every run when runID is empty.
func (sm *StreamManager) Subscribe(runID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 64)
	if _, ok := sm.subscribers[runID]; !ok {
		sm.subscribers[runID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[runID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[runID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, runID)
			}
		}
	}
}

// Broadcast delivers msg to subscribers of runID and to global subscribers.
func (sm *StreamManager) Broadcast(runID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	keys := []string{allRuns}
	if runID != allRuns {
		keys = append(keys, runID)
	}
	for _, key := range keys {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				sm.logger.Warn("SSE: Client buffer full, dropping message", "run_id", runID)
			}
		}
	}
}

// Hooks publishes run and day events as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(runID string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			sm.logger.Error("SSE: Event encode failed", "error", err)
			return
		}
		sm.Broadcast(runID, string(data))
	}
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) { publish(e.RunID, e) },
		OnDay:      func(_ context.Context, e *domain.DayEvent) { publish(e.RunID, e) },
		OnRunEnd:   func(_ context.Context, e *domain.RunEvent) { publish(e.RunID, e) },
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// ?run_id= narrows the stream to one run.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	runID := r.URL.Query().Get("run_id")
	s.logger.Info("SSE: Subscribing to run events", "run_id", runID)

	ch, cancel := s.Streams.Subscribe(runID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
