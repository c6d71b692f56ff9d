package server

import (
	"net/http"

	"github.com/prospectscan/prospectscan/internal/batch"
	"github.com/prospectscan/prospectscan/internal/logging"
)

// handleBatchWS runs a batch over a WebSocket: the client sends one
// batchRequest message, the server streams progress events while the worker
// pool runs and finishes with a "results" frame.
func (s *Server) handleBatchWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var body batchRequest
	if err := conn.ReadJSON(&body); err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid JSON"})
		return
	}
	if len(body.Items) == 0 || len(body.Items) > maxBatchSize {
		_ = conn.WriteJSON(map[string]string{"error": "batch must contain between 1 and 100 domains"})
		return
	}

	items := make([]batch.Item, len(body.Items))
	for i, it := range body.Items {
		items[i] = batch.Item{Domain: it.Domain, Context: it.Context, Posture: it.Posture}
	}

	// Buffer generously so the runner's non-blocking sends rarely drop.
	events := make(chan batch.Event, len(items)+8)
	done := make(chan []batch.DomainResult, 1)

	go func() {
		done <- s.runner.Run(r.Context(), items, events)
		close(events)
	}()

	for ev := range events {
		if err := conn.WriteJSON(map[string]any{"type": "event", "event": ev}); err != nil {
			s.logger.Warn("websocket write failed", logging.Field{Key: "error", Value: err.Error()})
			return
		}
	}

	results := <-done
	_ = conn.WriteJSON(map[string]any{"type": "results", "results": results})
}
