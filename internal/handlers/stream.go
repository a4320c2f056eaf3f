package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/analyzer"
)

// newStreamEmitter prepares the response for event streaming and returns
// an emitter that writes one "data: <json>" line per event, flushing
// after each so clients see progress incrementally.
func newStreamEmitter(w http.ResponseWriter, logger arbor.ILogger) (analyzer.Emitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported by the connection")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	return func(event models.StreamEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			logger.Warn().Err(err).Str("event_type", event.Type).Msg("Failed to encode stream event")
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}, nil
}
