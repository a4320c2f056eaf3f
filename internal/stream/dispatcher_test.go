package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/videre/internal/models"
)

type recordingHandler struct {
	statuses []float64
	logs     []string
	logTypes []string
	results  []models.StreamEvent
	errors   []string
}

func (h *recordingHandler) OnStatus(progress float64, message string) {
	h.statuses = append(h.statuses, progress)
}

func (h *recordingHandler) OnLog(message, logType, streamingText string) {
	h.logs = append(h.logs, message)
	h.logTypes = append(h.logTypes, logType)
}

func (h *recordingHandler) OnResult(event models.StreamEvent) {
	h.results = append(h.results, event)
}

func (h *recordingHandler) OnError(message string) {
	h.errors = append(h.errors, message)
}

func TestDispatcher_RoutesByType(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h)

	d.Dispatch(models.StatusEvent(42, "almost there"))
	d.Dispatch(models.LogEvent("plain entry", models.LogTypeInfo))
	d.Dispatch(models.StreamingLogEvent("streaming", "chunk of text"))
	d.Dispatch(models.ErrorEvent("it broke"))

	require.Equal(t, []float64{42}, h.statuses)
	// Status messages are mirrored to the log; the error adds one too
	assert.Equal(t, []string{"almost there", "plain entry", "streaming", "it broke"}, h.logs)
	assert.Equal(t, []string{"it broke"}, h.errors)
	assert.Empty(t, h.results)
}

func TestDispatcher_StatusWithoutMessageSkipsLog(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h)

	d.Dispatch(models.StatusEvent(10, ""))

	assert.Equal(t, []float64{10}, h.statuses)
	assert.Empty(t, h.logs)
}

func TestDispatcher_EventsAfterResultStillDispatched(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h)

	d.Dispatch(models.StreamEvent{Type: models.EventResult, CacheKey: "abc123"})
	d.Dispatch(models.StatusEvent(100, ""))

	require.Len(t, h.results, 1)
	assert.Equal(t, "abc123", h.results[0].CacheKey)
	assert.Equal(t, []float64{100}, h.statuses)
}

func TestDispatcher_IgnoresUnknownTypes(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h)

	d.Dispatch(models.StreamEvent{Type: "heartbeat"})

	assert.Empty(t, h.statuses)
	assert.Empty(t, h.logs)
	assert.Empty(t, h.results)
	assert.Empty(t, h.errors)
}

func TestDispatcher_MissingProgressDefaultsToZero(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h)

	d.Dispatch(models.StreamEvent{Type: models.EventStatus})

	require.Equal(t, []float64{0}, h.statuses)
}
