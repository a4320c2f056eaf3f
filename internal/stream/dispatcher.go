package stream

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/models"
)

// Handler receives typed callbacks for decoded stream events
type Handler interface {
	// OnStatus reports a progress update. Progress is passed through
	// without clamping; out-of-range values are the caller's concern.
	OnStatus(progress float64, message string)

	// OnLog appends a log entry. Streaming entries carry an
	// incremental text chunk distinct from the plain message.
	OnLog(message, logType, streamingText string)

	// OnResult delivers the terminal result event
	OnResult(event models.StreamEvent)

	// OnError surfaces a server-reported failure
	OnError(message string)
}

// Dispatcher routes events to a handler by their type tag. Unknown
// types are ignored so newer servers remain compatible with older
// clients.
type Dispatcher struct {
	handler Handler
	logger  arbor.ILogger
}

// NewDispatcher creates a dispatcher for the given handler
func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		logger:  common.GetLogger(),
	}
}

// Dispatch routes one event. A result is terminal for the session, but
// events arriving after it are still dispatched; there is no hard
// state-machine rejection.
func (d *Dispatcher) Dispatch(event models.StreamEvent) {
	switch event.Type {
	case models.EventStatus:
		progress := 0.0
		if event.Progress != nil {
			progress = *event.Progress
		}
		d.handler.OnStatus(progress, event.Message)
		if event.Message != "" {
			d.handler.OnLog(event.Message, models.LogTypeInfo, "")
		}
	case models.EventLog:
		d.handler.OnLog(event.Message, event.LogType, event.StreamingText)
	case models.EventResult:
		d.handler.OnResult(event)
	case models.EventError:
		d.handler.OnLog(event.Message, models.LogTypeError, "")
		d.handler.OnError(event.Message)
	default:
		d.logger.Debug().Str("type", event.Type).Msg("Ignoring unrecognized event type")
	}
}
