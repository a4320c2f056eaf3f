// Package stream decodes the server's chunked analysis feed into
// discrete events and routes them to typed handlers.
package stream

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/models"
)

const dataPrefix = "data: "

// Decoder turns arbitrarily chunked bytes into a sequence of stream
// events. Chunks need not be line-aligned; a partial trailing line is
// buffered until the next chunk completes it.
type Decoder struct {
	buffer strings.Builder
	logger arbor.ILogger
}

// NewDecoder creates a decoder
func NewDecoder() *Decoder {
	return &Decoder{
		logger: common.GetLogger(),
	}
}

// Feed appends a chunk and returns every event completed by it.
// Lines without the "data: " prefix are ignored. A prefixed line that
// fails to parse as JSON is logged and dropped; decoding continues with
// the next line.
func (d *Decoder) Feed(chunk []byte) []models.StreamEvent {
	if len(chunk) == 0 {
		return nil
	}

	d.buffer.Write(chunk)
	text := d.buffer.String()

	idx := strings.LastIndexByte(text, '\n')
	if idx < 0 {
		return nil
	}

	complete := text[:idx]
	d.buffer.Reset()
	d.buffer.WriteString(text[idx+1:])

	var events []models.StreamEvent
	for _, line := range strings.Split(complete, "\n") {
		if event, ok := d.decodeLine(line); ok {
			events = append(events, event)
		}
	}
	return events
}

// Close discards any buffered partial line. A fragment without its
// terminating newline is never parsed.
func (d *Decoder) Close() {
	if d.buffer.Len() > 0 {
		d.logger.Debug().
			Int("bytes", d.buffer.Len()).
			Msg("Discarding partial line at end of stream")
	}
	d.buffer.Reset()
}

func (d *Decoder) decodeLine(line string) (models.StreamEvent, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return models.StreamEvent{}, false
	}

	payload := strings.TrimPrefix(line, dataPrefix)
	var event models.StreamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		d.logger.Warn().Err(err).Str("line", payload).Msg("Dropping malformed stream event")
		return models.StreamEvent{}, false
	}
	return event, true
}
