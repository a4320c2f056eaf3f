package models

import (
	"encoding/json"
	"time"
)

// Event type discriminants for the analysis progress stream.
// Exactly one type tag is present per event; consumers must not assume
// any field beyond Type is populated without checking.
const (
	EventStatus = "status"
	EventLog    = "log"
	EventResult = "result"
	EventError  = "error"
)

// Log entry categories carried in the log_type field
const (
	LogTypeInfo      = "info"
	LogTypeStep      = "step"
	LogTypeWarning   = "warning"
	LogTypeError     = "error"
	LogTypeSuccess   = "success"
	LogTypeStreaming = "streaming"
)

// AnalysisType selects the analysis pipeline
type AnalysisType string

const (
	AnalysisContentOnly     AnalysisType = "content_only"
	AnalysisStockExtraction AnalysisType = "stock_extraction"
	AnalysisManualStock     AnalysisType = "manual_stock"
)

// StreamEvent is one decoded record from the analysis progress feed.
// It is the wire union over status, log, result and error events;
// which fields are meaningful depends on Type.
type StreamEvent struct {
	Type string `json:"type"`

	// status
	Progress *float64 `json:"progress,omitempty"`

	// status, log, error
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`

	// log
	LogType       string `json:"log_type,omitempty"`
	StreamingText string `json:"streaming_text,omitempty"`

	// result
	Success         bool             `json:"success,omitempty"`
	AnalysisType    AnalysisType     `json:"analysis_type,omitempty"`
	Report          *Report          `json:"report,omitempty"`
	VideoAnalysis   *VideoAnalysis   `json:"video_analysis,omitempty"`
	StockData       json.RawMessage  `json:"stock_data,omitempty"` // single object or array
	ExtractedStocks []ExtractedStock `json:"extracted_stocks,omitempty"`
	CacheKey        string           `json:"cache_key,omitempty"`
	FromCache       bool             `json:"from_cache,omitempty"`
}

// StatusEvent builds a progress update event
func StatusEvent(progress float64, message string) StreamEvent {
	return StreamEvent{
		Type:     EventStatus,
		Progress: &progress,
		Message:  message,
	}
}

// LogEvent builds a log entry event
func LogEvent(message, logType string) StreamEvent {
	return StreamEvent{
		Type:      EventLog,
		Message:   message,
		LogType:   logType,
		Timestamp: time.Now().UnixMilli(),
	}
}

// StreamingLogEvent builds a log event carrying an incremental text chunk
func StreamingLogEvent(message, text string) StreamEvent {
	ev := LogEvent(message, LogTypeStreaming)
	ev.StreamingText = text
	return ev
}

// ErrorEvent builds a terminal error event
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{
		Type:      EventError,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
}

// SetStockData marshals a single stock or a stock slice into the event.
// The wire shape intentionally mirrors whatever the pipeline produced:
// manual_stock emits one object, stock_extraction emits an array.
func (e *StreamEvent) SetStockData(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.StockData = raw
	return nil
}

// StockDataList decodes the stock_data payload, accepting both the
// single-object and the array shape. Returns the decoded stocks and
// whether the payload was a single object.
func (e *StreamEvent) StockDataList() ([]StockData, bool, error) {
	if len(e.StockData) == 0 {
		return nil, false, nil
	}

	var many []StockData
	if err := json.Unmarshal(e.StockData, &many); err == nil {
		return many, false, nil
	}

	var one StockData
	if err := json.Unmarshal(e.StockData, &one); err != nil {
		return nil, false, err
	}
	return []StockData{one}, true, nil
}
