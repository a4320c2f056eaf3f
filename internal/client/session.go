// Package client holds the platform-independent session logic of the
// analysis front end: stream handling, result projection, batch video
// selection and the HTTP driver.
package client

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/models"
)

// MaxSelectedVideos caps the batch selection; the limit is enforced at
// selection time, not at submission.
const MaxSelectedVideos = 10

// LogEntry is one line of the session's running log
type LogEntry struct {
	Message       string
	LogType       string
	StreamingText string
}

// Session is the per-run state of one analysis page: progress, log,
// the terminal result and the cache key gating follow-up actions.
// It implements stream.Handler.
type Session struct {
	Progress     float64
	Log          []LogEntry
	Result       *models.StreamEvent
	ErrorMessage string
	Failed       bool

	cacheKey string
	logger   arbor.ILogger
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{
		logger: common.GetLogger(),
	}
}

// OnStatus updates the progress indicator. Values are passed through
// unclamped.
func (s *Session) OnStatus(progress float64, message string) {
	s.Progress = progress
}

// OnLog appends a log entry
func (s *Session) OnLog(message, logType, streamingText string) {
	s.Log = append(s.Log, LogEntry{
		Message:       message,
		LogType:       logType,
		StreamingText: streamingText,
	})
}

// OnResult stores the terminal result and sets the cache key. The key
// is written once per run; a second result event cannot overwrite it.
func (s *Session) OnResult(event models.StreamEvent) {
	s.Result = &event
	if s.cacheKey == "" {
		s.cacheKey = event.CacheKey
	}
}

// OnError marks the session failed. The stream keeps being read until
// its natural end.
func (s *Session) OnError(message string) {
	s.Failed = true
	s.ErrorMessage = message
}

// CacheKey returns the cache key set by the result event, or an error
// when no result has arrived; follow-up actions use this to fail
// gracefully instead of issuing requests with an empty key.
func (s *Session) CacheKey() (string, error) {
	if s.cacheKey == "" {
		return "", fmt.Errorf("no analysis result available yet")
	}
	return s.cacheKey, nil
}

// ActionsEnabled reports whether download and extraction follow-ups
// may run
func (s *Session) ActionsEnabled() bool {
	return s.cacheKey != ""
}

// Selection is the ordered batch video selection, unique by video
// id-or-url and capped at MaxSelectedVideos.
type Selection struct {
	videos []models.Video
	keys   map[string]bool
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{
		keys: make(map[string]bool),
	}
}

// Toggle flips a video's membership. Selecting past the cap is
// rejected and the selection is left unchanged, mirroring a reverted
// checkbox. Returns whether the video is selected afterwards and an
// error when the cap rejected the change.
func (sel *Selection) Toggle(video models.Video) (bool, error) {
	key := video.Key()
	if sel.keys[key] {
		sel.remove(key)
		return false, nil
	}

	if len(sel.videos) >= MaxSelectedVideos {
		return false, fmt.Errorf("at most %d videos can be selected", MaxSelectedVideos)
	}

	sel.videos = append(sel.videos, video)
	sel.keys[key] = true
	return true, nil
}

// SelectAll selects the first min(cap, len(visible)) videos in list
// order, replacing the current selection.
func (sel *Selection) SelectAll(visible []models.Video) {
	sel.Clear()
	for _, video := range visible {
		if len(sel.videos) >= MaxSelectedVideos {
			break
		}
		key := video.Key()
		if sel.keys[key] {
			continue
		}
		sel.videos = append(sel.videos, video)
		sel.keys[key] = true
	}
}

// Clear empties the selection
func (sel *Selection) Clear() {
	sel.videos = nil
	sel.keys = make(map[string]bool)
}

// Selected reports whether a video is in the selection
func (sel *Selection) Selected(video models.Video) bool {
	return sel.keys[video.Key()]
}

// Videos returns the selection in insertion order
func (sel *Selection) Videos() []models.Video {
	out := make([]models.Video, len(sel.videos))
	copy(out, sel.videos)
	return out
}

// Count returns the selection size
func (sel *Selection) Count() int {
	return len(sel.videos)
}

func (sel *Selection) remove(key string) {
	delete(sel.keys, key)
	for i, v := range sel.videos {
		if v.Key() == key {
			sel.videos = append(sel.videos[:i], sel.videos[i+1:]...)
			return
		}
	}
}

// VideoList accumulates channel listing pages. Selections survive
// paging; an empty next token means the listing is exhausted.
type VideoList struct {
	Videos    []models.Video
	Selection *Selection

	nextToken string
	loaded    bool
}

// NewVideoList creates an empty listing
func NewVideoList() *VideoList {
	return &VideoList{
		Selection: NewSelection(),
	}
}

// AppendPage adds one page of results without resetting the selection
func (l *VideoList) AppendPage(videos []models.Video, nextToken string) {
	l.Videos = append(l.Videos, videos...)
	l.nextToken = nextToken
	l.loaded = true
}

// HasMore reports whether another page can be requested
func (l *VideoList) HasMore() bool {
	return l.loaded && l.nextToken != ""
}

// NextToken returns the token for the next page request
func (l *VideoList) NextToken() string {
	return l.nextToken
}

// Reset clears the listing and the selection for a new search
func (l *VideoList) Reset() {
	l.Videos = nil
	l.nextToken = ""
	l.loaded = false
	l.Selection.Clear()
}
