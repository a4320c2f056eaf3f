package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
)

// VideoHandler serves channel video listings
type VideoHandler struct {
	youtube interfaces.YouTubeService
	logger  arbor.ILogger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(youtubeService interfaces.YouTubeService) *VideoHandler {
	return &VideoHandler{
		youtube: youtubeService,
		logger:  common.GetLogger(),
	}
}

// ChannelVideosHandler handles GET /api/channel-videos.
// Query parameters: channel_id (required; accepts a channel URL or
// handle as well), count (optional page size cap), next_token
// (optional). An empty next_token in the response means the listing is
// exhausted.
func (h *VideoHandler) ChannelVideosHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	q := r.URL.Query()
	channelID := q.Get("channel_id")
	if channelID == "" {
		channelID = q.Get("channel_url")
	}
	if channelID == "" {
		WriteError(w, http.StatusBadRequest, "channel_id query parameter is required")
		return
	}
	nextToken := q.Get("next_token")

	page, err := h.youtube.GetChannelVideos(r.Context(), channelID, nextToken)
	if err != nil {
		h.logger.Warn().Err(err).Str("channel_id", channelID).Msg("Channel listing failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	videos := page.Videos
	if c := q.Get("count"); c != "" {
		if count, convErr := strconv.Atoi(c); convErr == nil && count > 0 && count < len(videos) {
			videos = videos[:count]
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"videos":     videos,
		"next_token": page.NextPageToken,
		"has_more":   page.NextPageToken != "",
		"count":      len(videos),
	})
}
