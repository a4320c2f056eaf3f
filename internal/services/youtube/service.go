package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/tikhub"
)

// Service lists channel videos and resolves video metadata via TikHub
type Service struct {
	client *tikhub.Client
	logger arbor.ILogger
}

// NewService creates a new YouTube service
func NewService(config *common.YouTubeConfig, logger arbor.ILogger) interfaces.YouTubeService {
	opts := []tikhub.ClientOption{
		tikhub.WithLogger(logger),
	}
	if config.BaseURL != "" {
		opts = append(opts, tikhub.WithBaseURL(config.BaseURL))
	}
	if config.RateLimit > 0 {
		opts = append(opts, tikhub.WithRateLimit(config.RateLimit))
	}

	return &Service{
		client: tikhub.NewClient(config.APIKey, opts...),
		logger: logger,
	}
}

// NewServiceWithClient creates a YouTube service with an existing client
func NewServiceWithClient(client *tikhub.Client, logger arbor.ILogger) interfaces.YouTubeService {
	return &Service{client: client, logger: logger}
}

// GetChannelVideos returns one page of a channel's videos. Non-video
// items (shorts, playlists) are filtered out of the listing.
func (s *Service) GetChannelVideos(ctx context.Context, channelURL, pageToken string) (*interfaces.VideoPage, error) {
	channelID, err := ExtractChannelID(channelURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetChannelVideos(ctx, channelID, tikhub.WithNextToken(pageToken))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel videos: %w", err)
	}

	videos := make([]models.Video, 0, len(resp.Data.Items))
	for _, item := range resp.Data.Items {
		if item.Type != "video" {
			continue
		}
		videos = append(videos, normalizeVideo(item))
	}

	s.logger.Debug().
		Str("channel_id", channelID).
		Int("videos", len(videos)).
		Bool("has_more", resp.Data.NextToken != "").
		Msg("Channel videos fetched")

	return &interfaces.VideoPage{
		Videos:        videos,
		NextPageToken: resp.Data.NextToken,
	}, nil
}

// GetVideoInfo resolves metadata for a single video URL
func (s *Service) GetVideoInfo(ctx context.Context, videoURL string) (*models.Video, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetVideoInfo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}

	details := resp.Data.VideoDetails
	return &models.Video{
		ID:          videoID,
		Title:       details.Title,
		Description: details.ShortDescription,
		URL:         "https://www.youtube.com/watch?v=" + videoID,
		ViewCount:   details.ViewCount,
		IsLive:      details.IsLiveContent,
	}, nil
}

// normalizeVideo converts a TikHub listing item into the app video shape.
// The mid-sized thumbnail is preferred when several renditions exist.
func normalizeVideo(item tikhub.ChannelVideoItem) models.Video {
	thumbnail := ""
	if len(item.Thumbnails) > 2 {
		thumbnail = item.Thumbnails[2].URL
	} else if len(item.Thumbnails) > 0 {
		thumbnail = item.Thumbnails[0].URL
	}

	return models.Video{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Title, // listing items carry no description
		URL:         "https://www.youtube.com/watch?v=" + item.ID,
		Thumbnail:   thumbnail,
		Duration:    item.LengthText,
		PublishedAt: item.PublishedTimeText,
		ViewCount:   item.ViewCountText,
		IsLive:      item.IsLiveNow,
	}
}

// ExtractChannelID resolves a channel identifier from a channel URL or
// a bare handle. Accepted forms:
//   - https://www.youtube.com/@handle
//   - https://www.youtube.com/channel/UCxxxx
//   - @handle
//   - UCxxxx
func ExtractChannelID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("channel URL is empty")
	}

	if idx := strings.Index(input, "/channel/"); idx >= 0 {
		id := input[idx+len("/channel/"):]
		return strings.SplitN(strings.SplitN(id, "?", 2)[0], "/", 2)[0], nil
	}
	if idx := strings.Index(input, "/@"); idx >= 0 {
		handle := input[idx+1:]
		return strings.SplitN(strings.SplitN(handle, "?", 2)[0], "/", 2)[0], nil
	}
	if strings.HasPrefix(input, "@") || !strings.Contains(input, "/") {
		return input, nil
	}

	return "", fmt.Errorf("unrecognized channel URL: %s", input)
}

// ExtractVideoID extracts the video ID from a YouTube watch URL
func ExtractVideoID(videoURL string) (string, error) {
	if idx := strings.Index(videoURL, "youtube.com/watch?v="); idx >= 0 {
		id := videoURL[idx+len("youtube.com/watch?v="):]
		return strings.SplitN(id, "&", 2)[0], nil
	}
	if idx := strings.Index(videoURL, "youtu.be/"); idx >= 0 {
		id := videoURL[idx+len("youtu.be/"):]
		return strings.SplitN(id, "?", 2)[0], nil
	}
	return "", fmt.Errorf("invalid YouTube URL: %s", videoURL)
}
