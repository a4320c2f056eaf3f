package interfaces

import (
	"context"

	"github.com/ternarybob/videre/internal/models"
)

// VideoPage is one page of a channel's video listing.
// NextPageToken is empty when no further pages exist.
type VideoPage struct {
	Videos        []models.Video
	NextPageToken string
}

// YouTubeService lists videos for a channel and resolves video metadata.
type YouTubeService interface {
	// GetChannelVideos returns one page of videos for the channel.
	// Pass an empty pageToken for the first page and the previous
	// page's NextPageToken for subsequent pages.
	GetChannelVideos(ctx context.Context, channelURL, pageToken string) (*VideoPage, error)

	// GetVideoInfo resolves title and metadata for a single video URL.
	GetVideoInfo(ctx context.Context, videoURL string) (*models.Video, error)
}
