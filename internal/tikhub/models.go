package tikhub

// Thumbnail is one thumbnail rendition of a video.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ChannelVideoItem is one entry in a channel video listing.
// Items with Type other than "video" (shorts, playlists) are skipped
// by consumers.
type ChannelVideoItem struct {
	Type              string      `json:"type"`
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Thumbnails        []Thumbnail `json:"thumbnails"`
	LengthText        string      `json:"lengthText"`
	PublishedTimeText string      `json:"publishedTimeText"`
	ViewCountText     string      `json:"viewCountText"`
	IsLiveNow         bool        `json:"isLiveNow"`
}

// ChannelVideosData is the data envelope of the channel videos endpoint.
type ChannelVideosData struct {
	Items     []ChannelVideoItem `json:"items"`
	NextToken string             `json:"nextToken"`
}

// ChannelVideosResponse is the full channel videos response.
type ChannelVideosResponse struct {
	Data ChannelVideosData `json:"data"`
}

// VideoDetails is the metadata block of a single video.
type VideoDetails struct {
	VideoID          string      `json:"videoId"`
	Title            string      `json:"title"`
	ShortDescription string      `json:"shortDescription"`
	LengthSeconds    string      `json:"lengthSeconds"`
	ViewCount        string      `json:"viewCount"`
	Author           string      `json:"author"`
	IsLiveContent    bool        `json:"isLiveContent"`
	Thumbnails       []Thumbnail `json:"thumbnail,omitempty"`
}

// VideoInfoResponse is the full video info response.
type VideoInfoResponse struct {
	Data struct {
		VideoDetails VideoDetails `json:"videoDetails"`
	} `json:"data"`
}
