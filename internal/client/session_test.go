package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/videre/internal/models"
)

func makeVideos(n int) []models.Video {
	videos := make([]models.Video, n)
	for i := range videos {
		videos[i] = models.Video{
			ID:    fmt.Sprintf("vid%02d", i),
			Title: fmt.Sprintf("Video %d", i),
			URL:   fmt.Sprintf("https://www.youtube.com/watch?v=vid%02d", i),
		}
	}
	return videos
}

func TestSession_CacheKeyWriteOnce(t *testing.T) {
	s := NewSession()

	_, err := s.CacheKey()
	require.Error(t, err, "no key before a result arrives")
	assert.False(t, s.ActionsEnabled())

	s.OnResult(models.StreamEvent{Type: models.EventResult, CacheKey: "abc123"})
	key, err := s.CacheKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
	assert.True(t, s.ActionsEnabled())

	// A second result cannot overwrite the key
	s.OnResult(models.StreamEvent{Type: models.EventResult, CacheKey: "other"})
	key, err = s.CacheKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
}

func TestSession_ErrorKeepsSessionReadable(t *testing.T) {
	s := NewSession()

	s.OnError("model quota exhausted")
	assert.True(t, s.Failed)
	assert.Equal(t, "model quota exhausted", s.ErrorMessage)

	// The stream keeps being read; later events still land
	s.OnStatus(80, "")
	assert.Equal(t, 80.0, s.Progress)
}

func TestSelection_EleventhRejected(t *testing.T) {
	sel := NewSelection()
	videos := makeVideos(12)

	for i := 0; i < 10; i++ {
		selected, err := sel.Toggle(videos[i])
		require.NoError(t, err)
		assert.True(t, selected)
	}
	require.Equal(t, 10, sel.Count())

	selected, err := sel.Toggle(videos[10])
	require.Error(t, err)
	assert.False(t, selected, "checkbox reverts")
	assert.Equal(t, 10, sel.Count())
	assert.False(t, sel.Selected(videos[10]))

	// Deselecting frees a slot
	selected, err = sel.Toggle(videos[0])
	require.NoError(t, err)
	assert.False(t, selected)

	selected, err = sel.Toggle(videos[10])
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestSelection_ToggleDeselects(t *testing.T) {
	sel := NewSelection()
	video := models.Video{ID: "v1", URL: "https://example.com/v1"}

	selected, err := sel.Toggle(video)
	require.NoError(t, err)
	assert.True(t, selected)

	selected, err = sel.Toggle(video)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, 0, sel.Count())
}

func TestSelection_UniqueByIDOrURL(t *testing.T) {
	sel := NewSelection()

	// Same ID through different listing entries counts once
	_, err := sel.Toggle(models.Video{ID: "dup", Title: "first"})
	require.NoError(t, err)
	selected, err := sel.Toggle(models.Video{ID: "dup", Title: "second"})
	require.NoError(t, err)
	assert.False(t, selected, "second toggle of the same key deselects")

	// Without an ID the URL is the identity
	_, err = sel.Toggle(models.Video{URL: "https://example.com/only-url"})
	require.NoError(t, err)
	assert.True(t, sel.Selected(models.Video{URL: "https://example.com/only-url"}))
}

func TestSelection_SelectAllCapsAtTen(t *testing.T) {
	sel := NewSelection()
	videos := makeVideos(25)

	sel.SelectAll(videos)

	require.Equal(t, 10, sel.Count())
	// Deterministically the first ten in list order
	assert.Equal(t, videos[:10], sel.Videos())

	// Fewer visible than the cap selects them all
	sel.SelectAll(videos[:3])
	assert.Equal(t, 3, sel.Count())
}

func TestVideoList_PagingPreservesSelection(t *testing.T) {
	list := NewVideoList()
	videos := makeVideos(8)

	list.AppendPage(videos[:4], "page2")
	require.True(t, list.HasMore())
	assert.Equal(t, "page2", list.NextToken())

	_, err := list.Selection.Toggle(videos[1])
	require.NoError(t, err)

	list.AppendPage(videos[4:], "")
	assert.False(t, list.HasMore(), "empty next token means no more pages")
	assert.Len(t, list.Videos, 8)
	assert.True(t, list.Selection.Selected(videos[1]), "paging keeps prior selections")

	list.Reset()
	assert.Empty(t, list.Videos)
	assert.False(t, list.HasMore())
	assert.Equal(t, 0, list.Selection.Count())
}

func TestVideoList_HasMoreFalseBeforeFirstPage(t *testing.T) {
	list := NewVideoList()
	assert.False(t, list.HasMore())
}
