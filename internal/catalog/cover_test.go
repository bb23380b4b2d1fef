package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/shotboard/internal/models"
)

func mediaShot() models.Shot {
	return models.Shot{
		ID:            "F/x",
		ImageFiles:    []models.MediaFile{{Name: "x.png", URL: "u/x.png"}},
		VideoFiles:    []models.MediaFile{{Name: "x.mp4", URL: "u/x.mp4"}},
		AudioFiles:    []models.MediaFile{{Name: "x.mp3", URL: "u/x.mp3"}},
		DocumentFiles: []models.MediaFile{{Name: "x.pdf", URL: "u/x.pdf"}},
		PromptFiles:   []models.PromptFile{{Name: "x.txt"}},
	}
}

func TestResolveCover_Priority(t *testing.T) {
	s := mediaShot()
	url, kind := ResolveCover(s, "")
	assert.Equal(t, "u/x.png", url)
	assert.Equal(t, models.CoverImage, kind)

	s.ImageFiles = nil
	url, kind = ResolveCover(s, "")
	assert.Equal(t, "u/x.mp4", url)
	assert.Equal(t, models.CoverVideo, kind)

	s.VideoFiles = nil
	_, kind = ResolveCover(s, "")
	assert.Equal(t, models.CoverAudio, kind)

	s.AudioFiles = nil
	_, kind = ResolveCover(s, "")
	assert.Equal(t, models.CoverDocument, kind)

	s.DocumentFiles = nil
	url, kind = ResolveCover(s, "")
	assert.Empty(t, url)
	assert.Equal(t, models.CoverNone, kind)
}

func TestResolveCover_Saved(t *testing.T) {
	s := mediaShot()

	url, kind := ResolveCover(s, "x.pdf")
	assert.Equal(t, "u/x.pdf", url)
	assert.Equal(t, models.CoverDocument, kind)

	url, kind = ResolveCover(s, "x.txt")
	assert.Equal(t, "u/x.png", url)
	assert.Equal(t, models.CoverImage, kind)
}

func TestWithCover(t *testing.T) {
	s := mediaShot()

	updated, ok := WithCover(s, "x.mp3")
	assert.True(t, ok)
	assert.Equal(t, "u/x.mp3", updated.CoverURL)
	assert.Equal(t, models.CoverAudio, updated.CoverType)
	assert.Empty(t, s.CoverURL)

	_, ok = WithCover(s, "nope.png")
	assert.False(t, ok)
}
