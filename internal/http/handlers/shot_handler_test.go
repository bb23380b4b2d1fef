package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/dto"
)

var reel = map[string]string{
	"intro/take1.png":  "img",
	"intro/take1.mp4":  "vid",
	"intro/take1.html": "<title>Opening</title><h1>Hero</h1><p>shot</p>",
	"outro/end.jpg":    "img",
	"music.mp3":        "aud",
}

func shotsOf(resp dto.ShotsResponse) []string {
	out := make([]string, len(resp.Shots))
	for i, s := range resp.Shots {
		out[i] = s.ID
	}
	return out
}

func TestShotHandler_ListFilters(t *testing.T) {
	e := newTestEnv(t)
	e.seedFolder(t, "Reel", reel)
	e.seedFolder(t, "Other", map[string]string{"x.png": "img"})
	_, err := e.catalog.AddTag(context.Background(), "Reel/intro/take1", "hero")
	require.NoError(t, err)
	r := e.engine(user1)

	resp := decode[dto.ShotsResponse](t, doJSON(t, r, http.MethodGet, "/shots", nil))
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, []string{"Other/x", "Reel/intro/take1", "Reel/music", "Reel/outro/end"}, shotsOf(resp))

	resp = decode[dto.ShotsResponse](t, doJSON(t, r, http.MethodGet, "/shots?folder=Reel&tags=hero", nil))
	assert.Equal(t, []string{"Reel/intro/take1"}, shotsOf(resp))

	resp = decode[dto.ShotsResponse](t, doJSON(t, r, http.MethodGet, "/shots?folder=Reel&tags=hero&invertTags=1", nil))
	assert.Equal(t, []string{"Reel/music", "Reel/outro/end"}, shotsOf(resp))

	resp = decode[dto.ShotsResponse](t, doJSON(t, r, http.MethodGet, "/shots?q=END", nil))
	assert.Equal(t, []string{"Reel/outro/end"}, shotsOf(resp))

	resp = decode[dto.ShotsResponse](t, doJSON(t, r, http.MethodGet, "/shots?limit=2&offset=1", nil))
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"Reel/intro/take1", "Reel/music"}, shotsOf(resp))

	resp = decode[dto.ShotsResponse](t, doJSON(t, r, http.MethodGet, "/shots?offset=10", nil))
	assert.Empty(t, resp.Shots)
}

func TestShotHandler_GetAndCover(t *testing.T) {
	e := newTestEnv(t)
	e.seedFolder(t, "Reel", reel)
	r := e.engine(user1)

	w := doJSON(t, r, http.MethodGet, "/shots/one?id=Reel/intro/take1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	shot := decode[dto.ShotResponse](t, w)
	assert.Equal(t, "/media/Reel/intro/take1.png", shot.CoverURL)
	assert.Empty(t, shot.Tags)

	w = doJSON(t, r, http.MethodGet, "/shots/one?id=Reel/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/shots/cover", dto.SetCoverRequest{ShotID: "Reel/intro/take1", FileName: "take1.mp4"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "/media/Reel/intro/take1.mp4", decode[dto.ShotResponse](t, w).CoverURL)
	assert.Equal(t, "take1.mp4", e.catalog.Settings().ShotCovers["Reel/intro/take1"])

	w = doJSON(t, r, http.MethodPut, "/shots/cover", dto.SetCoverRequest{ShotID: "Reel/intro/take1", FileName: "missing.png"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShotHandler_Prompt(t *testing.T) {
	e := newTestEnv(t)
	e.seedFolder(t, "Reel", reel)
	r := e.engine(user1)

	w := doJSON(t, r, http.MethodGet, "/shots/prompt?id=Reel/intro/take1&name=take1.html", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[dto.PromptResponse](t, w)
	assert.False(t, p.Plain)
	assert.Contains(t, p.Content, "<h1>")
	assert.Equal(t, "Opening", p.Title)

	w = doJSON(t, r, http.MethodGet, "/shots/prompt?id=Reel/intro/take1&name=take1.html&plain=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[dto.PromptResponse](t, w)
	assert.True(t, p.Plain)
	assert.NotContains(t, p.Content, "<")
	assert.Contains(t, p.Content, "Hero")

	w = doJSON(t, r, http.MethodGet, "/shots/prompt?id=Reel/intro/take1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/shots/prompt?id=Reel/intro/take1&name=other.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShotHandler_ListValuesWithCommas(t *testing.T) {
	e := newTestEnv(t)
	e.seedFolder(t, "Reel", reel)
	e.seedFolder(t, "a,b", map[string]string{"x.png": "img"})
	ctx := context.Background()
	_, err := e.catalog.AddTag(ctx, "Reel/intro/take1", "wide, night")
	require.NoError(t, err)
	_, err = e.catalog.AddTag(ctx, "Reel/music", "wide")
	require.NoError(t, err)
	r := e.engine(user1)

	list := func(q url.Values) []string {
		t.Helper()
		w := doJSON(t, r, http.MethodGet, "/shots?"+q.Encode(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		return shotsOf(decode[dto.ShotsResponse](t, w))
	}

	assert.Equal(t, []string{"Reel/intro/take1"}, list(url.Values{"tags": {"wide, night"}}))
	assert.Equal(t, []string{"Reel/intro/take1"}, list(url.Values{"advTags": {"wide, night"}}))
	assert.Equal(t, []string{"Reel/music"}, list(url.Values{"tags": {"wide"}}))
	assert.Empty(t, list(url.Values{"advTags": {"wide", "wide, night"}}))
	assert.Equal(t, []string{"a,b/x"}, list(url.Values{"advFolders": {"a,b"}}))
	assert.Equal(t, []string{"Reel/intro/take1", "Reel/outro/end", "a,b/x"}, list(url.Values{"advFolders": {"a,b", "Reel"}, "advFormats": {"jpg", "png"}}))
}

