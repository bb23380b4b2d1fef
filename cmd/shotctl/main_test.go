package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/models"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Reel")
	writeFiles(t, dir, map[string]string{
		"intro/take1.png": "img",
		"intro/take1.txt": "golden hour",
		"outro/end.mp4":   "vid",
		"music.mp3":       "aud",
	})
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func lines(s string) []string {
	return strings.Fields(s)
}

func TestRun_ListsAllShots(t *testing.T) {
	code, out, _ := runCLI(t, fixtureDir(t))
	require.Equal(t, 0, code)
	assert.Equal(t, []string{"Reel/intro/take1", "Reel/music", "Reel/outro/end"}, lines(out))
}

func TestRun_FlagsFilter(t *testing.T) {
	dir := fixtureDir(t)

	_, out, _ := runCLI(t, "-q", "GOLDEN", dir)
	assert.Equal(t, []string{"Reel/intro/take1"}, lines(out))

	_, out, _ = runCLI(t, "--adv-format", "mp4,mp3", dir)
	assert.Equal(t, []string{"Reel/music", "Reel/outro/end"}, lines(out))

	_, out, _ = runCLI(t, "--folder", "Other", dir)
	assert.Empty(t, lines(out))
}

func TestRun_PresetAndOverride(t *testing.T) {
	dir := fixtureDir(t)
	preset := filepath.Join(t.TempDir(), "preset.jsonc")
	require.NoError(t, os.WriteFile(preset, []byte(`{
		// избранное
		"playlist": "fav",
		"tags": ["hero"],
		"shotTags": {"Reel/music": ["hero"], "Reel/outro/end": ["hero"]},
		"playlists": {"fav": {"name": "Fav", "shotIds": ["Reel/music", "Reel/intro/take1"]}},
	}`), 0o644))

	_, out, errOut := runCLI(t, "--preset", preset, dir)
	assert.Equal(t, []string{"Reel/music"}, lines(out), errOut)

	_, out, _ = runCLI(t, "--preset", preset, "--invert-playlist", dir)
	assert.Equal(t, []string{"Reel/outro/end"}, lines(out))

	_, out, _ = runCLI(t, "--preset", preset, "--tag", "", "--playlist", "", dir)
	assert.Equal(t, []string{"Reel/intro/take1", "Reel/music", "Reel/outro/end"}, lines(out))
}

func TestRun_JSONWithCovers(t *testing.T) {
	dir := fixtureDir(t)
	covers := filepath.Join(t.TempDir(), "covers.json")
	require.NoError(t, os.WriteFile(covers, []byte(`{"Reel/intro/take1": "take1.png"}`), 0o644))

	code, out, _ := runCLI(t, "--json", "--covers", covers, "-q", "take1", dir)
	require.Equal(t, 0, code)

	var shots []models.Shot
	require.NoError(t, json.Unmarshal([]byte(out), &shots))
	require.Len(t, shots, 1)
	assert.Equal(t, "/media/Reel/intro/take1.png", shots[0].CoverURL)
	require.Len(t, shots[0].PromptFiles, 1)
	assert.Equal(t, "golden hour", shots[0].PromptFiles[0].Content)
}

func TestRun_Errors(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "каталог")

	dir := fixtureDir(t)
	code, _, _ = runCLI(t, dir, dir)
	assert.Equal(t, 1, code)

	bad := filepath.Join(t.TempDir(), "bad.jsonc")
	require.NoError(t, os.WriteFile(bad, []byte(`{"folder": `), 0o644))
	code, _, errOut = runCLI(t, "--preset", bad, dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "preset")

	code, _, _ = runCLI(t, "--help")
	assert.Equal(t, 0, code)
}

func TestRun_TagWithComma(t *testing.T) {
	dir := fixtureDir(t)
	preset := filepath.Join(t.TempDir(), "preset.jsonc")
	require.NoError(t, os.WriteFile(preset, []byte(`{
		"shotTags": {"Reel/music": ["wide, night"], "Reel/outro/end": ["wide"]},
	}`), 0o644))

	_, out, errOut := runCLI(t, "--preset", preset, "--tag", "wide, night", dir)
	assert.Equal(t, []string{"Reel/music"}, lines(out), errOut)

	_, out, _ = runCLI(t, "--preset", preset, "--adv-tag", "wide, night", dir)
	assert.Equal(t, []string{"Reel/music"}, lines(out))

	_, out, _ = runCLI(t, "--preset", preset, "-t", "wide", dir)
	assert.Equal(t, []string{"Reel/outro/end"}, lines(out))
}

func TestRun_HelpDescribesAdvancedAllSemantics(t *testing.T) {
	code, _, errOut := runCLI(t, "--help")
	require.Equal(t, 0, code)
	assert.Contains(t, errOut, "шот должен иметь все теги")
	assert.Contains(t, errOut, "шот должен входить в каждый плейлист")
	assert.NotContains(t, errOut, "любой из тегов")
	assert.NotContains(t, errOut, "любой из плейлистов")
}
