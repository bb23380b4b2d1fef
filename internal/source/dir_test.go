package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/catalog"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scene1/take1.png", "png")
	writeFile(t, root, "scene1/take1.txt", "a prompt")
	writeFile(t, root, "root.jpg", "jpg")
	writeFile(t, root, ".git/config", "x")
	writeFile(t, root, "scene1/.DS_Store", "x")

	files, err := ScanDir(root, "ProjectA")
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path())
	}
	assert.Equal(t, []string{"ProjectA/root.jpg", "ProjectA/scene1/take1.png", "ProjectA/scene1/take1.txt"}, paths)
	assert.Equal(t, "/media/ProjectA/scene1/take1.png", files[1].Locator())

	text, err := files[2].ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a prompt", text)

	shots, err := catalog.NewAggregator(0).Aggregate(context.Background(), files, nil)
	require.NoError(t, err)
	require.Len(t, shots, 2)
	assert.Equal(t, "ProjectA/scene1/take1", shots[1].ID)
	assert.Equal(t, "image/png", shots[1].ImageFiles[0].MIME)
}

func TestScanDir_DefaultFolderName(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Shots")
	writeFile(t, root, "a.png", "png")

	files, err := ScanDir(root, "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Shots/a.png", files[0].Path())
}

func TestScanDir_Missing(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "nope"), "x")
	assert.Error(t, err)
}

func TestMediaURL_EscapesSegments(t *testing.T) {
	assert.Equal(t, "/media/My%20Folder/a%23b.png", MediaURL("My Folder/a#b.png"))
}

func TestReadText_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirFile("F/a.txt", "/does/not/matter").ReadText(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
