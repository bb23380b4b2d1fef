package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/db"
	"github.com/ignatzorin/shotboard/internal/db/migrations"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/repository"
	"github.com/ignatzorin/shotboard/internal/source"
	"github.com/ignatzorin/shotboard/internal/storage"
)

var (
	adminUser = models.User{Email: models.MainAdminEmail, Name: "Admin", Role: models.RoleAdmin}
	plainUser = models.User{Email: "user1@j9.app", Name: "User", Role: models.RoleUser}
)

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Broadcast(event string, data any) error {
	args := m.Called(event, data)
	return args.Error(0)
}

func newBroadcaster() *mockBroadcaster {
	b := &mockBroadcaster{}
	b.On("Broadcast", mock.Anything, mock.Anything).Return(nil)
	return b
}

type fixture struct {
	repos   *repository.Repositories
	files   *storage.MediaStorage
	events  *mockBroadcaster
	catalog *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	conn, err := db.NewSQLite(ctx, db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(ctx, conn, migrations.FS))

	files, err := storage.NewMediaStorage(t.TempDir(), 1)
	require.NoError(t, err)

	f := &fixture{repos: repository.New(conn), files: files, events: newBroadcaster()}
	f.catalog = f.newCatalog(t)
	return f
}

// newCatalog создаёт ещё один сервис поверх той же базы и хранилища, как после перезапуска.
func (f *fixture) newCatalog(t *testing.T) *CatalogService {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewCatalogService(CatalogDeps{
		Files:       f.files,
		Directories: f.repos.Directories,
		Tags:        f.repos.Tags,
		Playlists:   f.repos.Playlists,
		State:       f.repos.State,
		Events:      f.events,
		Cache:       NewCacheService(ctx),
		Workers:     2,
	})
}

// writeTree создаёт файлы в каталоге dir; ключ - относительный путь.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// importFolder кладёт файлы в временный каталог name и импортирует его.
func importFolder(t *testing.T, s *CatalogService, name string, files map[string]string) []models.Shot {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	writeTree(t, dir, files)
	shots, err := s.ImportDirectory(context.Background(), dir, "")
	require.NoError(t, err)
	return shots
}

// uploadParts собирает multipart форму с параллельным полем путей.
func uploadParts(t *testing.T, files map[string]string, order ...string) []source.Part {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, rel := range order {
		fw, err := w.CreateFormFile(source.FilesField, filepath.Base(rel))
		require.NoError(t, err)
		_, err = fw.Write([]byte(files[rel]))
		require.NoError(t, err)
		require.NoError(t, w.WriteField(source.PathsField, rel))
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	parts, err := source.Parts(form)
	require.NoError(t, err)
	return parts
}

func shotIDs(shots []models.Shot) []string {
	out := make([]string, len(shots))
	for i, s := range shots {
		out[i] = s.ID
	}
	return out
}
