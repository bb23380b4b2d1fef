package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/db"
	"github.com/ignatzorin/shotboard/internal/db/migrations"
	"github.com/ignatzorin/shotboard/internal/http/middleware"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/repository"
	"github.com/ignatzorin/shotboard/internal/service"
	"github.com/ignatzorin/shotboard/internal/source"
	"github.com/ignatzorin/shotboard/internal/storage"
)

var (
	admin = models.User{Email: models.MainAdminEmail, Role: models.RoleAdmin}
	user1 = models.User{Email: "user1@j9.app", Role: models.RoleUser}
)

type testEnv struct {
	catalog *service.CatalogService
	users   *service.UserService
	backups *service.BackupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Discard()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	conn, err := db.NewSQLite(ctx, db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(ctx, conn, migrations.FS))

	files, err := storage.NewMediaStorage(t.TempDir(), 1)
	require.NoError(t, err)

	repos := repository.New(conn)
	users := service.NewUserService(repos.Users, repos.State, nil)
	require.NoError(t, users.Load(ctx))

	catalog := service.NewCatalogService(service.CatalogDeps{
		Files:       files,
		Directories: repos.Directories,
		Tags:        repos.Tags,
		Playlists:   repos.Playlists,
		State:       repos.State,
		Cache:       service.NewCacheService(ctx),
		Workers:     2,
	})

	return &testEnv{
		catalog: catalog,
		users:   users,
		backups: service.NewBackupService(catalog, users, t.TempDir()),
	}
}

// engine регистрирует хэндлеры так же, как роутер, но пользователь подставляется напрямую.
func (e *testEnv) engine(as models.User) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, as)
		c.Next()
	})

	folders := NewFolderHandler(e.catalog)
	r.GET("/folders", folders.List)
	r.POST("/folders/upload", folders.Upload)
	r.POST("/folders/scan", folders.Scan)
	r.DELETE("/folders/:name", folders.Delete)

	shots := NewShotHandler(e.catalog)
	r.GET("/shots", shots.List)
	r.GET("/shots/one", shots.Get)
	r.GET("/shots/prompt", shots.Prompt)
	r.PUT("/shots/cover", shots.SetCover)

	tags := NewTagHandler(e.catalog)
	r.GET("/tags", tags.List)
	r.POST("/tags/shot", tags.AddToShot)
	r.DELETE("/tags/shot", tags.RemoveFromShot)
	r.POST("/tags/bulk", tags.Bulk)
	r.POST("/tags/global", tags.AddGlobal)
	r.PUT("/tags/global", tags.RenameGlobal)
	r.DELETE("/tags/global", tags.DeleteGlobal)

	playlists := NewPlaylistHandler(e.catalog)
	r.GET("/playlists", playlists.List)
	r.POST("/playlists", playlists.Create)
	r.GET("/playlists/:id", playlists.Get)
	r.PUT("/playlists/:id", playlists.Rename)
	r.DELETE("/playlists/:id", playlists.Delete)
	r.POST("/playlists/:id/duplicate", playlists.Duplicate)
	r.POST("/playlists/:id/toggle", playlists.Toggle)
	r.POST("/playlists/:id/bulk", playlists.BulkAdd)
	r.PUT("/playlists/:id/share", playlists.Share)

	settings := NewSettingsHandler(e.catalog)
	r.GET("/settings", settings.Get)
	r.PUT("/settings", settings.Patch)

	state := NewStateHandler(e.catalog, e.users)
	r.GET("/state/:doc", state.Get)
	r.PUT("/state/:doc", state.Put)

	backups := NewBackupHandler(e.backups)
	r.GET("/backup", backups.Export)
	r.POST("/backup/restore", backups.Restore)
	r.POST("/backup/snapshot", backups.Snapshot)

	users := NewUserHandler(e.users)
	r.GET("/users", users.List)
	r.POST("/users", users.Create)
	r.DELETE("/users/:email", users.Delete)

	return r
}

func doJSON(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// uploadRequest собирает multipart запрос загрузки папки; порядок путей сохраняется.
func uploadRequest(t *testing.T, files map[string]string, order ...string) *http.Request {
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

	req := httptest.NewRequest(http.MethodPost, "/folders/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// seedFolder импортирует каталог name с файлами через сервис.
func (e *testEnv) seedFolder(t *testing.T, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	_, err := e.catalog.ImportDirectory(context.Background(), dir, "")
	require.NoError(t, err)
}
