package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/dto"
	"github.com/ignatzorin/shotboard/internal/models"
)

func TestBackupHandler_ExportRestore(t *testing.T) {
	e := newTestEnv(t)
	e.seedFolder(t, "Reel", reel)
	r := e.engine(admin)

	doJSON(t, r, http.MethodPost, "/tags/shot", dto.ShotTagRequest{ShotID: "Reel/music", Tag: "score"})
	doJSON(t, r, http.MethodPost, "/playlists", dto.PlaylistNameRequest{Name: "Keep"})

	w := doJSON(t, r, http.MethodGet, "/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shotboard-")
	exported := decode[models.Backup](t, w)
	assert.Equal(t, []string{"score"}, exported.Tags["Reel/music"])
	assert.Len(t, exported.Playlists, 1)
	assert.NotEmpty(t, exported.Users)

	restore := func(as models.User, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/backup/restore", strings.NewReader(body))
		w := httptest.NewRecorder()
		e.engine(as).ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusForbidden, restore(user1, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, restore(admin, `[`).Code)

	w = restore(admin, `{"playlists":{"p1":{"name":"Restored","owner":"user1@j9.app","shotIds":["Reel/outro/end"]}},"tags":{"Reel/outro/end":["final"]},"allGlobalTags":["final"],"shotCovers":{}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, models.Tags{"Reel/outro/end": {"final"}}, e.catalog.Tags())
	assert.Equal(t, []string{"final"}, e.catalog.GlobalTags())
	restored := e.catalog.Playlists(user1)
	require.Len(t, restored, 1)
	assert.Equal(t, "p1", restored[0].ID)
	assert.Equal(t, "Restored", restored[0].Name)

	// Пользователи без раздела users не меняются.
	assert.Len(t, e.users.Directory().Users, len(exported.Users))
}

func TestBackupHandler_Snapshot(t *testing.T) {
	e := newTestEnv(t)
	w := doJSON(t, e.engine(admin), http.MethodPost, "/backup/snapshot", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[dto.SuccessResponse](t, w)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	path, _ := data["path"].(string)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestUserHandler(t *testing.T) {
	e := newTestEnv(t)

	dir := decode[models.UserDirectory](t, doJSON(t, e.engine(user1), http.MethodGet, "/users", nil))
	assert.Len(t, dir.Users, 3)

	w := doJSON(t, e.engine(user1), http.MethodPost, "/users", dto.CreateUserRequest{Email: "new@j9.app", Name: "New"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	r := e.engine(admin)
	w = doJSON(t, r, http.MethodPost, "/users", dto.CreateUserRequest{Email: "new@j9.app", Name: "New"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, models.RoleUser, decode[models.User](t, w).Role)

	w = doJSON(t, r, http.MethodPost, "/users", dto.CreateUserRequest{Email: "NEW@j9.app", Name: "Dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/users/"+models.MainAdminEmail, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/users/new@j9.app", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
