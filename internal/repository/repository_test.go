package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/db"
	"github.com/ignatzorin/shotboard/internal/db/migrations"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.NewSQLite(ctx, db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(ctx, conn, migrations.FS))
	return conn
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, repo.Replace(ctx, models.DefaultUsers()))
	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUsers(), users)

	u, err := repo.GetByEmail(ctx, " ADMIN@j9.app ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = repo.GetByEmail(ctx, "ghost@j9.app")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	require.NoError(t, repo.Replace(ctx, []models.User{{Email: "z@j9.app", Name: "Z", Role: models.RoleUser}}))
	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "z@j9.app", users[0].Email)
}

func TestPlaylistRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlaylistRepository(newTestDB(t))

	in := models.Playlists{
		"p1": {ID: "p1", Name: "One", Owner: "a@j9.app", ShotIDs: models.StringList{"A/2", "A/1"}, SharedWith: models.StringList{"b@j9.app"}},
		"p2": {ID: "p2", Name: "Two", Owner: "b@j9.app"},
	}
	require.NoError(t, repo.Replace(ctx, in))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.StringList{"A/2", "A/1"}, got["p1"].ShotIDs)
	assert.Equal(t, models.StringList{"b@j9.app"}, got["p1"].SharedWith)
	assert.Empty(t, got["p2"].ShotIDs)

	require.NoError(t, repo.Replace(ctx, models.Playlists{}))
	got, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTagRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTagRepository(newTestDB(t))

	require.NoError(t, repo.Replace(ctx, models.Tags{"A/1": {"hero", "night"}, "A/2": {}}))
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Tags{"A/1": {"hero", "night"}}, got)
}

func TestDirectoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDirectoryRepository(newTestDB(t))

	require.NoError(t, repo.Replace(ctx, []string{"B", "A", "B"}))
	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, got)
}

func TestStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(newTestDB(t))

	var tags []string
	found, err := repo.Get(ctx, KeyGlobalTags, &tags)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Put(ctx, KeyGlobalTags, []string{"a"}))
	require.NoError(t, repo.Put(ctx, KeyGlobalTags, []string{"a", "b"}))

	found, err = repo.Get(ctx, KeyGlobalTags, &tags)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, tags)

	active := "p1"
	require.NoError(t, repo.Put(ctx, KeySettings, models.Settings{ActivePlaylistID: &active, ShotCovers: models.ShotCovers{"A/1": "1.mp4"}}))
	var settings models.Settings
	_, err = repo.Get(ctx, KeySettings, &settings)
	require.NoError(t, err)
	require.NotNil(t, settings.ActivePlaylistID)
	assert.Equal(t, "p1", *settings.ActivePlaylistID)
	assert.Equal(t, "1.mp4", settings.ShotCovers["A/1"])
}
