package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/repository"
)

func TestCatalogService_UpdateSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, f.catalog.Settings().IsSidebarOpen)

	closed := false
	got, err := f.catalog.UpdateSettings(ctx, SettingsPatch{IsSidebarOpen: &closed})
	require.NoError(t, err)
	assert.False(t, got.IsSidebarOpen)

	missing := "nope"
	_, err = f.catalog.UpdateSettings(ctx, SettingsPatch{ActivePlaylistID: &missing})
	assert.ErrorIs(t, err, apperror.ErrPlaylistNotFound)

	var saved models.Settings
	_, err = f.repos.State.Get(ctx, repository.KeySettings, &saved)
	require.NoError(t, err)
	assert.False(t, saved.IsSidebarOpen)
}

func TestCatalogService_ReplaceSettingsRecomputesCovers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	importFolder(t, f.catalog, "A", map[string]string{"x.png": "img", "x.mp4": "vid"})

	ghost := "ghost"
	got, err := f.catalog.ReplaceSettings(ctx, models.Settings{
		ShotCovers:       models.ShotCovers{"A/x": "x.mp4"},
		ActivePlaylistID: &ghost,
		IsSidebarOpen:    true,
	})
	require.NoError(t, err)
	assert.Nil(t, got.ActivePlaylistID)

	shot, err := f.catalog.Shot("A/x")
	require.NoError(t, err)
	assert.Equal(t, models.CoverVideo, shot.CoverType)
}

func TestCatalogService_ReplaceDirectories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	importFolder(t, f.catalog, "A", map[string]string{"x.png": "img"})
	importFolder(t, f.catalog, "B", map[string]string{"y.png": "img"})

	folders, err := f.catalog.ReplaceDirectories(ctx, []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, folders)

	// Файлы A остались в хранилище, поэтому папку можно вернуть.
	folders, err = f.catalog.ReplaceDirectories(ctx, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, folders)
	assert.Equal(t, []string{"A/x", "B/y"}, shotIDs(f.catalog.Snapshot().Shots))

	_, err = f.catalog.ReplaceDirectories(ctx, []string{"Nowhere"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestCatalogService_ReplacePlaylistsDropsStaleSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.catalog.CreatePlaylist(ctx, plainUser, "Old")
	require.NoError(t, err)
	_, err = f.catalog.UpdateSettings(ctx, SettingsPatch{ActivePlaylistID: &p.ID})
	require.NoError(t, err)

	got, err := f.catalog.ReplacePlaylists(ctx, models.Playlists{
		"new": {Name: "New", Owner: plainUser.Email},
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got["new"].ID)
	assert.NotNil(t, got["new"].ShotIDs)
	assert.Nil(t, f.catalog.Settings().ActivePlaylistID)
}
