package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
)

func TestCatalogService_PlaylistLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	importFolder(t, f.catalog, "A", map[string]string{"1.png": "img", "2.png": "img"})

	p, err := f.catalog.CreatePlaylist(ctx, plainUser, "Selects")
	require.NoError(t, err)
	_, err = uuid.Parse(p.ID)
	assert.NoError(t, err)
	assert.Equal(t, plainUser.Email, p.Owner)

	p, added, err := f.catalog.ToggleShot(ctx, plainUser, p.ID, "A/1")
	require.NoError(t, err)
	assert.True(t, added)

	_, _, err = f.catalog.ToggleShot(ctx, plainUser, p.ID, "A/none")
	assert.ErrorIs(t, err, apperror.ErrShotNotFound)

	p, err = f.catalog.BulkAdd(ctx, plainUser, p.ID, []string{"A/2", "A/1"})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"A/1", "A/2"}, p.ShotIDs)
	assert.Equal(t, []string{p.ID}, f.catalog.Memberships("A/2"))

	_, err = f.catalog.RenamePlaylist(ctx, adminUser, p.ID, "Mine now")
	assert.True(t, apperror.IsPermissionDenied(err))

	p, err = f.catalog.SharePlaylist(ctx, plainUser, p.ID, []string{adminUser.Email})
	require.NoError(t, err)
	assert.Len(t, f.catalog.Playlists(adminUser), 1)

	dup, err := f.catalog.DuplicatePlaylist(ctx, adminUser, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Selects (copy)", dup.Name)
	assert.NotEqual(t, p.ID, dup.ID)

	stored, err := f.repos.Playlists.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCatalogService_DeleteActivePlaylistClearsSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.catalog.CreatePlaylist(ctx, plainUser, "Tmp")
	require.NoError(t, err)
	settings, err := f.catalog.UpdateSettings(ctx, SettingsPatch{ActivePlaylistID: &p.ID})
	require.NoError(t, err)
	require.NotNil(t, settings.ActivePlaylistID)

	require.NoError(t, f.catalog.DeletePlaylist(ctx, plainUser, p.ID))
	assert.Nil(t, f.catalog.Settings().ActivePlaylistID)
	assert.Empty(t, f.catalog.Playlists(plainUser))

	assert.ErrorIs(t, f.catalog.DeletePlaylist(ctx, plainUser, p.ID), apperror.ErrPlaylistNotFound)
}

func TestCatalogService_CreatePlaylistValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreatePlaylist(ctx, plainUser, "   ")
	assert.True(t, apperror.IsValidation(err))

	_, err = f.catalog.CreatePlaylist(ctx, plainUser, "Dup")
	require.NoError(t, err)
	_, err = f.catalog.CreatePlaylist(ctx, adminUser, "dup")
	assert.True(t, apperror.IsNameConflict(err))
}
