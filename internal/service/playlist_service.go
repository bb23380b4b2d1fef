package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/validation"
	"github.com/ignatzorin/shotboard/internal/ws"
)

// Playlists возвращает плейлисты, доступные пользователю.
func (s *CatalogService) Playlists(actor models.User) []models.Playlist {
	return catalog.VisiblePlaylists(s.store.Load().Playlists, actor)
}

// Playlist возвращает плейлист, если пользователь может его видеть.
func (s *CatalogService) Playlist(actor models.User, id string) (models.Playlist, error) {
	p, ok := s.store.Load().Playlists[id]
	if !ok {
		return models.Playlist{}, apperror.ErrPlaylistNotFound
	}
	if !catalog.CanEdit(actor, p) && !actor.IsAdmin() {
		return models.Playlist{}, apperror.ErrPermissionDenied
	}
	return p.Clone(), nil
}

// Memberships возвращает ID плейлистов с шотом.
func (s *CatalogService) Memberships(shotID string) []string {
	return catalog.Memberships(s.store.Load().Playlists, shotID)
}

// CreatePlaylist создаёт плейлист.
func (s *CatalogService) CreatePlaylist(ctx context.Context, actor models.User, name string) (models.Playlist, error) {
	if err := validation.ValidatePlaylistName(name); err != nil {
		return models.Playlist{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	var created models.Playlist
	err := s.updatePlaylists(ctx, func(ps models.Playlists) (models.Playlists, error) {
		next, p, err := catalog.CreatePlaylist(ps, actor, uuid.NewString(), name)
		created = p
		return next, err
	})
	return created, err
}

// RenamePlaylist переименовывает плейлист.
func (s *CatalogService) RenamePlaylist(ctx context.Context, actor models.User, id, name string) (models.Playlist, error) {
	if err := validation.ValidatePlaylistName(name); err != nil {
		return models.Playlist{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return s.updatePlaylist(ctx, id, func(ps models.Playlists) (models.Playlists, error) {
		return catalog.RenamePlaylist(ps, actor, id, name)
	})
}

// DeletePlaylist удаляет плейлист. Активный плейлист при этом сбрасывается.
func (s *CatalogService) DeletePlaylist(ctx context.Context, actor models.User, id string) error {
	_, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		ps, err := catalog.DeletePlaylist(st.Playlists, actor, id)
		if err != nil {
			return st, err
		}
		if err := s.playlists.Replace(ctx, ps); err != nil {
			return st, fmt.Errorf("playlists: сохранение: %w", err)
		}
		if active := s.currentPrefs().ActivePlaylistID; active != nil && *active == id {
			prefs := s.currentPrefs()
			prefs.ActivePlaylistID = nil
			if err := s.persistSettings(ctx, st.Covers, prefs); err != nil {
				return st, err
			}
			s.setPrefs(prefs)
		}
		st.Playlists = ps
		return st, nil
	})
	if err != nil {
		return err
	}
	_ = s.events.Broadcast(ws.EventPlaylistsUpdated, map[string]any{"deleted": id})
	return nil
}

// DuplicatePlaylist копирует плейлист; копия принадлежит actor.
func (s *CatalogService) DuplicatePlaylist(ctx context.Context, actor models.User, id string) (models.Playlist, error) {
	var dup models.Playlist
	err := s.updatePlaylists(ctx, func(ps models.Playlists) (models.Playlists, error) {
		next, p, err := catalog.DuplicatePlaylist(ps, actor, id, uuid.NewString())
		dup = p
		return next, err
	})
	return dup, err
}

// ToggleShot добавляет шот в плейлист или убирает его оттуда.
func (s *CatalogService) ToggleShot(ctx context.Context, actor models.User, id, shotID string) (models.Playlist, bool, error) {
	if _, ok := s.store.Load().Shot(shotID); !ok {
		return models.Playlist{}, false, apperror.ErrShotNotFound
	}
	var added bool
	p, err := s.updatePlaylist(ctx, id, func(ps models.Playlists) (models.Playlists, error) {
		next, a, err := catalog.ToggleShot(ps, actor, id, shotID)
		added = a
		return next, err
	})
	return p, added, err
}

// BulkAdd добавляет несколько шотов в конец плейлиста.
func (s *CatalogService) BulkAdd(ctx context.Context, actor models.User, id string, shotIDs []string) (models.Playlist, error) {
	return s.updatePlaylist(ctx, id, func(ps models.Playlists) (models.Playlists, error) {
		return catalog.BulkAdd(ps, actor, id, shotIDs)
	})
}

// SharePlaylist заменяет список пользователей, с которыми плейлист открыт.
func (s *CatalogService) SharePlaylist(ctx context.Context, actor models.User, id string, emails []string) (models.Playlist, error) {
	return s.updatePlaylist(ctx, id, func(ps models.Playlists) (models.Playlists, error) {
		return catalog.SharePlaylist(ps, actor, id, emails)
	})
}

func (s *CatalogService) updatePlaylist(ctx context.Context, id string, fn func(models.Playlists) (models.Playlists, error)) (models.Playlist, error) {
	var out models.Playlist
	err := s.updatePlaylists(ctx, func(ps models.Playlists) (models.Playlists, error) {
		next, err := fn(ps)
		if err != nil {
			return ps, err
		}
		out = next[id].Clone()
		return next, nil
	})
	return out, err
}

func (s *CatalogService) updatePlaylists(ctx context.Context, fn func(models.Playlists) (models.Playlists, error)) error {
	_, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		ps, err := fn(st.Playlists)
		if err != nil {
			return st, err
		}
		if err := s.playlists.Replace(ctx, ps); err != nil {
			return st, fmt.Errorf("playlists: сохранение: %w", err)
		}
		st.Playlists = ps
		return st, nil
	})
	if err != nil {
		return err
	}
	_ = s.events.Broadcast(ws.EventPlaylistsUpdated, nil)
	return nil
}
