package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/repository"
	"github.com/ignatzorin/shotboard/internal/ws"
)

// SettingsPatch - частичное изменение настроек. ClearActivePlaylist сбрасывает активный плейлист.
type SettingsPatch struct {
	ActivePlaylistID    *string `json:"activePlaylistId"`
	ClearActivePlaylist bool    `json:"clearActivePlaylist"`
	IsSidebarOpen       *bool   `json:"isSidebarOpen"`
}

// Settings возвращает документ настроек.
func (s *CatalogService) Settings() models.Settings {
	return settingsDoc(s.store.Load().Covers, s.currentPrefs())
}

// UpdateSettings применяет частичное изменение предпочтений. Обложки меняются через SetCover.
func (s *CatalogService) UpdateSettings(ctx context.Context, patch SettingsPatch) (models.Settings, error) {
	var out models.Settings
	_, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		prefs := s.currentPrefs()
		switch {
		case patch.ClearActivePlaylist:
			prefs.ActivePlaylistID = nil
		case patch.ActivePlaylistID != nil:
			id := *patch.ActivePlaylistID
			if _, ok := st.Playlists[id]; !ok {
				return st, apperror.ErrPlaylistNotFound
			}
			prefs.ActivePlaylistID = &id
		}
		if patch.IsSidebarOpen != nil {
			prefs.IsSidebarOpen = *patch.IsSidebarOpen
		}
		if err := s.persistSettings(ctx, st.Covers, prefs); err != nil {
			return st, err
		}
		s.setPrefs(prefs)
		out = settingsDoc(st.Covers, prefs)
		return st, nil
	})
	if err != nil {
		return models.Settings{}, err
	}
	_ = s.events.Broadcast(ws.EventSettingsUpdated, out)
	return out, nil
}

// ReplaceSettings заменяет документ настроек целиком, включая обложки.
func (s *CatalogService) ReplaceSettings(ctx context.Context, doc models.Settings) (models.Settings, error) {
	if doc.ShotCovers == nil {
		doc.ShotCovers = models.ShotCovers{}
	}
	var out models.Settings
	_, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		prefs := models.Settings{ActivePlaylistID: doc.ActivePlaylistID, IsSidebarOpen: doc.IsSidebarOpen}
		if id := prefs.ActivePlaylistID; id != nil {
			if _, ok := st.Playlists[*id]; !ok {
				prefs.ActivePlaylistID = nil
			}
		}
		if err := s.persistSettings(ctx, doc.ShotCovers, prefs); err != nil {
			return st, err
		}
		s.setPrefs(prefs)
		next := st.ReplaceCovers(doc.ShotCovers)
		out = settingsDoc(next.Covers, prefs)
		return next, nil
	})
	if err != nil {
		return models.Settings{}, err
	}
	_ = s.events.Broadcast(ws.EventSettingsUpdated, out)
	return out, nil
}

// ReplaceTags заменяет документ тегов шотов.
func (s *CatalogService) ReplaceTags(ctx context.Context, tags models.Tags) (models.Tags, error) {
	tags = catalog.NormalizeTags(tags)
	_, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		if err := s.tags.Replace(ctx, tags); err != nil {
			return st, fmt.Errorf("tags: сохранение: %w", err)
		}
		st.Tags = tags
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Broadcast(ws.EventTagsUpdated, nil)
	return tags.Clone(), nil
}

// ReplaceGlobalTags заменяет общий словарь тегов.
func (s *CatalogService) ReplaceGlobalTags(ctx context.Context, globals []string) ([]string, error) {
	var next []string
	var err error
	for _, t := range globals {
		if next, err = catalog.AddGlobalTag(next, t); err != nil && !apperror.IsNameConflict(err) {
			return nil, err
		}
	}
	if next == nil {
		next = []string{}
	}
	_, err = s.update(ctx, func(st catalog.State) (catalog.State, error) {
		if err := s.state.Put(ctx, repository.KeyGlobalTags, next); err != nil {
			return st, fmt.Errorf("tags: сохранение словаря: %w", err)
		}
		st.GlobalTags = next
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Broadcast(ws.EventTagsUpdated, map[string]any{"globalTags": next})
	return append([]string{}, next...), nil
}

// ReplacePlaylists заменяет документ плейлистов. Ключ карты задаёт ID плейлиста.
func (s *CatalogService) ReplacePlaylists(ctx context.Context, ps models.Playlists) (models.Playlists, error) {
	next := make(models.Playlists, len(ps))
	for id, p := range ps {
		if id == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "у плейлиста должен быть ID")
		}
		p = p.Clone()
		p.ID = id
		if p.ShotIDs == nil {
			p.ShotIDs = models.StringList{}
		}
		if p.SharedWith == nil {
			p.SharedWith = models.StringList{}
		}
		next[id] = p
	}

	_, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		if err := s.playlists.Replace(ctx, next); err != nil {
			return st, fmt.Errorf("playlists: сохранение: %w", err)
		}
		if active := s.currentPrefs().ActivePlaylistID; active != nil {
			if _, ok := next[*active]; !ok {
				prefs := s.currentPrefs()
				prefs.ActivePlaylistID = nil
				if err := s.persistSettings(ctx, st.Covers, prefs); err != nil {
					return st, err
				}
				s.setPrefs(prefs)
			}
		}
		st.Playlists = next
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Broadcast(ws.EventPlaylistsUpdated, nil)
	return next.Clone(), nil
}

// ReplaceDirectories приводит каталог к списку папок: лишние убираются,
// недостающие собираются из хранилища заново.
func (s *CatalogService) ReplaceDirectories(ctx context.Context, names []string) ([]string, error) {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	current := s.store.Load()
	covers := current.Covers
	batches := make([]models.Shot, 0)
	for _, n := range names {
		if current.HasFolder(n) {
			continue
		}
		descs, err := s.files.Scan(n)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeNotFound, fmt.Sprintf("папка %q отсутствует в хранилище", n))
		}
		shots, err := s.aggregator.Aggregate(ctx, descs, covers)
		if err != nil {
			return nil, err
		}
		batches = append(batches, shots...)
	}

	next, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		out := st
		for _, f := range st.SourceFolders() {
			if _, ok := want[f]; ok {
				continue
			}
			var err error
			if out, err = out.RemoveFolder(f); err != nil {
				return st, err
			}
		}
		out, err := out.MergeShots(batches)
		if err != nil {
			return st, err
		}
		if err := s.dirs.Replace(ctx, out.SourceFolders()); err != nil {
			return st, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Entry(logrus.Fields{"folders": len(next.SourceFolders())}).Info("catalog: список папок заменён")
	_ = s.events.Broadcast(ws.EventCatalogUpdated, map[string]any{"shots": len(next.Shots)})
	return next.SourceFolders(), nil
}

func settingsDoc(covers models.ShotCovers, prefs models.Settings) models.Settings {
	return models.Settings{
		ShotCovers:       covers.Clone(),
		ActivePlaylistID: prefs.ActivePlaylistID,
		IsSidebarOpen:    prefs.IsSidebarOpen,
	}
}
