package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/repository"
	"github.com/ignatzorin/shotboard/internal/validation"
	"github.com/ignatzorin/shotboard/internal/ws"
)

// Tags возвращает теги всех шотов.
func (s *CatalogService) Tags() models.Tags {
	return s.store.Load().Tags.Clone()
}

// GlobalTags возвращает общий словарь тегов.
func (s *CatalogService) GlobalTags() []string {
	return append([]string{}, s.store.Load().GlobalTags...)
}

// ShotTags возвращает теги одного шота.
func (s *CatalogService) ShotTags(shotID string) ([]string, error) {
	st := s.store.Load()
	if _, ok := st.Shot(shotID); !ok {
		return nil, apperror.ErrShotNotFound
	}
	return append([]string{}, st.Tags[shotID]...), nil
}

// AddTag добавляет тег шоту.
func (s *CatalogService) AddTag(ctx context.Context, shotID, tag string) ([]string, error) {
	if err := validation.ValidateTag(tag); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return s.updateShotTags(ctx, shotID, func(tags models.Tags) (models.Tags, error) {
		return catalog.AddTag(tags, shotID, tag)
	})
}

// RemoveTag удаляет тег шота.
func (s *CatalogService) RemoveTag(ctx context.Context, shotID, tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	return s.updateShotTags(ctx, shotID, func(tags models.Tags) (models.Tags, error) {
		return catalog.RemoveTag(tags, shotID, tag), nil
	})
}

func (s *CatalogService) updateShotTags(ctx context.Context, shotID string, fn func(models.Tags) (models.Tags, error)) ([]string, error) {
	next, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		if _, ok := st.Shot(shotID); !ok {
			return st, apperror.ErrShotNotFound
		}
		tags, err := fn(st.Tags)
		if err != nil {
			return st, err
		}
		if err := s.tags.Replace(ctx, tags); err != nil {
			return st, fmt.Errorf("tags: сохранение: %w", err)
		}
		st.Tags = tags
		return st, nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.events.Broadcast(ws.EventTagsUpdated, map[string]any{"shotId": shotID, "tags": next.Tags[shotID]})
	return append([]string{}, next.Tags[shotID]...), nil
}

// BulkTagRequest - групповое изменение тегов.
type BulkTagRequest struct {
	ShotIDs []string `json:"shotIds"`
	Add     []string `json:"add"`
	Remove  []string `json:"remove"`
}

// BulkTag добавляет и удаляет теги у нескольких шотов одним изменением.
// Неизвестные шоты пропускаются.
func (s *CatalogService) BulkTag(ctx context.Context, req BulkTagRequest) (models.Tags, error) {
	for _, t := range req.Add {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if err := validation.ValidateTag(t); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	next, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		known := make([]string, 0, len(req.ShotIDs))
		for _, id := range req.ShotIDs {
			if _, ok := st.Shot(id); ok {
				known = append(known, id)
			}
		}
		tags := catalog.BulkTag(st.Tags, known, req.Add, req.Remove)
		for _, id := range known {
			if len(tags[id]) > catalog.MaxTagsPerShot {
				return st, apperror.Newf(apperror.ErrCodeValidation, "у шота %s не может быть больше %d тегов", id, catalog.MaxTagsPerShot)
			}
		}
		if err := s.tags.Replace(ctx, tags); err != nil {
			return st, fmt.Errorf("tags: сохранение: %w", err)
		}
		st.Tags = tags
		return st, nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.events.Broadcast(ws.EventTagsUpdated, map[string]any{"shotIds": req.ShotIDs})
	return next.Tags.Clone(), nil
}

// AddGlobalTag добавляет тег в общий словарь.
func (s *CatalogService) AddGlobalTag(ctx context.Context, actor models.User, tag string) ([]string, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if err := validation.ValidateTag(tag); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return s.updateGlobals(ctx, func(st catalog.State) (catalog.State, error) {
		globals, err := catalog.AddGlobalTag(st.GlobalTags, tag)
		if err != nil {
			return st, err
		}
		st.GlobalTags = globals
		return st, nil
	})
}

// RenameGlobalTag переименовывает тег словаря и во всех шотах.
func (s *CatalogService) RenameGlobalTag(ctx context.Context, actor models.User, oldTag, newTag string) ([]string, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if err := validation.ValidateTag(newTag); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	newTag = strings.TrimSpace(newTag)
	return s.updateGlobals(ctx, func(st catalog.State) (catalog.State, error) {
		globals, err := catalog.RenameGlobalTag(st.GlobalTags, oldTag, newTag)
		if err != nil {
			return st, err
		}
		st.GlobalTags = globals
		st.Tags = catalog.RenameTag(st.Tags, oldTag, newTag)
		return st, nil
	})
}

// DeleteGlobalTag удаляет тег из словаря и из всех шотов.
func (s *CatalogService) DeleteGlobalTag(ctx context.Context, actor models.User, tag string) ([]string, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	return s.updateGlobals(ctx, func(st catalog.State) (catalog.State, error) {
		st.GlobalTags = catalog.DeleteGlobalTag(st.GlobalTags, tag)
		st.Tags = catalog.DeleteTag(st.Tags, tag)
		return st, nil
	})
}

// updateGlobals сохраняет словарь и теги шотов, если переход их изменил.
func (s *CatalogService) updateGlobals(ctx context.Context, fn func(catalog.State) (catalog.State, error)) ([]string, error) {
	next, err := s.update(ctx, func(st catalog.State) (catalog.State, error) {
		updated, err := fn(st)
		if err != nil {
			return st, err
		}
		if err := s.state.Put(ctx, repository.KeyGlobalTags, updated.GlobalTags); err != nil {
			return st, fmt.Errorf("tags: сохранение словаря: %w", err)
		}
		if err := s.tags.Replace(ctx, updated.Tags); err != nil {
			return st, fmt.Errorf("tags: сохранение: %w", err)
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.events.Broadcast(ws.EventTagsUpdated, map[string]any{"globalTags": next.GlobalTags})
	return append([]string{}, next.GlobalTags...), nil
}
