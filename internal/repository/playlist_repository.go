package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/repository/common"
)

// PlaylistRepository отвечает за таблицу playlists.
type PlaylistRepository struct {
	db *sqlx.DB
}

// NewPlaylistRepository создаёт экземпляр репозитория.
func NewPlaylistRepository(db *sqlx.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// List возвращает все плейлисты.
func (r *PlaylistRepository) List(ctx context.Context) (models.Playlists, error) {
	var rows []models.Playlist
	query := `SELECT id, name, owner, shot_ids, shared_with FROM playlists`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("playlist repository: list %w", err)
	}

	out := make(models.Playlists, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// Replace заменяет документ плейлистов целиком.
func (r *PlaylistRepository) Replace(ctx context.Context, playlists models.Playlists) error {
	rows := make([][]any, 0, len(playlists))
	for id, p := range playlists {
		rows = append(rows, []any{id, p.Name, p.Owner, p.ShotIDs, p.SharedWith})
	}
	if err := common.ReplaceAll(ctx, r.db, "playlists", "id, name, owner, shot_ids, shared_with", rows); err != nil {
		return fmt.Errorf("playlist repository: replace %w", err)
	}
	return nil
}
