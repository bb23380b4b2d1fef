package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/repository/common"
)

// TagRepository отвечает за таблицу shot_tags.
type TagRepository struct {
	db *sqlx.DB
}

// NewTagRepository создаёт экземпляр репозитория.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

type shotTagsRow struct {
	ShotID string            `db:"shot_id"`
	Tags   models.StringList `db:"tags"`
}

// Get возвращает теги всех шотов.
func (r *TagRepository) Get(ctx context.Context) (models.Tags, error) {
	var rows []shotTagsRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT shot_id, tags FROM shot_tags`); err != nil {
		return nil, fmt.Errorf("tag repository: get %w", err)
	}

	out := make(models.Tags, len(rows))
	for _, row := range rows {
		if len(row.Tags) > 0 {
			out[row.ShotID] = row.Tags
		}
	}
	return out, nil
}

// Replace заменяет документ тегов целиком. Пустые списки не сохраняются.
func (r *TagRepository) Replace(ctx context.Context, tags models.Tags) error {
	rows := make([][]any, 0, len(tags))
	for id, list := range tags {
		if len(list) == 0 {
			continue
		}
		rows = append(rows, []any{id, models.StringList(list)})
	}
	if err := common.ReplaceAll(ctx, r.db, "shot_tags", "shot_id, tags", rows); err != nil {
		return fmt.Errorf("tag repository: replace %w", err)
	}
	return nil
}
