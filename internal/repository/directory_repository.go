package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shotboard/internal/repository/common"
)

// DirectoryRepository хранит список добавленных папок-источников.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository создаёт экземпляр репозитория.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// List возвращает папки в порядке добавления.
func (r *DirectoryRepository) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM directories ORDER BY position, name`); err != nil {
		return nil, fmt.Errorf("directory repository: list %w", err)
	}
	return names, nil
}

// Replace заменяет список папок целиком.
func (r *DirectoryRepository) Replace(ctx context.Context, names []string) error {
	rows := make([][]any, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		rows = append(rows, []any{n, len(rows)})
	}
	if err := common.ReplaceAll(ctx, r.db, "directories", "name, position", rows); err != nil {
		return fmt.Errorf("directory repository: replace %w", err)
	}
	return nil
}
