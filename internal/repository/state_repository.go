package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Ключи одиночных документов в app_state.
const (
	KeyCurrentUser = "current_user"
	KeyGlobalTags  = "global_tags"
	KeySettings    = "settings"
)

// StateRepository хранит одиночные JSON документы по ключу.
type StateRepository struct {
	db *sqlx.DB
}

// NewStateRepository создаёт экземпляр репозитория.
func NewStateRepository(db *sqlx.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get читает документ в dst. found == false, если документ ещё не сохранялся.
func (r *StateRepository) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	query := r.db.Rebind(`SELECT value FROM app_state WHERE key = ?`)
	if err := r.db.GetContext(ctx, &raw, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("state repository: get %s %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("state repository: decode %s %w", key, err)
	}
	return true, nil
}

// Put сохраняет документ целиком, последняя запись побеждает.
func (r *StateRepository) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state repository: encode %s %w", key, err)
	}
	query := r.db.Rebind(`
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`)
	if _, err := r.db.ExecContext(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("state repository: put %s %w", key, err)
	}
	return nil
}
