package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/pkg/apperror"
	"github.com/ignatzorin/shotboard/internal/repository/common"
)

// UserRepository отвечает за таблицу users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List возвращает пользователей в сохранённом порядке.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	query := `SELECT email, name, role FROM users ORDER BY position, email`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("user repository: list %w", err)
	}
	return users, nil
}

// GetByEmail возвращает пользователя по email без учёта регистра.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email, name, role", "LOWER(email)", strings.ToLower(strings.TrimSpace(email)), apperror.ErrUserNotFound)
}

// Replace заменяет документ пользователей целиком.
func (r *UserRepository) Replace(ctx context.Context, users []models.User) error {
	rows := make([][]any, 0, len(users))
	for i, u := range users {
		rows = append(rows, []any{u.Email, u.Name, u.Role, i})
	}
	if err := common.ReplaceAll(ctx, r.db, "users", "email, name, role, position", rows); err != nil {
		return fmt.Errorf("user repository: replace %w", err)
	}
	return nil
}
