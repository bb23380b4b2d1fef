// Package db открывает соединения с базой и применяет миграции.
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Поддерживаемые драйверы.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open подключается к базе выбранного драйвера.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgres(ctx, dsn)
	case DriverSQLite:
		return NewSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("db: неизвестный драйвер %q", driver)
	}
}
