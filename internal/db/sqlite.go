package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryDSN - DSN базы в памяти для тестов и локального запуска.
const MemoryDSN = ":memory:"

// NewSQLite открывает SQLite базу. Запись в SQLite однопоточная, поэтому пул
// ограничен одним соединением; это же сохраняет общую базу для ":memory:".
func NewSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = MemoryDSN
	}
	if !strings.Contains(dsn, "_pragma") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	conn, err := sqlx.ConnectContext(ctx, DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: не удалось открыть базу: %w", err)
	}
	conn.SetMaxOpenConns(1)

	return conn, nil
}
