package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const applicationName = "shotboard"

// NewPostgres подключается к PostgreSQL. DSN принимается в виде URL или key=value.
func NewPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, DriverPostgres, withApplicationName(dsn))
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось подключиться: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxIdleTime(time.Minute)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return conn, nil
}

// withApplicationName добавляет application_name, если он не задан.
func withApplicationName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if strings.Contains(dsn, "application_name") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("application_name", applicationName)
		u.RawQuery = q.Encode()
		return u.String()
	}
	if dsn == "" {
		return "application_name=" + applicationName
	}
	return dsn + " application_name=" + applicationName
}
