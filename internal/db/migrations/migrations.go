// Package migrations содержит встроенные SQL миграции.
package migrations

import "embed"

// FS - миграции схемы, общие для PostgreSQL и SQLite.
//
//go:embed *.sql
var FS embed.FS
