package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// GetByField - универсальная функция для получения сущности по любому полю.
// Запрос пишется с "?" и переводится в синтаксис драйвера через Rebind.
func GetByField[T any](ctx context.Context, db *sqlx.DB, table, columns, field string, value any, notFoundErr error) (*T, error) {
	var entity T
	query := db.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", columns, table, field))

	if err := db.GetContext(ctx, &entity, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, fmt.Errorf("get by %s from %s: %w", field, table, err)
	}

	return &entity, nil
}

// BatchInserter копит строки и вставляет их пачками
type BatchInserter struct {
	tx          *sqlx.Tx
	query       string
	batchSize   int
	values      []any
	rowCount    int
	fieldsCount int
}

// NewBatchInserter создает новый batch inserter
func NewBatchInserter(tx *sqlx.Tx, baseQuery string, fieldsCount int, batchSize int) *BatchInserter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &BatchInserter{
		tx:          tx,
		query:       baseQuery,
		batchSize:   batchSize,
		values:      make([]any, 0, batchSize*fieldsCount),
		fieldsCount: fieldsCount,
	}
}

// Add добавляет строку для вставки
func (bi *BatchInserter) Add(ctx context.Context, rowValues ...any) error {
	if len(rowValues) != bi.fieldsCount {
		return fmt.Errorf("expected %d fields, got %d", bi.fieldsCount, len(rowValues))
	}

	bi.values = append(bi.values, rowValues...)
	bi.rowCount++

	if bi.rowCount >= bi.batchSize {
		return bi.Flush(ctx)
	}

	return nil
}

// Flush выполняет вставку накопленных значений
func (bi *BatchInserter) Flush(ctx context.Context) error {
	if bi.rowCount == 0 {
		return nil
	}

	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", bi.fieldsCount), ", ") + ")"
	rows := make([]string, bi.rowCount)
	for i := range rows {
		rows[i] = row
	}
	query := bi.tx.Rebind(bi.query + " VALUES " + strings.Join(rows, ", "))

	if _, err := bi.tx.ExecContext(ctx, query, bi.values...); err != nil {
		return fmt.Errorf("batch insert: %w", err)
	}

	bi.values = bi.values[:0]
	bi.rowCount = 0

	return nil
}

// WithTransaction выполняет функцию внутри транзакции с правильной обработкой ошибок
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ReplaceAll очищает таблицу и вставляет строки одной транзакцией.
func ReplaceAll(ctx context.Context, db *sqlx.DB, table, columns string, rows [][]any) error {
	return WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		if len(rows) == 0 {
			return nil
		}
		bi := NewBatchInserter(tx, fmt.Sprintf("INSERT INTO %s (%s)", table, columns), len(rows[0]), 100)
		for _, r := range rows {
			if err := bi.Add(ctx, r...); err != nil {
				return err
			}
		}
		return bi.Flush(ctx)
	})
}
