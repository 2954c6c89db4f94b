package dbmetrics

import (
	"context"
	"database/sql"
)

// DBExecutor общий интерфейс для выполнения запросов
// Реализуется *sql.DB, *sql.Tx и обёртками этого пакета
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor интерфейс транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// executorKey ключ контекста для активной транзакции
type executorKey struct{}

// WithExecutor кладет транзакцию в контекст
// Используется transaction manager'ами, чтобы репозитории выполняли
// запросы внутри активной транзакции без изменения сигнатур
func WithExecutor(ctx context.Context, tx DBExecutor) context.Context {
	return context.WithValue(ctx, executorKey{}, tx)
}

// GetExecutor возвращает транзакцию из контекста, если она есть,
// иначе переданный по умолчанию executor
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(executorKey{}).(DBExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction возвращает true, если в контексте есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(executorKey{}).(DBExecutor)
	return ok
}
