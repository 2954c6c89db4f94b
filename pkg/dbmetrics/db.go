package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/estatehub/EstateHub-VisitService/pkg/metrics"
)

// DB обёртка над *sql.DB, записывающая метрики выполнения запросов
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает *sql.DB сборщиком метрик
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает *sql.DB и запускает фоновый сбор метрик
// connection pool. stopCh останавливает сбор при завершении сервиса
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, serviceName string, stopCh chan struct{}) *DB {
	wrapped := Wrap(db, m)
	go collectPoolStats(db, m, stopCh)
	return wrapped
}

// ExecContext выполняет запрос без результата, записывая метрики
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := d.db.ExecContext(ctx, query, args...)
	d.observe(queryOperation(query), start, err)
	return result, err
}

// QueryContext выполняет запрос с результатом, записывая метрики
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(queryOperation(query), start, err)
	return rows, err
}

// QueryRowContext выполняет запрос с единственной строкой результата
// Ошибка откладывается до Scan, поэтому здесь считается успехом
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(queryOperation(query), start, nil)
	return row
}

// BeginTx начинает транзакцию
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	return d.db.BeginTx(ctx, opts)
}

func (d *DB) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	d.metrics.DBQueriesTotal.WithLabelValues(operation, status).Inc()
	d.metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// queryOperation извлекает тип операции из SQL запроса (SELECT/INSERT/...)
func queryOperation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// collectPoolStats периодически снимает статистику connection pool
func collectPoolStats(db *sql.DB, m *metrics.Metrics, stopCh chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := db.Stats()
			m.DBPoolOpenConnections.WithLabelValues().Set(float64(stats.OpenConnections))
			m.DBPoolInUse.WithLabelValues().Set(float64(stats.InUse))
			m.DBPoolIdle.WithLabelValues().Set(float64(stats.Idle))
		}
	}
}
