package blackout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/pkg/dbmetrics"
	"github.com/estatehub/EstateHub-VisitService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с blackout-датами объектов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория blackout-дат
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create закрывает дату для объекта
// Уникальность пары (property_id, date) обеспечивается индексом:
// повторное закрытие возвращает ErrDuplicateBlackout
func (r *Repository) Create(ctx context.Context, b *domain.BlackoutDate) (*domain.BlackoutDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackout_dates").
		Columns("property_id", "date", "created_by").
		Values(b.PropertyID, b.Date, b.CreatedBy).
		Suffix("ON CONFLICT (property_id, date) DO NOTHING RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt)

	if err == sql.ErrNoRows {
		return nil, ErrDuplicateBlackout
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time

	return b, nil
}

// Delete снимает закрытие даты
func (r *Repository) Delete(ctx context.Context, propertyID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blackout_dates").
		Where(squirrel.Eq{"property_id": propertyID, "date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}

// Exists проверяет, закрыта ли дата для объекта
func (r *Repository) Exists(ctx context.Context, propertyID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("blackout_dates").
		Where(squirrel.Eq{"property_id": propertyID, "date": date}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// ListDatesByPropertyInWindow возвращает закрытые даты объекта в окне дат
func (r *Repository) ListDatesByPropertyInWindow(ctx context.Context, propertyID int64, from, to time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date").
		From("blackout_dates").
		Where(squirrel.Eq{"property_id": propertyID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDatesByPropertyInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDatesByPropertyInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("%w: ListDatesByPropertyInWindow - scan date: %v", ErrScanRow, err)
		}
		dates = append(dates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDatesByPropertyInWindow - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}
