package slot

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

const slotColumns = "id, property_id, visit_date, start_time, end_time, created_by, booked, expired, visit_request_id, created_at, updated_at"

// Repository репозиторий для работы со слотами просмотров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот
// Коллизия по ключу (property_id, visit_date, start_time) не считается
// сбоем запроса: ON CONFLICT DO NOTHING превращает её в ErrDuplicateSlot,
// который вызывающий код обрабатывает как пропуск отдельного элемента
func (r *Repository) Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"property_id",
			"visit_date",
			"start_time",
			"end_time",
			"created_by",
			"booked",
			"expired",
		).
		Values(
			s.PropertyID,
			s.VisitDate,
			s.StartTime,
			s.EndTime,
			s.CreatedBy,
			false,
			false,
		).
		Suffix("ON CONFLICT (property_id, visit_date, start_time) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		// ON CONFLICT DO NOTHING не вернул строку - ключ уже занят
		return nil, ErrDuplicateSlot
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns).
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := r.scanSlotRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetOpenByPropertyInWindow получает открытые слоты объекта в окне дат
// Сортировка стабильная: по дате, затем по времени начала
func (r *Repository) GetOpenByPropertyInWindow(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns).
		From("slots").
		Where(squirrel.Eq{"property_id": propertyID, "booked": false, "expired": false}).
		Where(squirrel.GtOrEq{"visit_date": from}).
		Where(squirrel.LtOrEq{"visit_date": to}).
		OrderBy("visit_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenByPropertyInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenByPropertyInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// ListOpenOnOrBefore получает все открытые слоты с датой не позже указанной
// Используется воркером экспирации: только такие слоты могли истечь
func (r *Repository) ListOpenOnOrBefore(ctx context.Context, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns).
		From("slots").
		Where(squirrel.Eq{"booked": false, "expired": false}).
		Where(squirrel.LtOrEq{"visit_date": date}).
		OrderBy("visit_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenOnOrBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenOnOrBefore - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// MarkBooked атомарно переводит открытый слот в забронированный
// Единственная критичная к гонкам операция сервиса: условие booked=false
// в WHERE гарантирует, что из двух одновременных бронирований одного
// ключа пройдёт ровно одно, второе получит ErrSlotNotOpen
func (r *Repository) MarkBooked(ctx context.Context, key domain.SlotKey, visitRequestID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked", true).
		Set("visit_request_id", visitRequestID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"property_id": key.PropertyID,
			"visit_date":  key.VisitDate,
			"start_time":  key.StartTime,
			"booked":      false,
			"expired":     false,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotOpen
	}

	return nil
}

// MarkExpired помечает открытый слот истёкшим
// Условие booked=false проверяется в момент записи, а не чтения: если
// бронирование успело пройти между выборкой воркера и этим обновлением,
// запись не затирает бронь и возвращает ErrSlotNotOpen
func (r *Repository) MarkExpired(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("expired", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "booked": false, "expired": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkExpired - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkExpired - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkExpired - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotOpen
	}

	return nil
}

// Delete удаляет открытый слот
// Забронированные и истёкшие слоты не удаляются этим методом
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id, "booked": false, "expired": false}).
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
		return ErrSlotNotOpen
	}

	return nil
}

// DeleteOpenByPropertyAndDate удаляет все открытые слоты объекта на дату
// Используется при создании blackout-даты; брони условие не затрагивает
func (r *Repository) DeleteOpenByPropertyAndDate(ctx context.Context, propertyID int64, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{
			"property_id": propertyID,
			"visit_date":  date,
			"booked":      false,
			"expired":     false,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOpenByPropertyAndDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOpenByPropertyAndDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOpenByPropertyAndDate - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// DeleteUnbookedBefore физически удаляет незабронированные слоты,
// дата которых ушла далеко за горизонт. Брони не удаляются никогда
func (r *Repository) DeleteUnbookedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"booked": false}).
		Where(squirrel.Lt{"visit_date": cutoff}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedBefore - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedBefore - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSlotRow(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.PropertyID,
		&s.VisitDate,
		&s.StartTime,
		&s.EndTime,
		&s.CreatedBy,
		&s.Booked,
		&s.Expired,
		&s.VisitRequestID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		s, err := r.scanSlotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
