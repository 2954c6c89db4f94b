package visit

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

const visitColumns = "id, property_id, requester_id, recipient_id, scheduled_at, note, status, created_at, updated_at"

// Repository репозиторий для работы с заявками на визит
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку на визит
func (r *Repository) Create(ctx context.Context, v *domain.VisitRequest) (*domain.VisitRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("visit_requests").
		Columns(
			"property_id",
			"requester_id",
			"recipient_id",
			"scheduled_at",
			"note",
			"status",
		).
		Values(
			v.PropertyID,
			v.RequesterID,
			v.RecipientID,
			v.ScheduledAt,
			v.Note,
			v.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return v, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.VisitRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(visitColumns).
		From("visit_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	v, err := r.scanVisitRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan visit request: %v", ErrScanRow, err)
	}

	return v, nil
}

// ListByRequester получает заявки покупателя, опционально фильтруя по статусу
func (r *Repository) ListByRequester(ctx context.Context, requesterID int64, status *domain.VisitStatus) ([]*domain.VisitRequest, error) {
	return r.listByParty(ctx, "requester_id", requesterID, status, "ListByRequester")
}

// ListByRecipient получает заявки, назначенные агенту, опционально фильтруя по статусу
func (r *Repository) ListByRecipient(ctx context.Context, recipientID int64, status *domain.VisitStatus) ([]*domain.VisitRequest, error) {
	return r.listByParty(ctx, "recipient_id", recipientID, status, "ListByRecipient")
}

func (r *Repository) listByParty(ctx context.Context, column string, partyID int64, status *domain.VisitStatus, op string) ([]*domain.VisitRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(visitColumns).
		From("visit_requests").
		Where(squirrel.Eq{column: partyID}).
		OrderBy("scheduled_at DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return r.scanVisits(rows)
}

// UpdateStatus обновляет статус заявки
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.VisitStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("visit_requests").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrVisitNotFound
	}

	return nil
}

// Reschedule переносит визит на новое время, одновременно выставляя статус
// Заметка обновляется только если передана
func (r *Repository) Reschedule(ctx context.Context, id int64, scheduledAt time.Time, status domain.VisitStatus, note *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("visit_requests").
		Set("scheduled_at", scheduledAt).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if note != nil {
		updateBuilder = updateBuilder.Set("note", *note)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrVisitNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanVisitRow(row rowScanner) (*domain.VisitRequest, error) {
	var v domain.VisitRequest
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.PropertyID,
		&v.RequesterID,
		&v.RecipientID,
		&v.ScheduledAt,
		&v.Note,
		&v.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return &v, nil
}

// scanVisits сканирует результаты запроса в слайс заявок
func (r *Repository) scanVisits(rows *sql.Rows) ([]*domain.VisitRequest, error) {
	visits := make([]*domain.VisitRequest, 0)

	for rows.Next() {
		v, err := r.scanVisitRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanVisits - scan row: %v", ErrScanRow, err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanVisits - rows error: %v", ErrScanRow, err)
	}

	return visits, nil
}
