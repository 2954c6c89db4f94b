package visits

import (
	"context"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
)

// VisitRepository интерфейс репозитория заявок на визит
type VisitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.VisitRequest, error)
	ListByRequester(ctx context.Context, requesterID int64, status *domain.VisitStatus) ([]*domain.VisitRequest, error)
	ListByRecipient(ctx context.Context, recipientID int64, status *domain.VisitStatus) ([]*domain.VisitRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.VisitStatus) error
	Reschedule(ctx context.Context, id int64, scheduledAt time.Time, status domain.VisitStatus, note *string) error
}

// Notifier интерфейс диспетчера уведомлений
// Публикация best-effort: ошибки логируются и не влияют на результат операции
type Notifier interface {
	Notify(ctx context.Context, eventType string, recipientID int64, payload map[string]interface{}) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
// Даты без времени хранятся и строятся в UTC: локальная зона здесь
// сдвигала бы сравнения моментов на смещение зоны
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
