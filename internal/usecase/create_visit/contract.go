package create_visit

import (
	"context"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	MarkBooked(ctx context.Context, key domain.SlotKey, visitRequestID int64) error
}

// VisitRepository интерфейс репозитория заявок
type VisitRepository interface {
	Create(ctx context.Context, v *domain.VisitRequest) (*domain.VisitRequest, error)
}

// BlackoutRepository интерфейс репозитория blackout-дат
type BlackoutRepository interface {
	Exists(ctx context.Context, propertyID int64, date time.Time) (bool, error)
}

// PropertyServiceClient интерфейс клиента для PropertyService
type PropertyServiceClient interface {
	GetProperty(ctx context.Context, propertyID int64) (*propertyservice.Property, error)
}

// Notifier интерфейс диспетчера уведомлений
type Notifier interface {
	Notify(ctx context.Context, eventType string, recipientID int64, payload map[string]interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
// Достаточно транзакции с изоляцией по умолчанию: гонку бронирований
// разрешает условное обновление слота, а не уровень изоляции.
// На SERIALIZABLE проигравшее бронирование получало бы от Postgres
// ошибку сериализации (40001) вместо нуля затронутых строк
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
