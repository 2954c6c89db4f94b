package slots

import (
	"context"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	Delete(ctx context.Context, id int64) error
	DeleteOpenByPropertyAndDate(ctx context.Context, propertyID int64, date time.Time) (int64, error)
}

// BlackoutRepository интерфейс репозитория blackout-дат
type BlackoutRepository interface {
	Create(ctx context.Context, b *domain.BlackoutDate) (*domain.BlackoutDate, error)
	Delete(ctx context.Context, propertyID int64, date time.Time) error
}

// PropertyServiceClient интерфейс клиента для PropertyService
type PropertyServiceClient interface {
	GetProperty(ctx context.Context, propertyID int64) (*propertyservice.Property, error)
}

// TransactionManager интерфейс для управления транзакциями
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
