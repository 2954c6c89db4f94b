package sweeper

import (
	"context"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListOpenOnOrBefore(ctx context.Context, date time.Time) ([]*domain.Slot, error)
	MarkExpired(ctx context.Context, id int64) error
	DeleteUnbookedBefore(ctx context.Context, cutoff time.Time) (int64, error)
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
