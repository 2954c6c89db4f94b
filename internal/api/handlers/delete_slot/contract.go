package delete_slot

import (
	"context"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
)

// SlotsService интерфейс сервиса слотов
type SlotsService interface {
	DeleteSlot(ctx context.Context, slotID, userID int64, role domain.Role) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
