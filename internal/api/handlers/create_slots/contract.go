package create_slots

import (
	"context"

	"github.com/estatehub/EstateHub-VisitService/internal/service/slots/models"
)

// SlotsService интерфейс сервиса слотов
type SlotsService interface {
	CreateSlots(ctx context.Context, req *models.CreateSlotsRequest) (*models.CreateSlotsResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
