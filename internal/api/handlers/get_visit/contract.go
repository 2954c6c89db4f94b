package get_visit

import (
	"context"

	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// VisitsService интерфейс сервиса заявок на визит
type VisitsService interface {
	GetByID(ctx context.Context, id, userID int64) (*models.VisitResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
