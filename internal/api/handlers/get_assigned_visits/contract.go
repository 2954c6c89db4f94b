package get_assigned_visits

import (
	"context"

	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// VisitsService интерфейс сервиса заявок на визит
type VisitsService interface {
	ListAssigned(ctx context.Context, req *models.ListRequest) ([]*models.VisitResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
