package recipient_reschedule

import (
	"context"

	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// VisitsService интерфейс сервиса заявок на визит
type VisitsService interface {
	RecipientReschedule(ctx context.Context, visitID int64, req *models.RecipientRescheduleRequest) (*models.VisitResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
