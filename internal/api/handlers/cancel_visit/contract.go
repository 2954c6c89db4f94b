package cancel_visit

import (
	"context"
)

// VisitsService интерфейс сервиса заявок на визит
type VisitsService interface {
	Cancel(ctx context.Context, visitID, userID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
