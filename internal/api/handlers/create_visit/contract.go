package create_visit

import (
	"context"

	createVisit "github.com/estatehub/EstateHub-VisitService/internal/usecase/create_visit"
)

// CreateVisitUseCase интерфейс use case бронирования визита
type CreateVisitUseCase interface {
	Execute(ctx context.Context, req *createVisit.Request) (*createVisit.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
