package create_visit

import (
	"errors"
	"net/http"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	createVisit "github.com/estatehub/EstateHub-VisitService/internal/usecase/create_visit"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты и времени, ожидается YYYY-MM-DDTHH:MM"
	msgPropertyNotFound   = "объект недвижимости не найден"
	msgScheduleInPast     = "время визита должно быть в будущем"
	msgDateOutOfHorizon   = "дата визита вне окна бронирования"
	msgDateUnavailable    = "дата закрыта для показов"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CreateVisitUseCase
	logger  Logger
}

func NewHandler(useCase CreateVisitUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/visits
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.UserID(r.Context())

	var req CreateVisitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /visits - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(requesterID)
	if err != nil {
		h.logger.Warn("POST /visits - Failed to parse scheduled time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createVisit.ErrSlotNotAvailable):
			h.logger.Warn("POST /visits - Slot not available: property_id=%d, requester_id=%d",
				req.PropertyID, requesterID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createVisit.ErrPropertyNotFound):
			h.logger.Warn("POST /visits - Property not found: property_id=%d", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, createVisit.ErrScheduleInPast):
			h.logger.Warn("POST /visits - Scheduled time in past: property_id=%d, scheduled_at=%s",
				req.PropertyID, req.ScheduledAt)
			handlers.RespondBadRequest(w, msgScheduleInPast)

		case errors.Is(err, createVisit.ErrDateOutOfHorizon):
			h.logger.Warn("POST /visits - Date out of horizon: property_id=%d, scheduled_at=%s",
				req.PropertyID, req.ScheduledAt)
			handlers.RespondBadRequest(w, msgDateOutOfHorizon)

		case errors.Is(err, createVisit.ErrDateUnavailable):
			h.logger.Warn("POST /visits - Date unavailable: property_id=%d, scheduled_at=%s",
				req.PropertyID, req.ScheduledAt)
			handlers.RespondConflict(w, msgDateUnavailable)

		case errors.Is(err, createVisit.ErrInvalidInput):
			h.logger.Warn("POST /visits - Invalid input: property_id=%d, error=%v", req.PropertyID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /visits - Failed to create visit: property_id=%d, requester_id=%d, error=%v",
				req.PropertyID, requesterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /visits - Visit created: visit_id=%d, property_id=%d, requester_id=%d",
		result.ID, req.PropertyID, requesterID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
