package create_slots

import (
	"errors"
	"net/http"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	"github.com/estatehub/EstateHub-VisitService/internal/service/slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgPropertyNotFound   = "объект недвижимости не найден"
	msgDateOutOfHorizon   = "дата вне окна бронирования"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	service SlotsService
	logger  Logger
}

func NewHandler(service SlotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	role := middleware.UserRole(r.Context())

	var req CreateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель сервиса (с парсингом даты и времени)
	serviceReq, err := req.ToServiceRequest(userID, role)
	if err != nil {
		h.logger.Warn("POST /slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.service.CreateSlots(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrPropertyNotFound):
			h.logger.Warn("POST /slots - Property not found: property_id=%d", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /slots - Access denied: property_id=%d, user_id=%d", req.PropertyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrDateOutOfHorizon):
			h.logger.Warn("POST /slots - Date out of horizon: property_id=%d, date=%s", req.PropertyID, req.Date)
			handlers.RespondBadRequest(w, msgDateOutOfHorizon)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots - Invalid input: property_id=%d, error=%v", req.PropertyID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /slots - Failed to create slots: property_id=%d, error=%v", req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromServiceResponse(result)

	h.logger.Info("POST /slots - Slots created: property_id=%d, created=%d, skipped=%d",
		req.PropertyID, len(response.Created), len(response.Skipped))
	handlers.RespondJSON(w, http.StatusCreated, response)
}
