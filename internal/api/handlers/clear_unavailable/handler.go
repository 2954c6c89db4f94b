package clear_unavailable

import (
	"errors"
	"net/http"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	"github.com/estatehub/EstateHub-VisitService/internal/service/slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPropertyNotFound   = "объект недвижимости не найден"
	msgForbidden          = "доступ запрещен"
	msgBlackoutNotFound   = "закрытие даты не найдено"
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

// Handle DELETE /api/v1/unavailable
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	role := middleware.UserRole(r.Context())

	var req ClearUnavailableRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /unavailable - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID, role)
	if err != nil {
		h.logger.Warn("DELETE /unavailable - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	err = h.service.ClearUnavailable(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrPropertyNotFound):
			h.logger.Warn("DELETE /unavailable - Property not found: property_id=%d", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("DELETE /unavailable - Access denied: property_id=%d, user_id=%d", req.PropertyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /unavailable - Blackout not found: property_id=%d, date=%s", req.PropertyID, req.Date)
			handlers.RespondNotFound(w, msgBlackoutNotFound)

		default:
			h.logger.Error("DELETE /unavailable - Failed to clear blackout: property_id=%d, error=%v", req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /unavailable - Blackout cleared: property_id=%d, date=%s, user_id=%d",
		req.PropertyID, req.Date, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
