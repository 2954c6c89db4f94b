package recipient_reschedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits"
)

const (
	msgInvalidVisitID     = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты и времени, ожидается YYYY-MM-DDTHH:MM"
	msgNotFound           = "заявка на визит не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "перенести можно только подтвержденную заявку"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	service VisitsService
	logger  Logger
}

func NewHandler(service VisitsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/visits/{visitId}/recipient-reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	visitID, err := strconv.ParseInt(vars["visitId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /visits/{id}/recipient-reschedule - Invalid visit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVisitID)
		return
	}

	var req RecipientRescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /visits/{id}/recipient-reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID := middleware.UserID(r.Context())

	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("PUT /visits/{id}/recipient-reschedule - Failed to parse scheduled time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	visit, err := h.service.RecipientReschedule(r.Context(), visitID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrVisitNotFound):
			h.logger.Warn("PUT /visits/{id}/recipient-reschedule - Visit not found: visit_id=%d", visitID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, visits.ErrAccessDenied):
			h.logger.Warn("PUT /visits/{id}/recipient-reschedule - Access denied: visit_id=%d, user_id=%d",
				visitID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, visits.ErrInvalidTransition):
			h.logger.Warn("PUT /visits/{id}/recipient-reschedule - Invalid transition: visit_id=%d", visitID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, visits.ErrInvalidInput):
			h.logger.Warn("PUT /visits/{id}/recipient-reschedule - Invalid input: visit_id=%d, error=%v", visitID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /visits/{id}/recipient-reschedule - Failed to reschedule: visit_id=%d, error=%v",
				visitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /visits/{id}/recipient-reschedule - Visit rescheduled by recipient: visit_id=%d, scheduled_at=%s, user_id=%d",
		visitID, req.ScheduledAt, userID)
	handlers.RespondJSON(w, http.StatusOK, visit)
}
