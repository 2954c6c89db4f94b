package update_visit_status

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
	msgNotFound           = "заявка на визит не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidStatus      = "некорректный статус, ожидается approved или rejected"
	msgInvalidTransition  = "заявка уже рассмотрена"
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

// Handle PUT /api/v1/visits/{visitId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	visitID, err := strconv.ParseInt(vars["visitId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /visits/{id}/status - Invalid visit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVisitID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /visits/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID := middleware.UserID(r.Context())

	visit, err := h.service.SetDecision(r.Context(), visitID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrVisitNotFound):
			h.logger.Warn("PUT /visits/{id}/status - Visit not found: visit_id=%d", visitID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, visits.ErrAccessDenied):
			h.logger.Warn("PUT /visits/{id}/status - Access denied: visit_id=%d, user_id=%d", visitID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, visits.ErrInvalidStatus):
			h.logger.Warn("PUT /visits/{id}/status - Invalid status: visit_id=%d, status=%s", visitID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, visits.ErrInvalidTransition):
			h.logger.Warn("PUT /visits/{id}/status - Invalid transition: visit_id=%d, status=%s", visitID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PUT /visits/{id}/status - Failed to update status: visit_id=%d, error=%v", visitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /visits/{id}/status - Status updated: visit_id=%d, status=%s, user_id=%d",
		visitID, visit.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, visit)
}
