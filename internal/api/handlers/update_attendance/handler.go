package update_attendance

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
	msgInvalidStatus      = "некорректный статус, ожидается visited или not_visited"
	msgInvalidTransition  = "отметка посещения возможна только для подтвержденной заявки"
	msgTooEarly           = "время визита еще не наступило"
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

// Handle PUT /api/v1/visits/{visitId}/visit-status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	visitID, err := strconv.ParseInt(vars["visitId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /visits/{id}/visit-status - Invalid visit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVisitID)
		return
	}

	var req UpdateAttendanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /visits/{id}/visit-status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID := middleware.UserID(r.Context())

	visit, err := h.service.SetAttendance(r.Context(), visitID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrVisitNotFound):
			h.logger.Warn("PUT /visits/{id}/visit-status - Visit not found: visit_id=%d", visitID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, visits.ErrAccessDenied):
			h.logger.Warn("PUT /visits/{id}/visit-status - Access denied: visit_id=%d, user_id=%d", visitID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, visits.ErrInvalidStatus):
			h.logger.Warn("PUT /visits/{id}/visit-status - Invalid status: visit_id=%d, status=%s", visitID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, visits.ErrInvalidTransition):
			h.logger.Warn("PUT /visits/{id}/visit-status - Invalid transition: visit_id=%d", visitID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, visits.ErrTooEarly):
			h.logger.Warn("PUT /visits/{id}/visit-status - Too early: visit_id=%d", visitID)
			handlers.RespondBadRequest(w, msgTooEarly)

		default:
			h.logger.Error("PUT /visits/{id}/visit-status - Failed to update attendance: visit_id=%d, error=%v",
				visitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /visits/{id}/visit-status - Attendance recorded: visit_id=%d, status=%s, user_id=%d",
		visitID, visit.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, visit)
}
