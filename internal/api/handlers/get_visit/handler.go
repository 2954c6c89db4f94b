package get_visit

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
	msgInvalidVisitID = "некорректный ID заявки"
	msgNotFound       = "заявка на визит не найдена"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/visits/{visitId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	visitID, err := strconv.ParseInt(vars["visitId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /visits/{id} - Invalid visit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVisitID)
		return
	}

	userID := middleware.UserID(r.Context())

	// Сервис сам проверит, что вызывающий является стороной заявки
	visit, err := h.service.GetByID(r.Context(), visitID, userID)
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrVisitNotFound):
			h.logger.Warn("GET /visits/{id} - Visit not found: visit_id=%d", visitID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, visits.ErrAccessDenied):
			h.logger.Warn("GET /visits/{id} - Access denied: visit_id=%d, user_id=%d", visitID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /visits/{id} - Failed to get visit: visit_id=%d, error=%v", visitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /visits/{id} - Visit retrieved: visit_id=%d, user_id=%d", visitID, userID)
	handlers.RespondJSON(w, http.StatusOK, visit)
}
