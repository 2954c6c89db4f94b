package get_assigned_visits

import (
	"errors"
	"net/http"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

const (
	msgInvalidStatus = "некорректный фильтр статуса"
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

// Handle GET /api/v1/visits/assigned
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	result, err := h.service.ListAssigned(r.Context(), &models.ListRequest{
		UserID: userID,
		Status: statusPtr,
	})
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrInvalidInput):
			h.logger.Warn("GET /visits/assigned - Invalid status filter: user_id=%d, status=%s", userID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /visits/assigned - Failed to list visits: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /visits/assigned - Visits retrieved: user_id=%d, count=%d", userID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
