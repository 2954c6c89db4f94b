package get_my_visits

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

// Handle GET /api/v1/visits/my
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	// Получаем status из query параметров (опционально)
	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	result, err := h.service.ListMy(r.Context(), &models.ListRequest{
		UserID: userID,
		Status: statusPtr,
	})
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrInvalidInput):
			h.logger.Warn("GET /visits/my - Invalid status filter: user_id=%d, status=%s", userID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /visits/my - Failed to list visits: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /visits/my - Visits retrieved: user_id=%d, count=%d", userID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
