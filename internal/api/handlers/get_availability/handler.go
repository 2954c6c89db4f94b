package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	getAvailability "github.com/estatehub/EstateHub-VisitService/internal/usecase/get_availability"
)

const (
	msgInvalidPropertyID = "некорректный ID объекта недвижимости"
	msgPropertyNotFound  = "объект недвижимости не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/{propertyId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	propertyID, err := strconv.ParseInt(vars["propertyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability/{id} - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{PropertyID: propertyID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrPropertyNotFound):
			h.logger.Warn("GET /availability/{id} - Property not found: property_id=%d", propertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability/{id} - Invalid input: property_id=%d", propertyID)
			handlers.RespondBadRequest(w, msgInvalidPropertyID)

		default:
			h.logger.Error("GET /availability/{id} - Failed to get availability: property_id=%d, error=%v",
				propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/{id} - Availability returned: property_id=%d, days=%d",
		propertyID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
