package delete_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/estatehub/EstateHub-VisitService/internal/api/handlers"
	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	"github.com/estatehub/EstateHub-VisitService/internal/service/slots"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgSlotNotFound  = "слот не найден"
	msgForbidden     = "доступ запрещен"
	msgSlotBooked    = "слот забронирован и не может быть удален"
	msgSlotExpired   = "слот истёк и не может быть удален"
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

// Handle DELETE /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	userID := middleware.UserID(r.Context())
	role := middleware.UserRole(r.Context())

	err = h.service.DeleteSlot(r.Context(), slotID, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("DELETE /slots/{id} - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("DELETE /slots/{id} - Access denied: slot_id=%d, user_id=%d", slotID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrSlotBooked):
			h.logger.Warn("DELETE /slots/{id} - Slot is booked: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotBooked)

		case errors.Is(err, slots.ErrSlotExpired):
			h.logger.Warn("DELETE /slots/{id} - Slot is expired: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotExpired)

		default:
			h.logger.Error("DELETE /slots/{id} - Failed to delete slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/{id} - Slot deleted: slot_id=%d, user_id=%d", slotID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
