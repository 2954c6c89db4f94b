package recipient_reschedule

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// RecipientRescheduleRequest HTTP request model
type RecipientRescheduleRequest struct {
	ScheduledAt string `json:"scheduledAt"` // "2025-11-03T14:30"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RecipientRescheduleRequest) ToServiceRequest(userID int64) (*models.RecipientRescheduleRequest, error) {
	scheduledAt, err := time.Parse(domain.DateTimeFormat, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	return &models.RecipientRescheduleRequest{
		UserID:      userID,
		ScheduledAt: scheduledAt,
	}, nil
}
