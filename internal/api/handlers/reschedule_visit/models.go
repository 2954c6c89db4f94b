package reschedule_visit

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	ScheduledAt string  `json:"scheduledAt"` // "2025-11-03T14:30"
	Note        *string `json:"note,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RescheduleRequest) ToServiceRequest(userID int64) (*models.RescheduleRequest, error) {
	scheduledAt, err := time.Parse(domain.DateTimeFormat, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	return &models.RescheduleRequest{
		UserID:      userID,
		ScheduledAt: scheduledAt,
		Note:        r.Note,
	}, nil
}
