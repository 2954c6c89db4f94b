package mark_unavailable

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/internal/service/slots/models"
)

// MarkUnavailableRequest HTTP request model
type MarkUnavailableRequest struct {
	PropertyID int64  `json:"propertyId"`
	Date       string `json:"date"` // "2025-11-03"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *MarkUnavailableRequest) ToServiceRequest(userID int64, role domain.Role) (*models.BlackoutRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.BlackoutRequest{
		PropertyID: r.PropertyID,
		Date:       date,
		UserID:     userID,
		Role:       role,
	}, nil
}
