package update_visit_status

import (
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // "approved" или "rejected"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(userID int64) *models.DecisionRequest {
	return &models.DecisionRequest{
		UserID: userID,
		Status: r.Status,
	}
}
