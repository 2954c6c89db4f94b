package update_attendance

import (
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// UpdateAttendanceRequest HTTP request model
type UpdateAttendanceRequest struct {
	Status string `json:"status"` // "visited" или "not_visited"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAttendanceRequest) ToServiceRequest(userID int64) *models.AttendanceRequest {
	return &models.AttendanceRequest{
		UserID: userID,
		Status: r.Status,
	}
}
