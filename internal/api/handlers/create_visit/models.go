package create_visit

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	createVisit "github.com/estatehub/EstateHub-VisitService/internal/usecase/create_visit"
)

// CreateVisitRequest HTTP request model
type CreateVisitRequest struct {
	PropertyID  int64   `json:"propertyId"`
	ScheduledAt string  `json:"scheduledAt"` // "2025-11-03T14:30"
	Note        *string `json:"note,omitempty"`
}

// CreateVisitResponse HTTP response model
type CreateVisitResponse struct {
	VisitID     int64   `json:"visitId"`
	PropertyID  int64   `json:"propertyId"`
	RequesterID int64   `json:"requesterId"`
	RecipientID int64   `json:"recipientId"`
	ScheduledAt string  `json:"scheduledAt"`
	Note        *string `json:"note,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateVisitRequest) ToUseCaseRequest(requesterID int64) (*createVisit.Request, error) {
	scheduledAt, err := time.Parse(domain.DateTimeFormat, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	return &createVisit.Request{
		PropertyID:  r.PropertyID,
		RequesterID: requesterID,
		ScheduledAt: scheduledAt,
		Note:        r.Note,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createVisit.Response) *CreateVisitResponse {
	return &CreateVisitResponse{
		VisitID:     resp.ID,
		PropertyID:  resp.PropertyID,
		RequesterID: resp.RequesterID,
		RecipientID: resp.RecipientID,
		ScheduledAt: resp.ScheduledAt.Format(domain.DateTimeFormat),
		Note:        resp.Note,
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
