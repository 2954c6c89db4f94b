package models

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
)

// VisitResponse представление заявки на визит для вызывающего кода
type VisitResponse struct {
	ID          int64     `json:"visitId"`
	PropertyID  int64     `json:"propertyId"`
	RequesterID int64     `json:"requesterId"`
	RecipientID int64     `json:"recipientId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Note        *string   `json:"note,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DecisionRequest решение получателя по pending-заявке (approved/rejected)
type DecisionRequest struct {
	UserID int64
	Status string
}

// AttendanceRequest отметка получателя о состоявшемся визите
type AttendanceRequest struct {
	UserID int64
	Status string
}

// RescheduleRequest перенос визита инициатором заявки
type RescheduleRequest struct {
	UserID      int64
	ScheduledAt time.Time
	Note        *string
}

// RecipientRescheduleRequest перенос визита получателем
type RecipientRescheduleRequest struct {
	UserID      int64
	ScheduledAt time.Time
}

// ListRequest запрос списка заявок с опциональным фильтром по статусу
type ListRequest struct {
	UserID int64
	Status *string
}

// FromDomainVisit конвертирует domain.VisitRequest в VisitResponse
func FromDomainVisit(v *domain.VisitRequest) *VisitResponse {
	return &VisitResponse{
		ID:          v.ID,
		PropertyID:  v.PropertyID,
		RequesterID: v.RequesterID,
		RecipientID: v.RecipientID,
		ScheduledAt: v.ScheduledAt,
		Note:        v.Note,
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// FromDomainVisitList конвертирует слайс заявок
func FromDomainVisitList(visits []*domain.VisitRequest) []*VisitResponse {
	result := make([]*VisitResponse, len(visits))
	for i, v := range visits {
		result[i] = FromDomainVisit(v)
	}
	return result
}

// ToDomainVisitStatus валидирует и конвертирует статус из строки
func ToDomainVisitStatus(s string) (domain.VisitStatus, error) {
	status := domain.VisitStatus(s)
	switch status {
	case domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
		domain.StatusVisited, domain.StatusNotVisited:
		return status, nil
	default:
		return "", ErrUnknownStatus
	}
}
