package models

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

// CreateSlotsRequest запрос на пакетное создание слотов
type CreateSlotsRequest struct {
	PropertyID int64
	Date       time.Time
	Times      []types.TimeString
	UserID     int64
	Role       domain.Role
}

// SkippedSlot слот, пропущенный при пакетном создании, с причиной
type SkippedSlot struct {
	Time   types.TimeString
	Reason string
}

// CreateSlotsResponse результат пакетного создания слотов
type CreateSlotsResponse struct {
	Created []*SlotResponse
	Skipped []SkippedSlot
}

// SlotResponse представление слота для вызывающего кода
type SlotResponse struct {
	ID         int64
	PropertyID int64
	VisitDate  time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Booked     bool
	Expired    bool
}

// BlackoutRequest запрос на закрытие или открытие даты
type BlackoutRequest struct {
	PropertyID int64
	Date       time.Time
	UserID     int64
	Role       domain.Role
}

// FromDomainSlot конвертирует domain.Slot в SlotResponse
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:         s.ID,
		PropertyID: s.PropertyID,
		VisitDate:  s.VisitDate,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Booked:     s.Booked,
		Expired:    s.Expired,
	}
}
