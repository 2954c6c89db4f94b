package create_slots

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/internal/service/slots/models"
	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

// CreateSlotsRequest HTTP request model
type CreateSlotsRequest struct {
	PropertyID int64    `json:"propertyId"`
	Date       string   `json:"date"`  // "2025-11-03"
	Times      []string `json:"times"` // ["09:00", "09:30"]
}

// SlotResponse HTTP модель созданного слота
type SlotResponse struct {
	SlotID     int64  `json:"slotId"`
	PropertyID int64  `json:"propertyId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// SkippedResponse HTTP модель пропущенного времени с причиной
type SkippedResponse struct {
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// CreateSlotsResponse HTTP response model
type CreateSlotsResponse struct {
	Created []SlotResponse    `json:"created"`
	Skipped []SkippedResponse `json:"skipped"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSlotsRequest) ToServiceRequest(userID int64, role domain.Role) (*models.CreateSlotsRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	times := make([]types.TimeString, 0, len(r.Times))
	for _, raw := range r.Times {
		t, err := types.NewTimeStringFromString(raw)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}

	return &models.CreateSlotsRequest{
		PropertyID: r.PropertyID,
		Date:       date,
		Times:      times,
		UserID:     userID,
		Role:       role,
	}, nil
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.CreateSlotsResponse) *CreateSlotsResponse {
	out := &CreateSlotsResponse{
		Created: make([]SlotResponse, 0, len(resp.Created)),
		Skipped: make([]SkippedResponse, 0, len(resp.Skipped)),
	}

	for _, s := range resp.Created {
		out.Created = append(out.Created, SlotResponse{
			SlotID:     s.ID,
			PropertyID: s.PropertyID,
			Date:       s.VisitDate.Format(domain.DateFormat),
			StartTime:  s.StartTime.String(),
			EndTime:    s.EndTime.String(),
		})
	}

	for _, s := range resp.Skipped {
		out.Skipped = append(out.Skipped, SkippedResponse{
			Time:   s.Time.String(),
			Reason: s.Reason,
		})
	}

	return out
}
