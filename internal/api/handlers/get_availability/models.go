package get_availability

import (
	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	getAvailability "github.com/estatehub/EstateHub-VisitService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
// Даты продублированы отдельным списком: map не сохраняет порядок,
// availableDates задаёт его по возрастанию
type AvailabilityResponse struct {
	PropertyID     int64                     `json:"propertyId"`
	AvailableDates []string                  `json:"availableDates"`
	SlotsByDate    map[string][]SlotResponse `json:"slotsByDate"`
}

// SlotResponse открытый слот в ответе доступности
type SlotResponse struct {
	SlotID    int64  `json:"slotId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		PropertyID:     resp.PropertyID,
		AvailableDates: make([]string, 0, len(resp.Days)),
		SlotsByDate:    make(map[string][]SlotResponse, len(resp.Days)),
	}

	for _, day := range resp.Days {
		date := day.Date.Format(domain.DateFormat)
		slots := make([]SlotResponse, 0, len(day.Slots))
		for _, s := range day.Slots {
			slots = append(slots, SlotResponse{
				SlotID:    s.ID,
				StartTime: s.StartTime.String(),
				EndTime:   s.EndTime.String(),
			})
		}
		out.AvailableDates = append(out.AvailableDates, date)
		out.SlotsByDate[date] = slots
	}

	return out
}
