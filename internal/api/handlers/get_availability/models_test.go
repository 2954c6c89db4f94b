package get_availability

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailability "github.com/estatehub/EstateHub-VisitService/internal/usecase/get_availability"
)

func TestFromUseCaseResponse(t *testing.T) {
	resp := FromUseCaseResponse(&getAvailability.Response{
		PropertyID: 10,
		Days: []getAvailability.DayAvailability{
			{
				Date: time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC),
				Slots: []getAvailability.Slot{
					{ID: 1, StartTime: "10:00", EndTime: "10:30"},
					{ID: 2, StartTime: "14:00", EndTime: "14:30"},
				},
			},
			{
				Date: time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC),
				Slots: []getAvailability.Slot{
					{ID: 3, StartTime: "09:00", EndTime: "09:30"},
				},
			},
		},
	})

	assert.Equal(t, int64(10), resp.PropertyID)

	// Список дат задаёт порядок, map - слоты каждой даты
	assert.Equal(t, []string{"2025-11-05", "2025-11-07"}, resp.AvailableDates)
	require.Len(t, resp.SlotsByDate, 2)
	assert.Equal(t, []SlotResponse{
		{SlotID: 1, StartTime: "10:00", EndTime: "10:30"},
		{SlotID: 2, StartTime: "14:00", EndTime: "14:30"},
	}, resp.SlotsByDate["2025-11-05"])
	assert.Equal(t, []SlotResponse{
		{SlotID: 3, StartTime: "09:00", EndTime: "09:30"},
	}, resp.SlotsByDate["2025-11-07"])
}

func TestAvailabilityResponseJSONKeys(t *testing.T) {
	body, err := json.Marshal(FromUseCaseResponse(&getAvailability.Response{PropertyID: 10}))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded, "availableDates")
	assert.Contains(t, decoded, "slotsByDate")
}
