package get_availability

import (
	"time"

	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

// Request модель запроса доступности объекта
type Request struct {
	PropertyID int64
}

// Response модель ответа: дни с хотя бы одним открытым слотом,
// по возрастанию даты; слоты внутри дня по возрастанию времени
type Response struct {
	PropertyID int64
	Days       []DayAvailability
}

// DayAvailability открытые слоты одного дня
type DayAvailability struct {
	Date  time.Time
	Slots []Slot
}

// Slot открытый слот в ответе доступности
type Slot struct {
	ID        int64
	StartTime types.TimeString
	EndTime   types.TimeString
}
