package create_visit

import (
	"fmt"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PropertyID <= 0 {
		return fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}

	if req.Note != nil && len(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note is too long", ErrInvalidInput)
	}

	return nil
}

// validateSchedule проверяет, что момент визита строго в будущем
// и его дата не выходит за горизонт бронирования
func validateSchedule(scheduledAt, now time.Time) error {
	if !scheduledAt.After(now) {
		return ErrScheduleInPast
	}

	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	visitDate := time.Date(scheduledAt.Year(), scheduledAt.Month(), scheduledAt.Day(), 0, 0, 0, 0, now.Location())

	if visitDate.After(nowDate.AddDate(0, 0, domain.HorizonDays)) {
		return ErrDateOutOfHorizon
	}

	return nil
}

// dateOnly обнуляет время, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
