package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	propertyClient "github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

// UseCase use case расчёта доступности объекта
// Результат детерминирован состоянием хранилища и текущим моментом:
// повторный вызов без изменений данных возвращает тот же ответ
type UseCase struct {
	slotRepo       SlotRepository
	blackoutRepo   BlackoutRepository
	propertyClient PropertyServiceClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	blackoutRepo BlackoutRepository,
	propertyClient PropertyServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		blackoutRepo:   blackoutRepo,
		propertyClient: propertyClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute возвращает открытые слоты объекта в горизонте бронирования,
// исключая закрытые даты и уже прошедшие времена сегодняшнего дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: property=%d", req.PropertyID)

	// 1. Валидация входных данных
	if req.PropertyID <= 0 {
		return nil, fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	// 2. Проверяем существование объекта
	if _, err := uc.propertyClient.GetProperty(ctx, req.PropertyID); err != nil {
		if errors.Is(err, propertyClient.ErrPropertyNotFound) {
			uc.logger.Warn("GetAvailability: property id=%d not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("GetAvailability: failed to get property id=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get property: %v", ErrInternal, err)
	}

	// 3. Окно расчёта: [сегодня, сегодня + HorizonDays]
	now := uc.timeProvider.Now()
	from := dateOnly(now)
	to := from.AddDate(0, 0, domain.HorizonDays)

	// 4. Открытые слоты в окне (уже отсортированы по дате и времени)
	slots, err := uc.slotRepo.GetOpenByPropertyInWindow(ctx, req.PropertyID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get slots for property=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// 5. Закрытые даты того же окна
	blackoutDates, err := uc.blackoutRepo.ListDatesByPropertyInWindow(ctx, req.PropertyID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get blackout dates for property=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get blackout dates: %v", ErrInternal, err)
	}

	days := groupByDate(slots, blackoutDates, now)

	uc.logger.Info("GetAvailability: property=%d has %d available days", req.PropertyID, len(days))
	return &Response{
		PropertyID: req.PropertyID,
		Days:       days,
	}, nil
}

// groupByDate фильтрует и группирует открытые слоты по датам
// Исключаются слоты закрытых дат и сегодняшние слоты, чьё время начала
// уже не строго в будущем; дни без единого слота опускаются
func groupByDate(slots []*domain.Slot, blackoutDates []time.Time, now time.Time) []DayAvailability {
	blackedOut := make(map[string]struct{}, len(blackoutDates))
	for _, d := range blackoutDates {
		blackedOut[d.Format(domain.DateFormat)] = struct{}{}
	}

	nowTime := types.NewTimeString(now)

	days := make([]DayAvailability, 0)
	for _, s := range slots {
		dateKey := s.VisitDate.Format(domain.DateFormat)

		if _, ok := blackedOut[dateKey]; ok {
			continue
		}

		// Слот на сегодня, чьё начало <= текущего времени, уже не бронируем
		if isSameDay(s.VisitDate, now) && !s.StartTime.IsAfter(nowTime) {
			continue
		}

		// Слоты приходят отсортированными, поэтому либо продолжаем
		// последний день, либо начинаем новый
		if len(days) == 0 || !days[len(days)-1].Date.Equal(s.VisitDate) {
			days = append(days, DayAvailability{Date: s.VisitDate, Slots: make([]Slot, 0, 1)})
		}
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, Slot{
			ID:        s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	return days
}

// dateOnly обнуляет время, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
