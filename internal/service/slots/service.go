package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	blackoutRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/blackout"
	slotRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/slot"
	propertyClient "github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
	"github.com/estatehub/EstateHub-VisitService/internal/service/slots/models"
	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

// Service сервис управления слотами и blackout-датами объекта
type Service struct {
	slotRepo       SlotRepository
	blackoutRepo   BlackoutRepository
	propertyClient PropertyServiceClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	blackoutRepo BlackoutRepository,
	propertyClient PropertyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:       slotRepo,
		blackoutRepo:   blackoutRepo,
		propertyClient: propertyClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// CreateSlots создает слоты просмотров на дату
// Дата вне горизонта отклоняет весь вызов; занятый ключ и слишком близкое
// время отбрасывают только конкретный элемент (created/skipped в ответе)
func (s *Service) CreateSlots(ctx context.Context, req *models.CreateSlotsRequest) (*models.CreateSlotsResponse, error) {
	s.logger.Info("CreateSlots: property=%d, date=%s, times=%d, user=%d",
		req.PropertyID, req.Date.Format(domain.DateFormat), len(req.Times), req.UserID)

	// 1. Валидация входных данных
	if err := validateCreateSlotsRequest(req); err != nil {
		s.logger.Warn("CreateSlots: validation failed: %v", err)
		return nil, err
	}

	now := s.timeProvider.Now()

	// 2. Дата должна попадать в горизонт [сегодня, сегодня + 30д]
	if err := validateDateInHorizon(req.Date, now); err != nil {
		s.logger.Warn("CreateSlots: date %s outside horizon", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 3. Проверяем объект и права на управление его расписанием
	if err := s.checkScheduleAccess(ctx, req.PropertyID, req.UserID, req.Role); err != nil {
		return nil, err
	}

	// 4. Создаем слоты по одному; коллизии и близкие времена - пропуски
	resp := &models.CreateSlotsResponse{
		Created: make([]*models.SlotResponse, 0, len(req.Times)),
		Skipped: make([]models.SkippedSlot, 0),
	}

	for _, startTime := range req.Times {
		// На сегодняшнюю дату слот должен начинаться с запасом
		if isSameDay(req.Date, now) && !hasSameDayNotice(startTime, now) {
			resp.Skipped = append(resp.Skipped, models.SkippedSlot{
				Time:   startTime,
				Reason: domain.SkipReasonTooSoon,
			})
			continue
		}

		// Слот не должен пересекать границу суток (старт 23:30 и позже)
		endTime, err := startTime.AddMinutes(domain.SlotDurationMinutes)
		if err != nil {
			resp.Skipped = append(resp.Skipped, models.SkippedSlot{
				Time:   startTime,
				Reason: domain.SkipReasonInvalidTime,
			})
			continue
		}

		created, err := s.slotRepo.Create(ctx, &domain.Slot{
			PropertyID: req.PropertyID,
			VisitDate:  req.Date,
			StartTime:  startTime,
			EndTime:    endTime,
			CreatedBy:  req.UserID,
		})
		if err != nil {
			if errors.Is(err, slotRepo.ErrDuplicateSlot) {
				resp.Skipped = append(resp.Skipped, models.SkippedSlot{
					Time:   startTime,
					Reason: domain.SkipReasonDuplicate,
				})
				continue
			}
			s.logger.Error("CreateSlots: failed to create slot %s: %v", startTime, err)
			return nil, fmt.Errorf("%w: CreateSlots - repository error: %v", ErrInternal, err)
		}

		resp.Created = append(resp.Created, models.FromDomainSlot(created))
	}

	s.logger.Info("CreateSlots: property=%d created=%d skipped=%d",
		req.PropertyID, len(resp.Created), len(resp.Skipped))
	return resp, nil
}

// DeleteSlot удаляет открытый слот
// Забронированный или истёкший слот удалить нельзя
func (s *Service) DeleteSlot(ctx context.Context, slotID, userID int64, role domain.Role) error {
	s.logger.Info("DeleteSlot: slot=%d, user=%d", slotID, userID)

	sl, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("DeleteSlot: slot id=%d not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("DeleteSlot: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScheduleAccess(ctx, sl.PropertyID, userID, role); err != nil {
		return err
	}

	if sl.Booked {
		s.logger.Warn("DeleteSlot: slot id=%d is booked", slotID)
		return ErrSlotBooked
	}
	if sl.Expired {
		s.logger.Warn("DeleteSlot: slot id=%d is expired", slotID)
		return ErrSlotExpired
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		// Слот могли забронировать между чтением и удалением
		if errors.Is(err, slotRepo.ErrSlotNotOpen) {
			s.logger.Warn("DeleteSlot: slot id=%d is no longer open", slotID)
			return ErrSlotBooked
		}
		s.logger.Error("DeleteSlot: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteSlot: successfully deleted slot id=%d", slotID)
	return nil
}

// MarkUnavailable закрывает дату для объекта
// Закрытие даты удаляет все её открытые слоты; брони не затрагиваются.
// Обе записи выполняются в одной транзакции
func (s *Service) MarkUnavailable(ctx context.Context, req *models.BlackoutRequest) error {
	s.logger.Info("MarkUnavailable: property=%d, date=%s, user=%d",
		req.PropertyID, req.Date.Format(domain.DateFormat), req.UserID)

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.checkScheduleAccess(ctx, req.PropertyID, req.UserID, req.Role); err != nil {
		return err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := s.blackoutRepo.Create(txCtx, &domain.BlackoutDate{
			PropertyID: req.PropertyID,
			Date:       req.Date,
			CreatedBy:  req.UserID,
		})
		if err != nil {
			if errors.Is(err, blackoutRepo.ErrDuplicateBlackout) {
				return ErrDuplicateBlackout
			}
			return fmt.Errorf("%w: MarkUnavailable - create blackout: %v", ErrInternal, err)
		}

		removed, err := s.slotRepo.DeleteOpenByPropertyAndDate(txCtx, req.PropertyID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: MarkUnavailable - delete open slots: %v", ErrInternal, err)
		}

		s.logger.Info("MarkUnavailable: property=%d date=%s removed %d open slots",
			req.PropertyID, req.Date.Format(domain.DateFormat), removed)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrDuplicateBlackout) {
			s.logger.Error("MarkUnavailable: property=%d date=%s failed: %v",
				req.PropertyID, req.Date.Format(domain.DateFormat), err)
		}
		return err
	}

	return nil
}

// ClearUnavailable снимает закрытие даты
// Удалённые при закрытии слоты не восстанавливаются
func (s *Service) ClearUnavailable(ctx context.Context, req *models.BlackoutRequest) error {
	s.logger.Info("ClearUnavailable: property=%d, date=%s, user=%d",
		req.PropertyID, req.Date.Format(domain.DateFormat), req.UserID)

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.checkScheduleAccess(ctx, req.PropertyID, req.UserID, req.Role); err != nil {
		return err
	}

	if err := s.blackoutRepo.Delete(ctx, req.PropertyID, req.Date); err != nil {
		if errors.Is(err, blackoutRepo.ErrBlackoutNotFound) {
			s.logger.Warn("ClearUnavailable: blackout property=%d date=%s not found",
				req.PropertyID, req.Date.Format(domain.DateFormat))
			return ErrBlackoutNotFound
		}
		s.logger.Error("ClearUnavailable: repository error: %v", err)
		return fmt.Errorf("%w: ClearUnavailable - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClearUnavailable: property=%d date=%s cleared",
		req.PropertyID, req.Date.Format(domain.DateFormat))
	return nil
}

// checkScheduleAccess проверяет право управлять расписанием объекта
// Админ управляет любым объектом, агент - только объектом, по которому
// он принимает визиты (назначенный агент или создатель объекта)
func (s *Service) checkScheduleAccess(ctx context.Context, propertyID, userID int64, role domain.Role) error {
	if !role.CanManageSlots() {
		s.logger.Warn("checkScheduleAccess: user=%d role=%s cannot manage slots", userID, role)
		return ErrAccessDenied
	}

	property, err := s.propertyClient.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertyClient.ErrPropertyNotFound) {
			s.logger.Warn("checkScheduleAccess: property id=%d not found", propertyID)
			return ErrPropertyNotFound
		}
		s.logger.Error("checkScheduleAccess: failed to get property id=%d: %v", propertyID, err)
		return fmt.Errorf("%w: checkScheduleAccess - failed to get property: %v", ErrInternal, err)
	}

	if role == domain.RoleAdmin {
		return nil
	}

	if property.RecipientID() != userID {
		s.logger.Warn("checkScheduleAccess: user=%d is not the recipient of property=%d", userID, propertyID)
		return ErrAccessDenied
	}

	return nil
}

// validateCreateSlotsRequest валидирует входные данные запроса
func validateCreateSlotsRequest(req *models.CreateSlotsRequest) error {
	if req.PropertyID <= 0 {
		return fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.Times) == 0 {
		return fmt.Errorf("%w: times is required", ErrInvalidInput)
	}

	if len(req.Times) > domain.MaxTimesPerCreate {
		return fmt.Errorf("%w: too many times in one request", ErrInvalidInput)
	}

	for _, t := range req.Times {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time %q: %v", ErrInvalidInput, t.String(), err)
		}
	}

	return nil
}

// validateDateInHorizon проверяет, что дата в окне [сегодня, сегодня + HorizonDays]
func validateDateInHorizon(date, now time.Time) error {
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	reqDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, nowDate.Location())

	if reqDate.Before(nowDate) {
		return ErrDateOutOfHorizon
	}
	if reqDate.After(nowDate.AddDate(0, 0, domain.HorizonDays)) {
		return ErrDateOutOfHorizon
	}

	return nil
}

// hasSameDayNotice проверяет запас времени до начала слота на сегодня
func hasSameDayNotice(startTime types.TimeString, now time.Time) bool {
	minAllowed, err := types.NewTimeString(now).AddMinutes(domain.SameDayNoticeMinutes)
	if err != nil {
		// Конец суток: запаса уже нет
		return false
	}
	return !startTime.IsBefore(minAllowed)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
