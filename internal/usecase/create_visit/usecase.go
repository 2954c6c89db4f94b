package create_visit

import (
	"context"
	"errors"
	"fmt"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	slotRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/slot"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/notifier"
	propertyClient "github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

// UseCase use case бронирования визита
// Единственная критичная к гонкам операция сервиса: создание заявки и
// перевод слота в booked выполняются в одной транзакции,
// а сам перевод - условным обновлением по ключу слота
type UseCase struct {
	slotRepo       SlotRepository
	visitRepo      VisitRepository
	blackoutRepo   BlackoutRepository
	propertyClient PropertyServiceClient
	notifier       Notifier
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	visitRepo VisitRepository,
	blackoutRepo BlackoutRepository,
	propertyClient PropertyServiceClient,
	n Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		visitRepo:      visitRepo,
		blackoutRepo:   blackoutRepo,
		propertyClient: propertyClient,
		notifier:       n,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет бронирование визита
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateVisit: property=%d, requester=%d, scheduledAt=%s",
		req.PropertyID, req.RequesterID, req.ScheduledAt.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateVisit: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Момент визита строго в будущем и в пределах горизонта
	if err := validateSchedule(req.ScheduledAt, now); err != nil {
		uc.logger.Warn("CreateVisit: schedule validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем объект и определяем получателя заявки:
	// назначенный агент, при его отсутствии - создатель объекта
	property, err := uc.propertyClient.GetProperty(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertyClient.ErrPropertyNotFound) {
			uc.logger.Warn("CreateVisit: property id=%d not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("CreateVisit: failed to get property id=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get property: %v", ErrInternal, err)
	}
	recipientID := property.RecipientID()

	visitDate := dateOnly(req.ScheduledAt)
	startTime := types.NewTimeString(req.ScheduledAt)

	// Переменная для хранения результата
	var result *domain.VisitRequest

	// 5. Заявка и перевод слота фиксируются в одной транзакции:
	// откат транзакции не оставляет заявку без забронированного слота.
	// Изоляция по умолчанию: проигравшее конкурентное обновление слота
	// увидит ноль затронутых строк, а не ошибку сериализации
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 5.1. Дата не должна быть закрыта для объекта
		blackedOut, err := uc.blackoutRepo.Exists(txCtx, req.PropertyID, visitDate)
		if err != nil {
			uc.logger.Error("CreateVisit: failed to check blackout: %v", err)
			return fmt.Errorf("%w: failed to check blackout: %v", ErrInternal, err)
		}
		if blackedOut {
			uc.logger.Warn("CreateVisit: date %s is blacked out for property=%d",
				visitDate.Format(domain.DateFormat), req.PropertyID)
			return ErrDateUnavailable
		}

		// 5.2. Создаем заявку в статусе pending
		created, err := uc.visitRepo.Create(txCtx, &domain.VisitRequest{
			PropertyID:  req.PropertyID,
			RequesterID: req.RequesterID,
			RecipientID: recipientID,
			ScheduledAt: req.ScheduledAt,
			Note:        req.Note,
			Status:      domain.StatusPending,
		})
		if err != nil {
			uc.logger.Error("CreateVisit: failed to create visit request: %v", err)
			return fmt.Errorf("%w: failed to create visit request: %v", ErrInternal, err)
		}

		// 5.3. Условно переводим открытый слот в booked с обратной ссылкой
		// Ровно одно из конкурирующих бронирований одного ключа обновит
		// строку; остальные получат ErrSlotNotOpen
		key := domain.SlotKey{
			PropertyID: req.PropertyID,
			VisitDate:  visitDate,
			StartTime:  startTime,
		}
		if err := uc.slotRepo.MarkBooked(txCtx, key, created.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotOpen) {
				uc.logger.Warn("CreateVisit: slot property=%d date=%s time=%s not available",
					req.PropertyID, visitDate.Format(domain.DateFormat), startTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateVisit: failed to book slot: %v", err)
			return fmt.Errorf("%w: failed to book slot: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateVisit: successfully booked visit id=%d for property=%d", result.ID, result.PropertyID)

	// 6. Уведомляем получателя; сбой доставки не влияет на результат
	if err := uc.notifier.Notify(ctx, notifier.EventVisitBooked, recipientID, map[string]interface{}{
		"visit_id":     result.ID,
		"property_id":  result.PropertyID,
		"requester_id": result.RequesterID,
		"scheduled_at": result.ScheduledAt.Format(domain.DateTimeFormat),
	}); err != nil {
		uc.logger.Error("CreateVisit: failed to publish booked event for visit id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:          result.ID,
		PropertyID:  result.PropertyID,
		RequesterID: result.RequesterID,
		RecipientID: result.RecipientID,
		ScheduledAt: result.ScheduledAt,
		Note:        result.Note,
		Status:      string(result.Status),
		CreatedAt:   result.CreatedAt,
	}, nil
}
