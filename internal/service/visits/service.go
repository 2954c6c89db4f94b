package visits

import (
	"context"
	"errors"
	"fmt"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	visitRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/visit"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/notifier"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

// Service сервис жизненного цикла заявок на визит
// Переходы статусов разрешены строго одной из сторон заявки:
// решения и отметки посещения - получателю, перенос и отмена - инициатору
type Service struct {
	visitRepo    VisitRepository
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(visitRepo VisitRepository, n Notifier, logger Logger) *Service {
	return &Service{
		visitRepo:    visitRepo,
		notifier:     n,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает заявку; доступна обеим сторонам заявки
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*models.VisitResponse, error) {
	s.logger.Info("GetByID: fetching visit id=%d for user=%d", id, userID)

	visit, err := s.getVisit(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if visit.RequesterID != userID && visit.RecipientID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to visit id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainVisit(visit), nil
}

// SetDecision одобряет или отклоняет pending-заявку
// Только получатель; разрешённые статусы - approved и rejected
func (s *Service) SetDecision(ctx context.Context, visitID int64, req *models.DecisionRequest) (*models.VisitResponse, error) {
	s.logger.Info("SetDecision: visit=%d, status=%s, user=%d", visitID, req.Status, req.UserID)

	status, err := models.ToDomainVisitStatus(req.Status)
	if err != nil || !domain.IsDecisionStatus(status) {
		s.logger.Warn("SetDecision: invalid status=%s for visit id=%d", req.Status, visitID)
		return nil, ErrInvalidStatus
	}

	visit, err := s.getVisit(ctx, visitID, "SetDecision")
	if err != nil {
		return nil, err
	}

	if visit.RecipientID != req.UserID {
		s.logger.Warn("SetDecision: user=%d is not the recipient of visit id=%d", req.UserID, visitID)
		return nil, ErrAccessDenied
	}

	if !visit.CanBeDecided() {
		s.logger.Warn("SetDecision: visit id=%d is not pending, status=%s", visitID, visit.Status)
		return nil, ErrInvalidTransition
	}

	if err := s.visitRepo.UpdateStatus(ctx, visitID, status); err != nil {
		return nil, s.repoError("SetDecision", visitID, err)
	}

	visit.Status = status

	event := notifier.EventVisitApproved
	if status == domain.StatusRejected {
		event = notifier.EventVisitRejected
	}
	s.notify(ctx, event, visit.RequesterID, visit)

	s.logger.Info("SetDecision: visit id=%d set to %s", visitID, status)
	return models.FromDomainVisit(visit), nil
}

// SetAttendance фиксирует, состоялся ли визит (visited/not_visited)
// Только получатель и только после наступления запланированного времени
func (s *Service) SetAttendance(ctx context.Context, visitID int64, req *models.AttendanceRequest) (*models.VisitResponse, error) {
	s.logger.Info("SetAttendance: visit=%d, status=%s, user=%d", visitID, req.Status, req.UserID)

	status, err := models.ToDomainVisitStatus(req.Status)
	if err != nil || !domain.IsAttendanceStatus(status) {
		s.logger.Warn("SetAttendance: invalid status=%s for visit id=%d", req.Status, visitID)
		return nil, ErrInvalidStatus
	}

	visit, err := s.getVisit(ctx, visitID, "SetAttendance")
	if err != nil {
		return nil, err
	}

	if visit.RecipientID != req.UserID {
		s.logger.Warn("SetAttendance: user=%d is not the recipient of visit id=%d", req.UserID, visitID)
		return nil, ErrAccessDenied
	}

	if !visit.CanSetAttendance() {
		s.logger.Warn("SetAttendance: visit id=%d is not approved, status=%s", visitID, visit.Status)
		return nil, ErrInvalidTransition
	}

	if s.timeProvider.Now().Before(visit.ScheduledAt) {
		s.logger.Warn("SetAttendance: visit id=%d scheduled at %s has not started yet",
			visitID, visit.ScheduledAt.Format(domain.DateTimeFormat))
		return nil, ErrTooEarly
	}

	if err := s.visitRepo.UpdateStatus(ctx, visitID, status); err != nil {
		return nil, s.repoError("SetAttendance", visitID, err)
	}

	visit.Status = status
	s.notify(ctx, notifier.EventVisitAttendance, visit.RequesterID, visit)

	s.logger.Info("SetAttendance: visit id=%d set to %s", visitID, status)
	return models.FromDomainVisit(visit), nil
}

// Reschedule переносит одобренный визит на новое время по инициативе
// заявителя и возвращает заявку в pending на повторное решение получателя.
// Доступность слота на новое время здесь не проверяется
func (s *Service) Reschedule(ctx context.Context, visitID int64, req *models.RescheduleRequest) (*models.VisitResponse, error) {
	s.logger.Info("Reschedule: visit=%d, scheduledAt=%s, user=%d",
		visitID, req.ScheduledAt.Format(domain.DateTimeFormat), req.UserID)

	if req.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}

	visit, err := s.getVisit(ctx, visitID, "Reschedule")
	if err != nil {
		return nil, err
	}

	if visit.RequesterID != req.UserID {
		s.logger.Warn("Reschedule: user=%d is not the requester of visit id=%d", req.UserID, visitID)
		return nil, ErrAccessDenied
	}

	if !visit.CanBeRescheduled() {
		s.logger.Warn("Reschedule: visit id=%d is not approved, status=%s", visitID, visit.Status)
		return nil, ErrInvalidTransition
	}

	if err := s.visitRepo.Reschedule(ctx, visitID, req.ScheduledAt, domain.StatusPending, req.Note); err != nil {
		return nil, s.repoError("Reschedule", visitID, err)
	}

	visit.ScheduledAt = req.ScheduledAt
	visit.Status = domain.StatusPending
	if req.Note != nil {
		visit.Note = req.Note
	}

	s.notify(ctx, notifier.EventVisitRescheduled, visit.RecipientID, visit)

	s.logger.Info("Reschedule: visit id=%d moved to %s, back to pending",
		visitID, req.ScheduledAt.Format(domain.DateTimeFormat))
	return models.FromDomainVisit(visit), nil
}

// RecipientReschedule переносит одобренный визит по инициативе получателя,
// статус остаётся approved
func (s *Service) RecipientReschedule(ctx context.Context, visitID int64, req *models.RecipientRescheduleRequest) (*models.VisitResponse, error) {
	s.logger.Info("RecipientReschedule: visit=%d, scheduledAt=%s, user=%d",
		visitID, req.ScheduledAt.Format(domain.DateTimeFormat), req.UserID)

	if req.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}

	visit, err := s.getVisit(ctx, visitID, "RecipientReschedule")
	if err != nil {
		return nil, err
	}

	if visit.RecipientID != req.UserID {
		s.logger.Warn("RecipientReschedule: user=%d is not the recipient of visit id=%d", req.UserID, visitID)
		return nil, ErrAccessDenied
	}

	if visit.Status != domain.StatusApproved {
		s.logger.Warn("RecipientReschedule: visit id=%d is not approved, status=%s", visitID, visit.Status)
		return nil, ErrInvalidTransition
	}

	if err := s.visitRepo.Reschedule(ctx, visitID, req.ScheduledAt, domain.StatusApproved, nil); err != nil {
		return nil, s.repoError("RecipientReschedule", visitID, err)
	}

	visit.ScheduledAt = req.ScheduledAt
	s.notify(ctx, notifier.EventVisitRescheduled, visit.RequesterID, visit)

	s.logger.Info("RecipientReschedule: visit id=%d moved to %s",
		visitID, req.ScheduledAt.Format(domain.DateTimeFormat))
	return models.FromDomainVisit(visit), nil
}

// Cancel отменяет заявку по инициативе заявителя из любого нетерминального
// статуса, безусловно выставляя rejected
func (s *Service) Cancel(ctx context.Context, visitID, userID int64) error {
	s.logger.Info("Cancel: visit=%d, user=%d", visitID, userID)

	visit, err := s.getVisit(ctx, visitID, "Cancel")
	if err != nil {
		return err
	}

	if visit.RequesterID != userID {
		s.logger.Warn("Cancel: user=%d is not the requester of visit id=%d", userID, visitID)
		return ErrAccessDenied
	}

	if !visit.CanBeCancelled() {
		s.logger.Warn("Cancel: visit id=%d is terminal, status=%s", visitID, visit.Status)
		return ErrInvalidTransition
	}

	if err := s.visitRepo.UpdateStatus(ctx, visitID, domain.StatusRejected); err != nil {
		return s.repoError("Cancel", visitID, err)
	}

	visit.Status = domain.StatusRejected
	s.notify(ctx, notifier.EventVisitRejected, visit.RecipientID, visit)

	s.logger.Info("Cancel: visit id=%d cancelled", visitID)
	return nil
}

// ListMy получает заявки, созданные пользователем
func (s *Service) ListMy(ctx context.Context, req *models.ListRequest) ([]*models.VisitResponse, error) {
	s.logger.Info("ListMy: user=%d, status=%v", req.UserID, req.Status)

	status, err := s.toStatusFilter(req.Status)
	if err != nil {
		return nil, err
	}

	visits, err := s.visitRepo.ListByRequester(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("ListMy: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListMy - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainVisitList(visits), nil
}

// ListAssigned получает заявки, назначенные пользователю как получателю
func (s *Service) ListAssigned(ctx context.Context, req *models.ListRequest) ([]*models.VisitResponse, error) {
	s.logger.Info("ListAssigned: user=%d, status=%v", req.UserID, req.Status)

	status, err := s.toStatusFilter(req.Status)
	if err != nil {
		return nil, err
	}

	visits, err := s.visitRepo.ListByRecipient(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("ListAssigned: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListAssigned - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainVisitList(visits), nil
}

// Вспомогательные методы

func (s *Service) getVisit(ctx context.Context, id int64, op string) (*domain.VisitRequest, error) {
	visit, err := s.visitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, visitRepo.ErrVisitNotFound) {
			s.logger.Warn("%s: visit id=%d not found", op, id)
			return nil, ErrVisitNotFound
		}
		s.logger.Error("%s: repository error for visit id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return visit, nil
}

func (s *Service) repoError(op string, id int64, err error) error {
	if errors.Is(err, visitRepo.ErrVisitNotFound) {
		s.logger.Warn("%s: visit id=%d not found during update", op, id)
		return ErrVisitNotFound
	}
	s.logger.Error("%s: repository error for visit id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) toStatusFilter(raw *string) (*domain.VisitStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := models.ToDomainVisitStatus(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status filter", ErrInvalidInput)
	}
	return &status, nil
}

// notify публикует уведомление, проглатывая любые ошибки доставки
// Сбой брокера не должен откатывать уже зафиксированный переход статуса
func (s *Service) notify(ctx context.Context, eventType string, recipientID int64, visit *domain.VisitRequest) {
	payload := map[string]interface{}{
		"visit_id":     visit.ID,
		"property_id":  visit.PropertyID,
		"status":       string(visit.Status),
		"scheduled_at": visit.ScheduledAt.Format(domain.DateTimeFormat),
	}

	if err := s.notifier.Notify(ctx, eventType, recipientID, payload); err != nil {
		s.logger.Error("notify: failed to publish %s for visit id=%d: %v", eventType, visit.ID, err)
	}
}
