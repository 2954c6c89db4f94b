package visits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	visitRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/visit"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/notifier"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeVisitRepo struct {
	visits    map[int64]*domain.VisitRequest
	updateErr error
}

func newFakeVisitRepo(visits ...*domain.VisitRequest) *fakeVisitRepo {
	repo := &fakeVisitRepo{visits: make(map[int64]*domain.VisitRequest)}
	for _, v := range visits {
		repo.visits[v.ID] = v
	}
	return repo
}

func (f *fakeVisitRepo) GetByID(ctx context.Context, id int64) (*domain.VisitRequest, error) {
	v, ok := f.visits[id]
	if !ok {
		return nil, visitRepo.ErrVisitNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVisitRepo) ListByRequester(ctx context.Context, requesterID int64, status *domain.VisitStatus) ([]*domain.VisitRequest, error) {
	var out []*domain.VisitRequest
	for _, v := range f.visits {
		if v.RequesterID != requesterID {
			continue
		}
		if status != nil && v.Status != *status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVisitRepo) ListByRecipient(ctx context.Context, recipientID int64, status *domain.VisitStatus) ([]*domain.VisitRequest, error) {
	var out []*domain.VisitRequest
	for _, v := range f.visits {
		if v.RecipientID != recipientID {
			continue
		}
		if status != nil && v.Status != *status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVisitRepo) UpdateStatus(ctx context.Context, id int64, status domain.VisitStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	v, ok := f.visits[id]
	if !ok {
		return visitRepo.ErrVisitNotFound
	}
	v.Status = status
	return nil
}

func (f *fakeVisitRepo) Reschedule(ctx context.Context, id int64, scheduledAt time.Time, status domain.VisitStatus, note *string) error {
	v, ok := f.visits[id]
	if !ok {
		return visitRepo.ErrVisitNotFound
	}
	v.ScheduledAt = scheduledAt
	v.Status = status
	if note != nil {
		v.Note = note
	}
	return nil
}

type recordedEvent struct {
	eventType   string
	recipientID int64
}

type fakeNotifier struct {
	events []recordedEvent
	err    error
}

func (f *fakeNotifier) Notify(ctx context.Context, eventType string, recipientID int64, payload map[string]interface{}) error {
	f.events = append(f.events, recordedEvent{eventType: eventType, recipientID: recipientID})
	return f.err
}

func newTestService(repo *fakeVisitRepo, n *fakeNotifier, now time.Time) *Service {
	s := NewService(repo, n, nopLogger{})
	s.timeProvider = fixedTime{now: now}
	return s
}

func pendingVisit() *domain.VisitRequest {
	return &domain.VisitRequest{
		ID:          1,
		PropertyID:  10,
		RequesterID: 100,
		RecipientID: 200,
		ScheduledAt: time.Date(2025, 11, 5, 14, 0, 0, 0, time.UTC),
		Status:      domain.StatusPending,
	}
}

func TestGetByID(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeVisitRepo(pendingVisit()), &fakeNotifier{}, now)

	// Доступна обеим сторонам заявки
	for _, userID := range []int64{100, 200} {
		resp, err := svc.GetByID(context.Background(), 1, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	}

	_, err := svc.GetByID(context.Background(), 1, 300)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 42, 100)
	assert.ErrorIs(t, err, ErrVisitNotFound)
}

func TestSetDecision(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	n := &fakeNotifier{}
	svc := newTestService(newFakeVisitRepo(pendingVisit()), n, now)

	resp, err := svc.SetDecision(context.Background(), 1, &models.DecisionRequest{UserID: 200, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	// Получатель уведомляет заявителя
	require.Len(t, n.events, 1)
	assert.Equal(t, notifier.EventVisitApproved, n.events[0].eventType)
	assert.Equal(t, int64(100), n.events[0].recipientID)
}

func TestSetDecision_Errors(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	// Только получатель принимает решение
	svc := newTestService(newFakeVisitRepo(pendingVisit()), &fakeNotifier{}, now)
	_, err := svc.SetDecision(context.Background(), 1, &models.DecisionRequest{UserID: 100, Status: "approved"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// pending и visited не являются решениями
	_, err = svc.SetDecision(context.Background(), 1, &models.DecisionRequest{UserID: 200, Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.SetDecision(context.Background(), 1, &models.DecisionRequest{UserID: 200, Status: "visited"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Повторное решение по уже одобренной заявке
	approved := pendingVisit()
	approved.Status = domain.StatusApproved
	svc = newTestService(newFakeVisitRepo(approved), &fakeNotifier{}, now)
	_, err = svc.SetDecision(context.Background(), 1, &models.DecisionRequest{UserID: 200, Status: "rejected"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetAttendance(t *testing.T) {
	visit := pendingVisit()
	visit.Status = domain.StatusApproved

	// До наступления времени визита отметка недоступна
	before := visit.ScheduledAt.Add(-time.Hour)
	svc := newTestService(newFakeVisitRepo(visit), &fakeNotifier{}, before)
	_, err := svc.SetAttendance(context.Background(), 1, &models.AttendanceRequest{UserID: 200, Status: "visited"})
	assert.ErrorIs(t, err, ErrTooEarly)

	// После - доступна
	after := visit.ScheduledAt.Add(time.Hour)
	n := &fakeNotifier{}
	svc = newTestService(newFakeVisitRepo(visit), n, after)
	resp, err := svc.SetAttendance(context.Background(), 1, &models.AttendanceRequest{UserID: 200, Status: "visited"})
	require.NoError(t, err)
	assert.Equal(t, "visited", resp.Status)
	require.Len(t, n.events, 1)
	assert.Equal(t, notifier.EventVisitAttendance, n.events[0].eventType)
}

func TestSetAttendance_RequiresApproved(t *testing.T) {
	now := time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeVisitRepo(pendingVisit()), &fakeNotifier{}, now)

	_, err := svc.SetAttendance(context.Background(), 1, &models.AttendanceRequest{UserID: 200, Status: "visited"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReschedule_BackToPending(t *testing.T) {
	visit := pendingVisit()
	visit.Status = domain.StatusApproved
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	n := &fakeNotifier{}
	svc := newTestService(newFakeVisitRepo(visit), n, now)

	newTime := time.Date(2025, 11, 7, 16, 0, 0, 0, time.UTC)
	resp, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{
		UserID:      100,
		ScheduledAt: newTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, newTime, resp.ScheduledAt)

	// Перенос заявителя уведомляет получателя
	require.Len(t, n.events, 1)
	assert.Equal(t, notifier.EventVisitRescheduled, n.events[0].eventType)
	assert.Equal(t, int64(200), n.events[0].recipientID)
}

func TestReschedule_OnlyRequesterAndOnlyApproved(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	newTime := time.Date(2025, 11, 7, 16, 0, 0, 0, time.UTC)

	// pending переносить нельзя
	svc := newTestService(newFakeVisitRepo(pendingVisit()), &fakeNotifier{}, now)
	_, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{UserID: 100, ScheduledAt: newTime})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Получатель не переносит через этот переход
	approved := pendingVisit()
	approved.Status = domain.StatusApproved
	svc = newTestService(newFakeVisitRepo(approved), &fakeNotifier{}, now)
	_, err = svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{UserID: 200, ScheduledAt: newTime})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRecipientReschedule_StaysApproved(t *testing.T) {
	visit := pendingVisit()
	visit.Status = domain.StatusApproved
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	n := &fakeNotifier{}
	svc := newTestService(newFakeVisitRepo(visit), n, now)

	newTime := time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)
	resp, err := svc.RecipientReschedule(context.Background(), 1, &models.RecipientRescheduleRequest{
		UserID:      200,
		ScheduledAt: newTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, newTime, resp.ScheduledAt)

	// Перенос получателя уведомляет заявителя
	require.Len(t, n.events, 1)
	assert.Equal(t, int64(100), n.events[0].recipientID)
}

func TestCancel(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	repo := newFakeVisitRepo(pendingVisit())
	n := &fakeNotifier{}
	svc := newTestService(repo, n, now)

	require.NoError(t, svc.Cancel(context.Background(), 1, 100))
	assert.Equal(t, domain.StatusRejected, repo.visits[1].Status)
	require.Len(t, n.events, 1)
	assert.Equal(t, notifier.EventVisitRejected, n.events[0].eventType)

	// Терминальную заявку отменить нельзя
	err := svc.Cancel(context.Background(), 1, 100)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Получатель не отменяет заявку
	repo.visits[1].Status = domain.StatusPending
	err = svc.Cancel(context.Background(), 1, 200)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestNotifierFailureDoesNotAffectResult(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	n := &fakeNotifier{err: errors.New("broker down")}
	svc := newTestService(newFakeVisitRepo(pendingVisit()), n, now)

	resp, err := svc.SetDecision(context.Background(), 1, &models.DecisionRequest{UserID: 200, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
}

func TestListFilters(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	first := pendingVisit()
	second := pendingVisit()
	second.ID = 2
	second.Status = domain.StatusApproved
	svc := newTestService(newFakeVisitRepo(first, second), &fakeNotifier{}, now)

	all, err := svc.ListMy(context.Background(), &models.ListRequest{UserID: 100})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := "approved"
	filtered, err := svc.ListMy(context.Background(), &models.ListRequest{UserID: 100, Status: &status})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "approved", filtered[0].Status)

	assigned, err := svc.ListAssigned(context.Background(), &models.ListRequest{UserID: 200})
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	bad := "unknown"
	_, err = svc.ListMy(context.Background(), &models.ListRequest{UserID: 100, Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// ScheduledAt хранится в UTC; too-early сравнение в SetAttendance
// корректно только при провайдере времени в той же зоне
func TestRealTimeProviderUsesUTC(t *testing.T) {
	p := &RealTimeProvider{}
	assert.Equal(t, time.UTC, p.Now().Location())
}
