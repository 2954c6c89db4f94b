package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	blackoutRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/blackout"
	slotRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/slot"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
	"github.com/estatehub/EstateHub-VisitService/internal/service/slots/models"
	"github.com/estatehub/EstateHub-VisitService/pkg/ptr"
	"github.com/estatehub/EstateHub-VisitService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSlotRepo struct {
	nextID     int64
	slots      map[int64]*domain.Slot
	duplicates map[types.TimeString]bool
	deleteErr  error
	removed    int64
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		nextID:     1,
		slots:      make(map[int64]*domain.Slot),
		duplicates: make(map[types.TimeString]bool),
	}
}

func (f *fakeSlotRepo) Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error) {
	if f.duplicates[s.StartTime] {
		return nil, slotRepo.ErrDuplicateSlot
	}
	created := *s
	created.ID = f.nextID
	f.nextID++
	f.slots[created.ID] = &created
	return &created, nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeSlotRepo) DeleteOpenByPropertyAndDate(ctx context.Context, propertyID int64, date time.Time) (int64, error) {
	return f.removed, nil
}

type fakeBlackoutRepo struct {
	createErr error
	deleteErr error
	created   []*domain.BlackoutDate
}

func (f *fakeBlackoutRepo) Create(ctx context.Context, b *domain.BlackoutDate) (*domain.BlackoutDate, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBlackoutRepo) Delete(ctx context.Context, propertyID int64, date time.Time) error {
	return f.deleteErr
}

type fakePropertyClient struct {
	property *propertyservice.Property
	err      error
}

func (f *fakePropertyClient) GetProperty(ctx context.Context, propertyID int64) (*propertyservice.Property, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.property, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(slots *fakeSlotRepo, blackouts *fakeBlackoutRepo, props *fakePropertyClient, now time.Time) *Service {
	s := NewService(slots, blackouts, props, fakeTxManager{}, nopLogger{})
	s.timeProvider = fixedTime{now: now}
	return s
}

func agentProperty(agentID int64) *fakePropertyClient {
	return &fakePropertyClient{property: &propertyservice.Property{
		ID:        10,
		AgentID:   ptr.Ptr(agentID),
		CreatedBy: 99,
	}}
}

func TestCreateSlots_CreatedAndSkipped(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	repo := newFakeSlotRepo()
	repo.duplicates["12:00"] = true

	svc := newTestService(repo, &fakeBlackoutRepo{}, agentProperty(7), now)

	resp, err := svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
		PropertyID: 10,
		Date:       time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), // сегодня
		Times:      []types.TimeString{"10:05", "11:00", "12:00", "23:30"},
		UserID:     7,
		Role:       domain.RoleAgent,
	})
	require.NoError(t, err)

	// 10:05 слишком близко (запас 10 минут), 12:00 занят,
	// 23:30 пересекает границу суток, 11:00 создан
	require.Len(t, resp.Created, 1)
	assert.Equal(t, types.TimeString("11:00"), resp.Created[0].StartTime)
	assert.Equal(t, types.TimeString("11:30"), resp.Created[0].EndTime)

	require.Len(t, resp.Skipped, 3)
	assert.Equal(t, types.TimeString("10:05"), resp.Skipped[0].Time)
	assert.Equal(t, domain.SkipReasonTooSoon, resp.Skipped[0].Reason)
	assert.Equal(t, types.TimeString("12:00"), resp.Skipped[1].Time)
	assert.Equal(t, domain.SkipReasonDuplicate, resp.Skipped[1].Reason)
	assert.Equal(t, types.TimeString("23:30"), resp.Skipped[2].Time)
	assert.Equal(t, domain.SkipReasonInvalidTime, resp.Skipped[2].Reason)
}

func TestCreateSlots_DateOutOfHorizon(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeSlotRepo(), &fakeBlackoutRepo{}, agentProperty(7), now)

	for _, date := range []time.Time{
		now.AddDate(0, 0, -1),                   // вчера
		now.AddDate(0, 0, domain.HorizonDays+1), // за горизонтом
	} {
		_, err := svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
			PropertyID: 10,
			Date:       date,
			Times:      []types.TimeString{"11:00"},
			UserID:     7,
			Role:       domain.RoleAgent,
		})
		assert.ErrorIs(t, err, ErrDateOutOfHorizon)
	}
}

func TestCreateSlots_HorizonBoundaryAllowed(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeSlotRepo(), &fakeBlackoutRepo{}, agentProperty(7), now)

	resp, err := svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
		PropertyID: 10,
		Date:       now.AddDate(0, 0, domain.HorizonDays),
		Times:      []types.TimeString{"11:00"},
		UserID:     7,
		Role:       domain.RoleAgent,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
}

func TestCreateSlots_AccessControl(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 1)

	// Покупатель не управляет расписанием
	svc := newTestService(newFakeSlotRepo(), &fakeBlackoutRepo{}, agentProperty(7), now)
	_, err := svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
		PropertyID: 10, Date: date, Times: []types.TimeString{"11:00"},
		UserID: 7, Role: domain.RoleBuyer,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Агент, не являющийся получателем по объекту
	_, err = svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
		PropertyID: 10, Date: date, Times: []types.TimeString{"11:00"},
		UserID: 8, Role: domain.RoleAgent,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Админ управляет любым объектом
	resp, err := svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
		PropertyID: 10, Date: date, Times: []types.TimeString{"11:00"},
		UserID: 1, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
}

func TestCreateSlots_RecipientFallsBackToCreator(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	props := &fakePropertyClient{property: &propertyservice.Property{ID: 10, CreatedBy: 99}}
	svc := newTestService(newFakeSlotRepo(), &fakeBlackoutRepo{}, props, now)

	resp, err := svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
		PropertyID: 10, Date: now.AddDate(0, 0, 1), Times: []types.TimeString{"11:00"},
		UserID: 99, Role: domain.RoleAgent,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
}

func TestCreateSlots_PropertyNotFound(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	props := &fakePropertyClient{err: propertyservice.ErrPropertyNotFound}
	svc := newTestService(newFakeSlotRepo(), &fakeBlackoutRepo{}, props, now)

	_, err := svc.CreateSlots(context.Background(), &models.CreateSlotsRequest{
		PropertyID: 10, Date: now.AddDate(0, 0, 1), Times: []types.TimeString{"11:00"},
		UserID: 7, Role: domain.RoleAgent,
	})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestDeleteSlot(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	repo := newFakeSlotRepo()
	repo.slots[1] = &domain.Slot{ID: 1, PropertyID: 10}
	repo.slots[2] = &domain.Slot{ID: 2, PropertyID: 10, Booked: true}
	repo.slots[3] = &domain.Slot{ID: 3, PropertyID: 10, Expired: true}

	svc := newTestService(repo, &fakeBlackoutRepo{}, agentProperty(7), now)

	require.NoError(t, svc.DeleteSlot(context.Background(), 1, 7, domain.RoleAgent))
	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), 2, 7, domain.RoleAgent), ErrSlotBooked)
	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), 3, 7, domain.RoleAgent), ErrSlotExpired)
	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), 42, 7, domain.RoleAgent), ErrSlotNotFound)
}

func TestDeleteSlot_BookedUnderneath(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	repo := newFakeSlotRepo()
	repo.slots[1] = &domain.Slot{ID: 1, PropertyID: 10}
	repo.deleteErr = slotRepo.ErrSlotNotOpen

	svc := newTestService(repo, &fakeBlackoutRepo{}, agentProperty(7), now)
	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), 1, 7, domain.RoleAgent), ErrSlotBooked)
}

func TestMarkUnavailable(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	blackouts := &fakeBlackoutRepo{}
	svc := newTestService(newFakeSlotRepo(), blackouts, agentProperty(7), now)

	err := svc.MarkUnavailable(context.Background(), &models.BlackoutRequest{
		PropertyID: 10,
		Date:       now.AddDate(0, 0, 2),
		UserID:     7,
		Role:       domain.RoleAgent,
	})
	require.NoError(t, err)
	require.Len(t, blackouts.created, 1)
	assert.Equal(t, int64(10), blackouts.created[0].PropertyID)
}

func TestMarkUnavailable_Duplicate(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	blackouts := &fakeBlackoutRepo{createErr: blackoutRepo.ErrDuplicateBlackout}
	svc := newTestService(newFakeSlotRepo(), blackouts, agentProperty(7), now)

	err := svc.MarkUnavailable(context.Background(), &models.BlackoutRequest{
		PropertyID: 10,
		Date:       now.AddDate(0, 0, 2),
		UserID:     7,
		Role:       domain.RoleAgent,
	})
	assert.ErrorIs(t, err, ErrDuplicateBlackout)
}

func TestClearUnavailable_NotFound(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	blackouts := &fakeBlackoutRepo{deleteErr: blackoutRepo.ErrBlackoutNotFound}
	svc := newTestService(newFakeSlotRepo(), blackouts, agentProperty(7), now)

	err := svc.ClearUnavailable(context.Background(), &models.BlackoutRequest{
		PropertyID: 10,
		Date:       now.AddDate(0, 0, 2),
		UserID:     7,
		Role:       domain.RoleAgent,
	})
	assert.ErrorIs(t, err, ErrBlackoutNotFound)
}
