package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSlotRepo struct {
	slots []*domain.Slot
}

func (f *fakeSlotRepo) GetOpenByPropertyInWindow(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.Slot, error) {
	return f.slots, nil
}

type fakeBlackoutRepo struct {
	dates []time.Time
}

func (f *fakeBlackoutRepo) ListDatesByPropertyInWindow(ctx context.Context, propertyID int64, from, to time.Time) ([]time.Time, error) {
	return f.dates, nil
}

type fakePropertyClient struct {
	err error
}

func (f *fakePropertyClient) GetProperty(ctx context.Context, propertyID int64) (*propertyservice.Property, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &propertyservice.Property{ID: propertyID}, nil
}

func newTestUseCase(slots *fakeSlotRepo, blackouts *fakeBlackoutRepo, props *fakePropertyClient, now time.Time) *UseCase {
	uc := NewUseCase(slots, blackouts, props, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExecute_GroupsByDate(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.Slot{
		{ID: 1, PropertyID: 10, VisitDate: day(2025, 11, 4), StartTime: "09:00", EndTime: "09:30"},
		{ID: 2, PropertyID: 10, VisitDate: day(2025, 11, 4), StartTime: "09:30", EndTime: "10:00"},
		{ID: 3, PropertyID: 10, VisitDate: day(2025, 11, 6), StartTime: "14:00", EndTime: "14:30"},
	}}
	uc := newTestUseCase(slots, &fakeBlackoutRepo{}, &fakePropertyClient{}, now)

	resp, err := uc.Execute(context.Background(), &Request{PropertyID: 10})
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	assert.Equal(t, day(2025, 11, 4), resp.Days[0].Date)
	require.Len(t, resp.Days[0].Slots, 2)
	assert.Equal(t, int64(1), resp.Days[0].Slots[0].ID)
	assert.Equal(t, int64(2), resp.Days[0].Slots[1].ID)

	assert.Equal(t, day(2025, 11, 6), resp.Days[1].Date)
	require.Len(t, resp.Days[1].Slots, 1)
}

func TestExecute_ExcludesBlackedOutDates(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.Slot{
		{ID: 1, PropertyID: 10, VisitDate: day(2025, 11, 4), StartTime: "09:00", EndTime: "09:30"},
		{ID: 2, PropertyID: 10, VisitDate: day(2025, 11, 5), StartTime: "09:00", EndTime: "09:30"},
	}}
	blackouts := &fakeBlackoutRepo{dates: []time.Time{day(2025, 11, 4)}}
	uc := newTestUseCase(slots, blackouts, &fakePropertyClient{}, now)

	resp, err := uc.Execute(context.Background(), &Request{PropertyID: 10})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	assert.Equal(t, day(2025, 11, 5), resp.Days[0].Date)
}

func TestExecute_ExcludesPastTimesToday(t *testing.T) {
	// Сейчас 10:00: слот 09:30 уже прошёл, слот ровно в 10:00 не строго
	// в будущем, слот 10:30 остаётся
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	today := day(2025, 11, 3)
	slots := &fakeSlotRepo{slots: []*domain.Slot{
		{ID: 1, PropertyID: 10, VisitDate: today, StartTime: "09:30", EndTime: "10:00"},
		{ID: 2, PropertyID: 10, VisitDate: today, StartTime: "10:00", EndTime: "10:30"},
		{ID: 3, PropertyID: 10, VisitDate: today, StartTime: "10:30", EndTime: "11:00"},
	}}
	uc := newTestUseCase(slots, &fakeBlackoutRepo{}, &fakePropertyClient{}, now)

	resp, err := uc.Execute(context.Background(), &Request{PropertyID: 10})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	require.Len(t, resp.Days[0].Slots, 1)
	assert.Equal(t, int64(3), resp.Days[0].Slots[0].ID)
}

func TestExecute_EmptyWhenNoSlots(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeBlackoutRepo{}, &fakePropertyClient{}, now)

	resp, err := uc.Execute(context.Background(), &Request{PropertyID: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Days)
}

func TestExecute_PropertyNotFound(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	props := &fakePropertyClient{err: propertyservice.ErrPropertyNotFound}
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeBlackoutRepo{}, props, now)

	_, err := uc.Execute(context.Background(), &Request{PropertyID: 10})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestExecute_InvalidPropertyID(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeBlackoutRepo{}, &fakePropertyClient{}, now)

	_, err := uc.Execute(context.Background(), &Request{PropertyID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
