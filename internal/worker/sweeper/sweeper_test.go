package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	slotRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/slot"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSlotRepo struct {
	candidates []*domain.Slot
	markErrs   map[int64]error
	expired    []int64
	deleted    int64
	cutoff     time.Time
}

func (f *fakeSlotRepo) ListOpenOnOrBefore(ctx context.Context, date time.Time) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range f.candidates {
		if !s.VisitDate.After(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) MarkExpired(ctx context.Context, id int64) error {
	if err, ok := f.markErrs[id]; ok {
		return err
	}
	f.expired = append(f.expired, id)
	for _, s := range f.candidates {
		if s.ID == id {
			s.Expired = true
		}
	}
	return nil
}

func (f *fakeSlotRepo) DeleteUnbookedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, nil
}

func newTestSweeper(repo *fakeSlotRepo, hardDeleteAfterDays int, now time.Time) *Sweeper {
	s := New(repo, time.Minute, hardDeleteAfterDays, nil, nopLogger{})
	s.timeProvider = fixedTime{now: now}
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSweep_ExpiresPastSlots(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{candidates: []*domain.Slot{
		// Вчерашний слот истёк целиком
		{ID: 1, VisitDate: day(2025, 11, 2), StartTime: "10:00", EndTime: "10:30"},
		// Сегодня, окно закрылось час назад
		{ID: 2, VisitDate: day(2025, 11, 3), StartTime: "10:30", EndTime: "11:00"},
		// Сегодня, окно закрывается ровно сейчас - уже не открыт
		{ID: 3, VisitDate: day(2025, 11, 3), StartTime: "11:30", EndTime: "12:00"},
		// Сегодня, но ещё впереди
		{ID: 4, VisitDate: day(2025, 11, 3), StartTime: "14:00", EndTime: "14:30"},
	}}

	expired, err := newTestSweeper(repo, 0, now).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, expired)
	assert.Equal(t, []int64{1, 2, 3}, repo.expired)
}

func TestSweep_Idempotent(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{candidates: []*domain.Slot{
		{ID: 1, VisitDate: day(2025, 11, 2), StartTime: "10:00", EndTime: "10:30"},
	}}
	sw := newTestSweeper(repo, 0, now)

	first, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	// Повторный проход: слот уже не открыт, условная запись не сработает
	repo.markErrs = map[int64]error{1: slotRepo.ErrSlotNotOpen}
	second, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestSweep_BookedRaceIsBenign(t *testing.T) {
	// Слот успели забронировать между выборкой и условной записью
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{
		candidates: []*domain.Slot{
			{ID: 1, VisitDate: day(2025, 11, 2), StartTime: "10:00", EndTime: "10:30"},
			{ID: 2, VisitDate: day(2025, 11, 2), StartTime: "11:00", EndTime: "11:30"},
		},
		markErrs: map[int64]error{1: slotRepo.ErrSlotNotOpen},
	}

	expired, err := newTestSweeper(repo, 0, now).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, []int64{2}, repo.expired)
}

func TestSweep_ErrorIsolation(t *testing.T) {
	// Ошибка по одному слоту не прерывает проход
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{
		candidates: []*domain.Slot{
			{ID: 1, VisitDate: day(2025, 11, 2), StartTime: "10:00", EndTime: "10:30"},
			{ID: 2, VisitDate: day(2025, 11, 2), StartTime: "11:00", EndTime: "11:30"},
			{ID: 3, VisitDate: day(2025, 11, 2), StartTime: "12:00", EndTime: "12:30"},
		},
		markErrs: map[int64]error{2: errors.New("connection reset")},
	}

	expired, err := newTestSweeper(repo, 0, now).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, expired)
	assert.Equal(t, []int64{1, 3}, repo.expired)
}

func TestSweep_InvalidEndTimeSkipped(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{candidates: []*domain.Slot{
		{ID: 1, VisitDate: day(2025, 11, 2), StartTime: "10:00", EndTime: "bad"},
		{ID: 2, VisitDate: day(2025, 11, 2), StartTime: "11:00", EndTime: "11:30"},
	}}

	expired, err := newTestSweeper(repo, 0, now).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, []int64{2}, repo.expired)
}

func TestSweep_HardDelete(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{deleted: 5}

	_, err := newTestSweeper(repo, 90, now).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, day(2025, 8, 5), repo.cutoff)
}

func TestSweep_HardDeleteDisabled(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	repo := &fakeSlotRepo{}

	_, err := newTestSweeper(repo, 0, now).Sweep(context.Background())
	require.NoError(t, err)

	assert.True(t, repo.cutoff.IsZero())
}

// Даты слотов в базе строятся в UTC; провайдер времени обязан отдавать
// моменты в той же зоне, иначе порог экспирации плывет на смещение зоны
func TestRealTimeProviderUsesUTC(t *testing.T) {
	p := &RealTimeProvider{}
	assert.Equal(t, time.UTC, p.Now().Location())
}
