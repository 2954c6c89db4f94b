package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/estatehub/EstateHub-VisitService/internal/domain"
	slotRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/slot"
	"github.com/estatehub/EstateHub-VisitService/pkg/metrics"
)

// Sweeper фоновый воркер, помечающий истёкшие открытые слоты
// Пометка мягкая (expired=true), история слотов сохраняется.
// Отдельный проход физически удаляет незабронированные слоты,
// дата которых ушла далеко за горизонт
type Sweeper struct {
	repo                SlotRepository
	interval            time.Duration
	hardDeleteAfterDays int // 0 = физическое удаление отключено
	timeProvider        TimeProvider
	metrics             *metrics.Metrics // может быть nil
	logger              Logger
}

// New создает новый экземпляр воркера
func New(repo SlotRepository, interval time.Duration, hardDeleteAfterDays int, m *metrics.Metrics, logger Logger) *Sweeper {
	return &Sweeper{
		repo:                repo,
		interval:            interval,
		hardDeleteAfterDays: hardDeleteAfterDays,
		timeProvider:        &RealTimeProvider{},
		metrics:             m,
		logger:              logger,
	}
}

// Start запускает цикл: один проход сразу, далее по таймеру до отмены ctx
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Sweeper: started, interval=%s", s.interval)

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("Sweeper: initial sweep failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("Sweeper: sweep failed: %v", err)
			}
		}
	}
}

// Sweep выполняет один проход и возвращает число помеченных слотов
// Ошибка по отдельному слоту не прерывает проход: слот будет
// повторно рассмотрен на следующем интервале
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	if s.metrics != nil {
		s.metrics.SweeperRunsTotal.WithLabelValues().Inc()
	}

	// Истечь могли только слоты с датой не позже сегодняшней
	candidates, err := s.repo.ListOpenOnOrBefore(ctx, dateOnly(now))
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, slot := range candidates {
		endInstant, err := slot.EndInstant()
		if err != nil {
			s.logger.Error("Sweeper: slot id=%d has invalid end time %q: %v", slot.ID, slot.EndTime, err)
			s.countError()
			continue
		}

		if endInstant.After(now) {
			continue
		}

		if err := s.repo.MarkExpired(ctx, slot.ID); err != nil {
			// Слот успели забронировать или удалить после выборки:
			// условная запись не затронула строку, это не ошибка
			if errors.Is(err, slotRepo.ErrSlotNotOpen) {
				continue
			}
			s.logger.Error("Sweeper: failed to expire slot id=%d: %v", slot.ID, err)
			s.countError()
			continue
		}

		expired++
	}

	if expired > 0 {
		s.logger.Info("Sweeper: marked %d slots as expired", expired)
		if s.metrics != nil {
			s.metrics.SweeperSlotsExpiredTotal.WithLabelValues().Add(float64(expired))
		}
	}

	s.hardDelete(ctx, now)

	return expired, nil
}

// hardDelete удаляет незабронированные слоты далеко за горизонтом
// Брони не удаляются никогда
func (s *Sweeper) hardDelete(ctx context.Context, now time.Time) {
	if s.hardDeleteAfterDays <= 0 {
		return
	}

	cutoff := dateOnly(now).AddDate(0, 0, -s.hardDeleteAfterDays)
	removed, err := s.repo.DeleteUnbookedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("Sweeper: hard delete before %s failed: %v", cutoff.Format(domain.DateFormat), err)
		s.countError()
		return
	}

	if removed > 0 {
		s.logger.Info("Sweeper: hard-deleted %d stale slots before %s", removed, cutoff.Format(domain.DateFormat))
	}
}

func (s *Sweeper) countError() {
	if s.metrics != nil {
		s.metrics.SweeperErrorsTotal.WithLabelValues().Inc()
	}
}

// dateOnly обнуляет время, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
