package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/pkg/retry"
)

// Service сервис конфигурации слотов площадки
type Service struct {
	repo         VenueSlotsRepository
	publisher    EventPublisher
	retrier      *retry.Retrier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса; publisher может быть nil
func NewService(
	repo VenueSlotsRepository,
	publisher EventPublisher,
	retryConfig retry.Config,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		publisher:    publisher,
		retrier:      retry.New(retryConfig),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Initialize создает пустой агрегат слотов площадки.
// Пустой timezone заменяется на domain.DefaultTimezone.
func (s *Service) Initialize(ctx context.Context, venueID string, config domain.VenueSlotConfig) (*domain.VenueSlots, error) {
	s.logger.Info("Initialize: venue=%s, hours=%s-%s, duration=%d, days=%v",
		venueID, config.StartTime, config.EndTime, config.SlotDurationMinutes, config.DaysOfWeek)

	// 1. Валидация
	if strings.TrimSpace(venueID) == "" {
		s.logger.Warn("Initialize: empty venue id")
		return nil, fmt.Errorf("%w: venueId is required", ErrInvalidInput)
	}
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		s.logger.Warn("Initialize: invalid config for venue=%s: %v", venueID, err)
		return nil, err
	}

	// 2. Создаем агрегат без исключений
	now := s.timeProvider.Now()
	slots := domain.NewVenueSlots(venueID, config, now)
	if err := s.repo.Create(ctx, slots); err != nil {
		if errors.Is(err, venueslots.ErrVenueAlreadyExists) {
			s.logger.Warn("Initialize: venue=%s already initialized", venueID)
			return nil, domain.ErrAlreadyInitialized
		}
		s.logger.Error("Initialize: repository error for venue=%s: %v", venueID, err)
		return nil, fmt.Errorf("%w: Initialize - repository error: %v", ErrInternal, err)
	}

	s.publish(ctx, domain.SlotEvent{Type: domain.EventVenueInitialized, VenueID: venueID, OccurredAt: now})
	s.logger.Info("Initialize: venue=%s initialized", venueID)
	return slots, nil
}

// GetConfig возвращает конфигурацию слотов площадки
func (s *Service) GetConfig(ctx context.Context, venueID string) (*domain.VenueSlotConfig, error) {
	slots, err := s.repo.Get(ctx, venueID)
	if err != nil {
		if errors.Is(err, venueslots.ErrVenueNotFound) {
			s.logger.Warn("GetConfig: venue=%s not initialized", venueID)
			return nil, domain.ErrNotInitialized
		}
		s.logger.Error("GetConfig: repository error for venue=%s: %v", venueID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	config := slots.Config.Clone()
	return &config, nil
}

// UpdateConfig применяет частичное обновление конфигурации.
// Существующие исключения не пересчитываются: записи вне новой сетки
// просто перестают совпадать с ячейками.
func (s *Service) UpdateConfig(ctx context.Context, venueID string, patch domain.PartialVenueSlotConfig) (*domain.VenueSlotConfig, error) {
	s.logger.Info("UpdateConfig: venue=%s", venueID)

	if strings.TrimSpace(venueID) == "" {
		return nil, fmt.Errorf("%w: venueId is required", ErrInvalidInput)
	}
	if patch.IsEmpty() {
		s.logger.Warn("UpdateConfig: empty patch for venue=%s", venueID)
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var (
		updated domain.VenueSlotConfig
		changed bool
		now     time.Time
	)
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		_, err := s.repo.AtomicUpdate(ctx, venueID, func(v *domain.VenueSlots) (bool, error) {
			now = s.timeProvider.Now()
			merged := v.Config.Merge(patch)
			if err := merged.Validate(); err != nil {
				return false, err
			}
			updated = merged
			changed = !configEqual(v.Config, merged)
			if !changed {
				return false, nil
			}
			v.Config = merged
			v.UpdatedAt = now
			return true, nil
		})
		if errors.Is(err, venueslots.ErrConflict) {
			return retry.Retryable(err)
		}
		return err
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidConfig):
			s.logger.Warn("UpdateConfig: invalid config for venue=%s: %v", venueID, err)
			return nil, err
		case errors.Is(err, venueslots.ErrVenueNotFound):
			s.logger.Warn("UpdateConfig: venue=%s not initialized", venueID)
			return nil, domain.ErrNotInitialized
		case errors.Is(err, retry.ErrMaxRetriesExceeded):
			s.logger.Error("UpdateConfig: venue=%s retries exhausted: %v", venueID, err)
			return nil, fmt.Errorf("%w: UpdateConfig: %v", domain.ErrConflict, err)
		default:
			s.logger.Error("UpdateConfig: repository error for venue=%s: %v", venueID, err)
			return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
		}
	}

	if changed {
		s.publish(ctx, domain.SlotEvent{Type: domain.EventVenueConfigUpdated, VenueID: venueID, OccurredAt: now})
	}
	s.logger.Info("UpdateConfig: venue=%s, changed=%t", venueID, changed)
	return &updated, nil
}

func (s *Service) publish(ctx context.Context, event domain.SlotEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("venues: failed to publish %s for venue=%s: %v", event.Type, event.VenueID, err)
	}
}

func configEqual(a, b domain.VenueSlotConfig) bool {
	if a.StartTime != b.StartTime || a.EndTime != b.EndTime ||
		a.SlotDurationMinutes != b.SlotDurationMinutes || a.Timezone != b.Timezone ||
		len(a.DaysOfWeek) != len(b.DaysOfWeek) {
		return false
	}
	for i := range a.DaysOfWeek {
		if a.DaysOfWeek[i] != b.DaysOfWeek[i] {
			return false
		}
	}
	return true
}
