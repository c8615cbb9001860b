package get_venue_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
)

// UseCase сценарий чтения сетки слотов площадки
type UseCase struct {
	repo         VenueSlotsRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(repo VenueSlotsRepository, logger Logger) *UseCase {
	return &UseCase{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute восстанавливает состояние всех ячеек площадки за период.
// Для неинициализированной площадки возвращается пустой список без ошибки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetVenueSlots: invalid input: %v", err)
		return nil, err
	}
	from, to := calendarDate(req.StartDate), calendarDate(req.EndDate)

	response := &Response{
		VenueID:   req.VenueID,
		StartDate: from,
		EndDate:   to,
		Slots:     []domain.ReconstructedSlot{},
	}

	// 2. Загружаем агрегат площадки
	slots, err := uc.repo.Get(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueslots.ErrVenueNotFound) {
			uc.logger.Info("GetVenueSlots: venue=%s not initialized, empty result", req.VenueID)
			return response, nil
		}
		uc.logger.Error("GetVenueSlots: failed to load venue=%s: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: Execute - load venue slots: %v", ErrInternal, err)
	}

	response.Initialized = true
	response.SlotDurationMinutes = slots.Config.SlotDurationMinutes
	response.Timezone = slots.Config.Timezone

	// 3. Восстанавливаем сетку и статусы
	result, err := reconstruct(slots, from, to, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GetVenueSlots: reconstruct failed for venue=%s: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: Execute - reconstruct: %v", ErrInternal, err)
	}
	response.Slots = result

	uc.logger.Info("GetVenueSlots: venue=%s, range=%s..%s, slots=%d",
		req.VenueID, from.Format(domain.DateFormat), to.Format(domain.DateFormat), len(result))
	return response, nil
}

// GetSlotStatus возвращает состояние одной ячейки.
// Ячейка вне сетки, в закрытый день или в прошлом считается несуществующей.
func (uc *UseCase) GetSlotStatus(ctx context.Context, req *SlotStatusRequest) (*domain.ReconstructedSlot, error) {
	// 1. Валидация входных данных
	if err := validateStatusRequest(req); err != nil {
		uc.logger.Warn("GetSlotStatus: invalid input: %v", err)
		return nil, err
	}

	// 2. Загружаем агрегат площадки
	slots, err := uc.repo.Get(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueslots.ErrVenueNotFound) {
			uc.logger.Warn("GetSlotStatus: venue=%s not initialized", req.VenueID)
			return nil, domain.ErrNotInitialized
		}
		uc.logger.Error("GetSlotStatus: failed to load venue=%s: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: GetSlotStatus - load venue slots: %v", ErrInternal, err)
	}

	// 3. Ячейка должна существовать в сетке на эту дату
	day := calendarDate(req.Date)
	if !slots.Config.IsOpenOn(day.Weekday()) {
		return nil, fmt.Errorf("%w: venue is closed on %s", ErrSlotNotFound, day.Weekday())
	}
	ok, err := onGrid(slots.Config, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotStatus - generate grid: %v", ErrInternal, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a slot start", ErrSlotNotFound, req.StartTime)
	}

	now := uc.timeProvider.Now()
	startsAt, err := req.StartTime.On(day, slots.Config.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	if startsAt.Before(now) {
		return nil, fmt.Errorf("%w: %s %s is in the past", ErrSlotNotFound, day.Format(domain.DateFormat), req.StartTime)
	}

	// 4. Определяем статус
	slot, err := resolve(slots.Index(), domain.NewSlotKey(day, req.StartTime), slots.Config.SlotDurationMinutes, now)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotStatus - resolve: %v", ErrInternal, err)
	}
	return &slot, nil
}
