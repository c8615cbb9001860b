package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
	"github.com/m04kA/SMC-VenueSlots/pkg/retry"
)

const (
	opHold        = "hold"
	opReleaseHold = "release_hold"
	opBook        = "book"
	opUnbook      = "unbook"
	opBlock       = "block"
	opUnblock     = "unblock"
	opReserve     = "reserve"
	opUnreserve   = "unreserve"
	opCleanHolds  = "clean_expired_holds"
)

// Options настройки сервиса
type Options struct {
	// HoldDurationMinutes длительность удержания по умолчанию
	HoldDurationMinutes int
	// Retry повторы при конфликте оптимистичной блокировки
	Retry retry.Config
}

// Service движок переходов состояний слотов.
// Каждая операция: снимок агрегата -> проверка -> compare-and-swap,
// при конфликте повтор с новым снимком.
type Service struct {
	repo         SlotsRepository
	publisher    EventPublisher
	recorder     TransitionRecorder
	retrier      *retry.Retrier
	timeProvider TimeProvider
	logger       Logger
	holdDuration int
}

// NewService создает новый экземпляр сервиса; publisher и recorder могут быть nil
func NewService(
	repo SlotsRepository,
	publisher EventPublisher,
	recorder TransitionRecorder,
	logger Logger,
	opts Options,
) *Service {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	holdDuration := opts.HoldDurationMinutes
	if holdDuration <= 0 {
		holdDuration = domain.DefaultHoldDurationMinutes
	}

	s := &Service{
		repo:         repo,
		publisher:    publisher,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		holdDuration: holdDuration,
	}
	s.retrier = retry.New(opts.Retry).WithCallback(func(attempt int, err error, next time.Duration) {
		s.logger.Warn("slots: optimistic conflict, retry #%d in %s: %v", attempt, next, err)
	})
	return s
}

// Hold временно удерживает слот за пользователем на время оплаты.
// Действующее удержание того же пользователя возвращается без продления.
func (s *Service) Hold(ctx context.Context, req *models.HoldRequest) (*models.HoldResponse, error) {
	s.logger.Info("Hold: venue=%s, slot=%s, user=%s, booking=%s",
		req.VenueID, req.Key(), req.UserID, req.BookingID)

	// 1. Валидация входных данных
	if err := validateHoldRequest(req); err != nil {
		return nil, s.reject("Hold", opHold, err)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.holdDuration
	}
	key := req.Key()

	var result models.HoldResponse

	// 2. Атомарное изменение агрегата
	err := s.mutate(ctx, opHold, req.VenueID, func(v *domain.VenueSlots) (bool, error) {
		now := s.timeProvider.Now()
		result = models.HoldResponse{}

		// 2.1. Забронированный слот удержать нельзя
		if _, booked := v.FindBooking(key); booked {
			return false, domain.ErrAlreadyBooked
		}

		// 2.2. Действующее удержание
		if existing, ok := v.FindActiveHold(key, now); ok {
			if existing.UserID != req.UserID {
				return false, domain.ErrHeldByOther
			}
			result.Hold = existing
			return false, nil
		}

		// 2.3. Истекшие удержания заменяются новым
		v.RemoveHolds(key)
		result.Hold = domain.HeldSlot{
			Date:          key.Date,
			StartTime:     key.StartTime,
			UserID:        req.UserID,
			BookingID:     req.BookingID,
			HoldExpiresAt: now.Add(time.Duration(duration) * time.Minute),
			CreatedAt:     now,
		}
		v.Held = append(v.Held, result.Hold)
		v.UpdatedAt = now
		result.Created = true
		return true, nil
	})
	s.observe(opHold, result.Created, err)
	if err != nil {
		s.logFailure("Hold", req.VenueID, key, err)
		return nil, err
	}

	// 3. Событие только для нового удержания
	if result.Created {
		s.publish(ctx, domain.SlotEvent{
			Type:       domain.EventSlotHeld,
			VenueID:    req.VenueID,
			Date:       key.Date,
			StartTime:  key.StartTime,
			UserID:     &result.Hold.UserID,
			BookingID:  &result.Hold.BookingID,
			OccurredAt: result.Hold.CreatedAt,
		})
		s.logger.Info("Hold: slot %s held by user=%s until %s",
			key, req.UserID, result.Hold.HoldExpiresAt.Format(time.RFC3339))
	} else {
		s.logger.Info("Hold: slot %s already held by user=%s, returning existing hold", key, req.UserID)
	}
	return &result, nil
}

// ReleaseHold снимает все удержания слота. Отсутствие удержания не ошибка.
func (s *Service) ReleaseHold(ctx context.Context, ref models.SlotRef) error {
	s.logger.Info("ReleaseHold: venue=%s, slot=%s", ref.VenueID, ref.Key())
	return s.removeRecords(ctx, "ReleaseHold", opReleaseHold, domain.EventSlotHoldReleased, ref,
		func(v *domain.VenueSlots, key domain.SlotKey) int { return v.RemoveHolds(key) })
}

// Book фиксирует бронирование слота и снимает удержание этого слота.
// Удержание другого пользователя не проверяется: бронирование приходит
// из подтвержденной оплаты или от кассира.
func (s *Service) Book(ctx context.Context, req *models.BookRequest) (*domain.BookedSlot, error) {
	s.logger.Info("Book: venue=%s, slot=%s, booking=%s, type=%s, status=%s",
		req.VenueID, req.Key(), req.BookingID, req.BookingType, req.Status)

	// 1. Валидация входных данных
	if err := validateBookRequest(req); err != nil {
		return nil, s.reject("Book", opBook, err)
	}

	key := req.Key()
	var booking domain.BookedSlot

	// 2. Атомарное изменение агрегата
	err := s.mutate(ctx, opBook, req.VenueID, func(v *domain.VenueSlots) (bool, error) {
		now := s.timeProvider.Now()

		if _, booked := v.FindBooking(key); booked {
			return false, domain.ErrAlreadyBooked
		}

		v.RemoveHolds(key)
		booking = domain.BookedSlot{
			Date:          key.Date,
			StartTime:     key.StartTime,
			BookingID:     req.BookingID,
			BookingType:   req.BookingType,
			Status:        req.Status,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Notes:         req.Notes,
			UserID:        req.UserID,
			CreatedAt:     now,
		}
		v.Bookings = append(v.Bookings, booking)
		v.UpdatedAt = now
		return true, nil
	})
	s.observe(opBook, err == nil, err)
	if err != nil {
		s.logFailure("Book", req.VenueID, key, err)
		return nil, err
	}

	// 3. Событие
	s.publish(ctx, domain.SlotEvent{
		Type:       domain.EventSlotBooked,
		VenueID:    req.VenueID,
		Date:       key.Date,
		StartTime:  key.StartTime,
		UserID:     booking.UserID,
		BookingID:  &booking.BookingID,
		OccurredAt: booking.CreatedAt,
	})

	s.logger.Info("Book: slot %s booked, booking=%s", key, req.BookingID)
	return &booking, nil
}

// Unbook удаляет бронирование слота (отмена или возврат)
func (s *Service) Unbook(ctx context.Context, ref models.SlotRef) error {
	s.logger.Info("Unbook: venue=%s, slot=%s", ref.VenueID, ref.Key())
	return s.removeRecords(ctx, "Unbook", opUnbook, domain.EventSlotUnbooked, ref,
		func(v *domain.VenueSlots, key domain.SlotKey) int { return v.RemoveBookings(key) })
}

// Block закрывает слот; повторная блокировка заменяет прежнюю запись
func (s *Service) Block(ctx context.Context, req *models.BlockRequest) (*domain.BlockedSlot, error) {
	s.logger.Info("Block: venue=%s, slot=%s", req.VenueID, req.Key())

	if err := validateBlockRequest(req); err != nil {
		return nil, s.reject("Block", opBlock, err)
	}

	key := req.Key()
	var blocked domain.BlockedSlot

	err := s.mutate(ctx, opBlock, req.VenueID, func(v *domain.VenueSlots) (bool, error) {
		now := s.timeProvider.Now()
		v.RemoveBlocked(key)
		blocked = domain.BlockedSlot{
			Date:      key.Date,
			StartTime: key.StartTime,
			Reason:    req.Reason,
			BlockedBy: req.BlockedBy,
			BlockedAt: now,
		}
		v.Blocked = append(v.Blocked, blocked)
		v.UpdatedAt = now
		return true, nil
	})
	s.observe(opBlock, err == nil, err)
	if err != nil {
		s.logFailure("Block", req.VenueID, key, err)
		return nil, err
	}

	s.publish(ctx, domain.SlotEvent{
		Type:       domain.EventSlotBlocked,
		VenueID:    req.VenueID,
		Date:       key.Date,
		StartTime:  key.StartTime,
		UserID:     req.BlockedBy,
		OccurredAt: blocked.BlockedAt,
	})
	return &blocked, nil
}

// Unblock снимает блокировку слота
func (s *Service) Unblock(ctx context.Context, ref models.SlotRef) error {
	s.logger.Info("Unblock: venue=%s, slot=%s", ref.VenueID, ref.Key())
	return s.removeRecords(ctx, "Unblock", opUnblock, domain.EventSlotUnblocked, ref,
		func(v *domain.VenueSlots, key domain.SlotKey) int { return v.RemoveBlocked(key) })
}

// Reserve резервирует слот администратором и возвращает идентификатор резерва.
// Повторный резерв заменяет прежнюю запись.
func (s *Service) Reserve(ctx context.Context, req *models.ReserveRequest) (*models.ReserveResponse, error) {
	s.logger.Info("Reserve: venue=%s, slot=%s, reservedBy=%s", req.VenueID, req.Key(), req.ReservedBy)

	if err := validateReserveRequest(req); err != nil {
		return nil, s.reject("Reserve", opReserve, err)
	}

	key := req.Key()
	var reserved domain.ReservedSlot

	err := s.mutate(ctx, opReserve, req.VenueID, func(v *domain.VenueSlots) (bool, error) {
		now := s.timeProvider.Now()
		v.RemoveReserved(key)
		reserved = domain.ReservedSlot{
			Date:       key.Date,
			StartTime:  key.StartTime,
			ReservedBy: req.ReservedBy,
			Note:       req.Note,
			ReservedAt: now,
		}
		v.Reserved = append(v.Reserved, reserved)
		v.UpdatedAt = now
		return true, nil
	})
	s.observe(opReserve, err == nil, err)
	if err != nil {
		s.logFailure("Reserve", req.VenueID, key, err)
		return nil, err
	}

	reservationID := domain.ReservationReferencePrefix + uuid.NewString()
	s.publish(ctx, domain.SlotEvent{
		Type:       domain.EventSlotReserved,
		VenueID:    req.VenueID,
		Date:       key.Date,
		StartTime:  key.StartTime,
		UserID:     &reserved.ReservedBy,
		BookingID:  &reservationID,
		OccurredAt: reserved.ReservedAt,
	})

	s.logger.Info("Reserve: slot %s reserved, reservation=%s", key, reservationID)
	return &models.ReserveResponse{ReservationID: reservationID, Reserved: reserved}, nil
}

// Unreserve снимает резерв слота
func (s *Service) Unreserve(ctx context.Context, ref models.SlotRef) error {
	s.logger.Info("Unreserve: venue=%s, slot=%s", ref.VenueID, ref.Key())
	return s.removeRecords(ctx, "Unreserve", opUnreserve, domain.EventSlotUnreserved, ref,
		func(v *domain.VenueSlots, key domain.SlotKey) int { return v.RemoveReserved(key) })
}

// CleanExpiredHolds удаляет удержания с holdExpiresAt <= now.
// Если удалять нечего, запись не выполняется.
func (s *Service) CleanExpiredHolds(ctx context.Context, venueID string) (*models.CleanupResponse, error) {
	if venueID == "" {
		return nil, s.reject("CleanExpiredHolds", opCleanHolds, fmt.Errorf("%w: venueId is required", ErrInvalidInput))
	}

	var (
		removed int
		now     time.Time
	)
	err := s.mutate(ctx, opCleanHolds, venueID, func(v *domain.VenueSlots) (bool, error) {
		now = s.timeProvider.Now()
		removed = v.RemoveExpiredHolds(now)
		if removed == 0 {
			return false, nil
		}
		v.UpdatedAt = now
		return true, nil
	})
	s.observe(opCleanHolds, removed > 0, err)
	if err != nil {
		s.logFailure("CleanExpiredHolds", venueID, domain.SlotKey{}, err)
		return nil, err
	}

	if removed > 0 {
		s.recorder.AddHoldsSwept(removed)
		count := removed
		s.publish(ctx, domain.SlotEvent{
			Type:       domain.EventHoldsCleaned,
			VenueID:    venueID,
			Count:      &count,
			OccurredAt: now,
		})
		s.logger.Info("CleanExpiredHolds: venue=%s, removed=%d", venueID, removed)
	}
	return &models.CleanupResponse{VenueID: venueID, Removed: removed}, nil
}

// removeRecords общий сценарий идемпотентного удаления записей слота
func (s *Service) removeRecords(
	ctx context.Context,
	method, op string,
	eventType domain.SlotEventType,
	ref models.SlotRef,
	remove func(v *domain.VenueSlots, key domain.SlotKey) int,
) error {
	if err := validateSlotRef(&ref); err != nil {
		return s.reject(method, op, err)
	}

	key := ref.Key()
	var (
		removed int
		now     time.Time
	)
	err := s.mutate(ctx, op, ref.VenueID, func(v *domain.VenueSlots) (bool, error) {
		now = s.timeProvider.Now()
		removed = remove(v, key)
		if removed == 0 {
			return false, nil
		}
		v.UpdatedAt = now
		return true, nil
	})
	s.observe(op, removed > 0, err)
	if err != nil {
		s.logFailure(method, ref.VenueID, key, err)
		return err
	}

	if removed > 0 {
		s.publish(ctx, domain.SlotEvent{
			Type:       eventType,
			VenueID:    ref.VenueID,
			Date:       key.Date,
			StartTime:  key.StartTime,
			OccurredAt: now,
		})
	}
	s.logger.Info("%s: slot %s, removed=%d", method, key, removed)
	return nil
}

// mutate выполняет AtomicUpdate с повтором при конфликте версии
func (s *Service) mutate(ctx context.Context, op, venueID string, fn venueslots.UpdateFunc) error {
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		_, err := s.repo.AtomicUpdate(ctx, venueID, fn)
		if errors.Is(err, venueslots.ErrConflict) {
			s.recorder.IncStoreConflict(op)
			return retry.Retryable(err)
		}
		return err
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, venueslots.ErrVenueNotFound):
		return domain.ErrNotInitialized
	case errors.Is(err, domain.ErrAlreadyBooked), errors.Is(err, domain.ErrHeldByOther):
		return err
	case errors.Is(err, retry.ErrMaxRetriesExceeded):
		return fmt.Errorf("%w: %s venue=%s: %v", domain.ErrConflict, op, venueID, err)
	default:
		return fmt.Errorf("%w: %s venue=%s: %v", ErrInternal, op, venueID, err)
	}
}

func (s *Service) publish(ctx context.Context, event domain.SlotEvent) {
	// изменение уже зафиксировано, отмена запроса не должна терять событие
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("slots: failed to publish %s for venue=%s: %v", event.Type, event.VenueID, err)
	}
}

func (s *Service) reject(method, op string, err error) error {
	s.logger.Warn("%s: validation failed: %v", method, err)
	s.recorder.ObserveTransition(op, resultLabel(err))
	return err
}

func (s *Service) observe(op string, changed bool, err error) {
	switch {
	case err != nil:
		s.recorder.ObserveTransition(op, resultLabel(err))
	case changed:
		s.recorder.ObserveTransition(op, "ok")
	default:
		s.recorder.ObserveTransition(op, "noop")
	}
}

func (s *Service) logFailure(method, venueID string, key domain.SlotKey, err error) {
	switch {
	case errors.Is(err, domain.ErrAlreadyBooked),
		errors.Is(err, domain.ErrHeldByOther),
		errors.Is(err, domain.ErrNotInitialized):
		s.logger.Warn("%s: venue=%s, slot=%s rejected: %v", method, venueID, key, err)
	default:
		s.logger.Error("%s: venue=%s, slot=%s failed: %v", method, venueID, key, err)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, domain.ErrHeldByOther):
		return "held_by_other"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
