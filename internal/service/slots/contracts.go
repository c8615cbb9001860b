package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
)

// SlotsRepository интерфейс хранилища агрегата слотов
type SlotsRepository interface {
	AtomicUpdate(ctx context.Context, venueID string, fn venueslots.UpdateFunc) (*domain.VenueSlots, error)
}

// EventPublisher публикует события после фиксации изменений
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SlotEvent) error
}

// TransitionRecorder метрики переходов состояний
type TransitionRecorder interface {
	ObserveTransition(operation, result string)
	IncStoreConflict(operation string)
	AddHoldsSwept(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.SlotEvent) error { return nil }

type noopRecorder struct{}

func (noopRecorder) ObserveTransition(string, string) {}
func (noopRecorder) IncStoreConflict(string)          {}
func (noopRecorder) AddHoldsSwept(int)                {}
