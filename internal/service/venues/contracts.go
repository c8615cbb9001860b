package venues

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
)

// VenueSlotsRepository интерфейс хранилища агрегата слотов
type VenueSlotsRepository interface {
	Get(ctx context.Context, venueID string) (*domain.VenueSlots, error)
	Create(ctx context.Context, slots *domain.VenueSlots) error
	AtomicUpdate(ctx context.Context, venueID string, fn venueslots.UpdateFunc) (*domain.VenueSlots, error)
}

// EventPublisher публикует события после фиксации изменений
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SlotEvent) error
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
