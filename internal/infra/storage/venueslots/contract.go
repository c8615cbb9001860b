package venueslots

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

// UpdateFunc изменяет приватный снимок агрегата.
// changed=false означает, что писать нечего; ошибка отменяет запись и
// возвращается вызывающему без изменений.
type UpdateFunc func(slots *domain.VenueSlots) (changed bool, err error)

// Repository общий контракт всех хранилищ агрегата слотов
type Repository interface {
	Get(ctx context.Context, venueID string) (*domain.VenueSlots, error)
	Create(ctx context.Context, slots *domain.VenueSlots) error
	AtomicUpdate(ctx context.Context, venueID string, fn UpdateFunc) (*domain.VenueSlots, error)
	ListVenueIDs(ctx context.Context) ([]string, error)
}
