package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
)

type entry struct {
	slots   *domain.VenueSlots
	version int64
}

// Repository хранилище агрегатов в памяти процесса.
// Используется в тестах и при локальном запуске (driver = "memory").
type Repository struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRepository создает пустое хранилище
func NewRepository() *Repository {
	return &Repository{entries: make(map[string]*entry)}
}

// Get возвращает копию агрегата площадки
func (r *Repository) Get(ctx context.Context, venueID string) (*domain.VenueSlots, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[venueID]
	if !ok {
		return nil, venueslots.ErrVenueNotFound
	}
	return e.slots.Clone(), nil
}

// Create сохраняет новый агрегат
func (r *Repository) Create(ctx context.Context, slots *domain.VenueSlots) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[slots.VenueID]; ok {
		return venueslots.ErrVenueAlreadyExists
	}
	r.entries[slots.VenueID] = &entry{slots: slots.Clone(), version: 1}
	return nil
}

// AtomicUpdate читает снимок, выполняет fn без блокировки и фиксирует результат,
// только если версия не изменилась с момента чтения
func (r *Repository) AtomicUpdate(ctx context.Context, venueID string, fn venueslots.UpdateFunc) (*domain.VenueSlots, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Снимок и версия
	r.mu.RLock()
	e, ok := r.entries[venueID]
	var snapshot *domain.VenueSlots
	var version int64
	if ok {
		snapshot = e.slots.Clone()
		version = e.version
	}
	r.mu.RUnlock()

	if !ok {
		return nil, venueslots.ErrVenueNotFound
	}

	// 2. Изменение снимка
	changed, err := fn(snapshot)
	if err != nil {
		return nil, err
	}
	if !changed {
		return snapshot, nil
	}

	// 3. Compare-and-swap по версии
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.entries[venueID]
	if !ok {
		return nil, venueslots.ErrVenueNotFound
	}
	if current.version != version {
		return nil, venueslots.ErrConflict
	}
	r.entries[venueID] = &entry{slots: snapshot.Clone(), version: version + 1}
	return snapshot, nil
}

// ListVenueIDs возвращает идентификаторы площадок в алфавитном порядке
func (r *Repository) ListVenueIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
