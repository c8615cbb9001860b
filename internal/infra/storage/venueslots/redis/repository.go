package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/document"
)

const DefaultKeyPrefix = "venueslots"

// Repository хранит агрегат JSON-строкой по ключу {prefix}:{venueId}.
// Конкурентные записи разводятся через WATCH/MULTI/EXEC.
type Repository struct {
	client    *goredis.Client
	keyPrefix string
}

// NewRepository создает репозиторий; пустой префикс заменяется на DefaultKeyPrefix
func NewRepository(client *goredis.Client, keyPrefix string) *Repository {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repository{client: client, keyPrefix: keyPrefix}
}

func (r *Repository) key(venueID string) string {
	return r.keyPrefix + ":" + venueID
}

func (r *Repository) indexKey() string {
	return r.keyPrefix + ":index"
}

// Get возвращает агрегат площадки
func (r *Repository) Get(ctx context.Context, venueID string) (*domain.VenueSlots, error) {
	raw, err := r.client.Get(ctx, r.key(venueID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, venueslots.ErrVenueNotFound
		}
		return nil, fmt.Errorf("%w: Get - get key: %v", venueslots.ErrExecQuery, err)
	}
	return decode(raw)
}

// Create сохраняет агрегат и добавляет площадку в индекс
func (r *Repository) Create(ctx context.Context, slots *domain.VenueSlots) error {
	raw, err := encode(slots)
	if err != nil {
		return err
	}

	key := r.key(slots.VenueID)
	err = r.client.Watch(ctx, func(tx *goredis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("%w: Create - check key: %v", venueslots.ErrExecQuery, err)
		}
		if exists > 0 {
			return venueslots.ErrVenueAlreadyExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			pipe.SAdd(ctx, r.indexKey(), slots.VenueID)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, venueslots.ErrVenueAlreadyExists):
		return err
	case errors.Is(err, goredis.TxFailedErr):
		// ключ создал параллельный запрос
		return venueslots.ErrVenueAlreadyExists
	default:
		return fmt.Errorf("%w: Create - exec transaction: %v", venueslots.ErrExecQuery, err)
	}
}

// AtomicUpdate выполняет fn над снимком под WATCH; если ключ изменился до EXEC,
// возвращает venueslots.ErrConflict
func (r *Repository) AtomicUpdate(ctx context.Context, venueID string, fn venueslots.UpdateFunc) (*domain.VenueSlots, error) {
	key := r.key(venueID)
	var result *domain.VenueSlots

	err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return venueslots.ErrVenueNotFound
			}
			return fmt.Errorf("%w: AtomicUpdate - get key: %v", venueslots.ErrExecQuery, err)
		}

		snapshot, err := decode(raw)
		if err != nil {
			return err
		}

		changed, err := fn(snapshot)
		if err != nil {
			return err
		}
		result = snapshot
		if !changed {
			return nil
		}

		updated, err := encode(snapshot)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}, key)

	if err != nil {
		if errors.Is(err, goredis.TxFailedErr) {
			return nil, venueslots.ErrConflict
		}
		return nil, err
	}
	return result, nil
}

// ListVenueIDs возвращает площадки из индекса в алфавитном порядке
func (r *Repository) ListVenueIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ListVenueIDs - smembers: %v", venueslots.ErrExecQuery, err)
	}
	sort.Strings(ids)
	return ids, nil
}

func encode(slots *domain.VenueSlots) ([]byte, error) {
	raw, err := json.Marshal(document.FromDomain(slots, 0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", venueslots.ErrEncode, err)
	}
	return raw, nil
}

func decode(raw []byte) (*domain.VenueSlots, error) {
	var doc document.VenueSlots
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", venueslots.ErrDecode, err)
	}
	slots, err := doc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", venueslots.ErrDecode, err)
	}
	return slots, nil
}
