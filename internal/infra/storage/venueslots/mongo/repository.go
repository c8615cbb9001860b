package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/document"
)

const CollectionName = "venue_slots"

// Repository хранит агрегат документом коллекции venue_slots (_id = venueId).
// Поле version используется как условие замены документа.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository создает репозиторий поверх базы данных
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(CollectionName)}
}

// Get возвращает агрегат площадки
func (r *Repository) Get(ctx context.Context, venueID string) (*domain.VenueSlots, error) {
	doc, err := r.find(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return toDomain(doc)
}

func (r *Repository) find(ctx context.Context, venueID string) (*document.VenueSlots, error) {
	var doc document.VenueSlots
	err := r.collection.FindOne(ctx, bson.M{"_id": venueID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, venueslots.ErrVenueNotFound
		}
		return nil, fmt.Errorf("%w: Get - find one: %v", venueslots.ErrExecQuery, err)
	}
	return &doc, nil
}

// Create вставляет документ с версией 1
func (r *Repository) Create(ctx context.Context, slots *domain.VenueSlots) error {
	_, err := r.collection.InsertOne(ctx, document.FromDomain(slots, 1))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return venueslots.ErrVenueAlreadyExists
		}
		return fmt.Errorf("%w: Create - insert one: %v", venueslots.ErrExecQuery, err)
	}
	return nil
}

// AtomicUpdate заменяет документ фильтром {_id, version}; если документ
// за это время изменили, MatchedCount = 0 и возвращается venueslots.ErrConflict
func (r *Repository) AtomicUpdate(ctx context.Context, venueID string, fn venueslots.UpdateFunc) (*domain.VenueSlots, error) {
	doc, err := r.find(ctx, venueID)
	if err != nil {
		return nil, err
	}
	snapshot, err := toDomain(doc)
	if err != nil {
		return nil, err
	}

	changed, err := fn(snapshot)
	if err != nil {
		return nil, err
	}
	if !changed {
		return snapshot, nil
	}

	filter := bson.M{"_id": venueID, "version": doc.Version}
	res, err := r.collection.ReplaceOne(ctx, filter, document.FromDomain(snapshot, doc.Version+1))
	if err != nil {
		return nil, fmt.Errorf("%w: AtomicUpdate - replace one: %v", venueslots.ErrExecQuery, err)
	}
	if res.MatchedCount == 0 {
		return nil, venueslots.ErrConflict
	}
	return snapshot, nil
}

// ListVenueIDs возвращает идентификаторы всех площадок
func (r *Repository) ListVenueIDs(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: ListVenueIDs - distinct: %v", venueslots.ErrExecQuery, err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		id, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: ListVenueIDs - unexpected _id type %T", venueslots.ErrDecode, v)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func toDomain(doc *document.VenueSlots) (*domain.VenueSlots, error) {
	slots, err := doc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", venueslots.ErrDecode, err)
	}
	return slots, nil
}
