package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/document"
	"github.com/m04kA/SMC-VenueSlots/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueSlots/pkg/psqlbuilder"
)

const tableName = "venue_slots"

//go:embed schema.sql
var schemaSQL string

// DBExecutor интерфейс для выполнения запросов (*sql.DB или обертка с метриками)
type DBExecutor = dbmetrics.DBExecutor

// Repository хранит агрегат площадки JSONB-документом в одной строке.
// Версия строки используется для compare-and-swap.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureSchema создает таблицу, если ее нет
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: EnsureSchema - exec ddl: %v", venueslots.ErrExecQuery, err)
	}
	return nil
}

// Get возвращает агрегат площадки
func (r *Repository) Get(ctx context.Context, venueID string) (*domain.VenueSlots, error) {
	slots, _, err := r.getWithVersion(ctx, venueID)
	return slots, err
}

func (r *Repository) getWithVersion(ctx context.Context, venueID string) (*domain.VenueSlots, int64, error) {
	query, args, err := psqlbuilder.Select("document", "version").
		From(tableName).
		Where(squirrel.Eq{"venue_id": venueID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: Get - build select query: %v", venueslots.ErrBuildQuery, err)
	}

	var (
		raw     []byte
		version int64
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, venueslots.ErrVenueNotFound
		}
		return nil, 0, fmt.Errorf("%w: Get - scan row: %v", venueslots.ErrScanRow, err)
	}

	var doc document.VenueSlots
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0, fmt.Errorf("%w: Get - unmarshal document: %v", venueslots.ErrDecode, err)
	}
	slots, err := doc.ToDomain()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: Get - convert document: %v", venueslots.ErrDecode, err)
	}
	return slots, version, nil
}

// Create вставляет строку площадки с версией 1
func (r *Repository) Create(ctx context.Context, slots *domain.VenueSlots) error {
	raw, err := json.Marshal(document.FromDomain(slots, 1))
	if err != nil {
		return fmt.Errorf("%w: Create - marshal document: %v", venueslots.ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("venue_id", "document", "version").
		Values(slots.VenueID, string(raw), 1).
		Suffix("ON CONFLICT (venue_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", venueslots.ErrBuildQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Create - exec insert: %v", venueslots.ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Create - rows affected: %v", venueslots.ErrExecQuery, err)
	}
	if affected == 0 {
		return venueslots.ErrVenueAlreadyExists
	}
	return nil
}

// AtomicUpdate читает документ с версией, применяет fn и обновляет строку
// условием version = прочитанная версия. Ноль обновленных строк означает конфликт.
func (r *Repository) AtomicUpdate(ctx context.Context, venueID string, fn venueslots.UpdateFunc) (*domain.VenueSlots, error) {
	snapshot, version, err := r.getWithVersion(ctx, venueID)
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

	raw, err := json.Marshal(document.FromDomain(snapshot, version+1))
	if err != nil {
		return nil, fmt.Errorf("%w: AtomicUpdate - marshal document: %v", venueslots.ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("document", string(raw)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"venue_id": venueID, "version": version}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AtomicUpdate - build update query: %v", venueslots.ErrBuildQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: AtomicUpdate - exec update: %v", venueslots.ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: AtomicUpdate - rows affected: %v", venueslots.ErrExecQuery, err)
	}
	if affected == 0 {
		return nil, venueslots.ErrConflict
	}
	return snapshot, nil
}

// ListVenueIDs возвращает все площадки
func (r *Repository) ListVenueIDs(ctx context.Context) ([]string, error) {
	query, args, err := psqlbuilder.Select("venue_id").
		From(tableName).
		OrderBy("venue_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListVenueIDs - build select query: %v", venueslots.ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListVenueIDs - exec select: %v", venueslots.ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListVenueIDs - scan row: %v", venueslots.ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListVenueIDs - iterate rows: %v", venueslots.ErrScanRow, err)
	}
	return ids, nil
}
