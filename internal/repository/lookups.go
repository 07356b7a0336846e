package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domain "exhibitions/internal/domain/lookups"
)

// LookupsRepo serves the locations and event_types tables. Both share the
// same shape, so the queries are parameterized only by a fixed table name.
type LookupsRepo struct {
	db *sqlx.DB
}

func NewLookupsRepo(db *sqlx.DB) *LookupsRepo {
	return &LookupsRepo{db: db}
}

const (
	tableLocations  = "locations"
	tableEventTypes = "event_types"
)

type lookupRow struct {
	Id     uuid.UUID `db:"id"`
	Name   string    `db:"name"`
	Slug   string    `db:"slug"`
	Active bool      `db:"active"`
}

type LookupFilters struct {
	Active *bool
	Query  string
	Limit  int
}

func (r *LookupsRepo) ListLocations(ctx context.Context, f LookupFilters) ([]domain.Location, error) {
	rows, err := r.list(ctx, tableLocations, f)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Location, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Location(row))
	}
	return out, nil
}

func (r *LookupsRepo) ListEventTypes(ctx context.Context, f LookupFilters) ([]domain.EventType, error) {
	rows, err := r.list(ctx, tableEventTypes, f)
	if err != nil {
		return nil, err
	}

	out := make([]domain.EventType, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.EventType(row))
	}
	return out, nil
}

func (r *LookupsRepo) GetLocation(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	row, err := r.get(ctx, tableLocations, id)
	if err != nil {
		return nil, err
	}
	loc := domain.Location(*row)
	return &loc, nil
}

func (r *LookupsRepo) GetEventType(ctx context.Context, id uuid.UUID) (*domain.EventType, error) {
	row, err := r.get(ctx, tableEventTypes, id)
	if err != nil {
		return nil, err
	}
	et := domain.EventType(*row)
	return &et, nil
}

func (r *LookupsRepo) CreateLocation(ctx context.Context, name, slug string, active bool) (uuid.UUID, error) {
	return r.create(ctx, tableLocations, name, slug, active)
}

func (r *LookupsRepo) CreateEventType(ctx context.Context, name, slug string, active bool) (uuid.UUID, error) {
	return r.create(ctx, tableEventTypes, name, slug, active)
}

func (r *LookupsRepo) UpdateLocation(ctx context.Context, id uuid.UUID, name, slug string, active *bool) error {
	return r.update(ctx, tableLocations, id, name, slug, active)
}

func (r *LookupsRepo) UpdateEventType(ctx context.Context, id uuid.UUID, name, slug string, active *bool) error {
	return r.update(ctx, tableEventTypes, id, name, slug, active)
}

// DeactivateLocation is the soft delete used by the lookup admin surface.
func (r *LookupsRepo) DeactivateLocation(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, tableLocations, id)
}

func (r *LookupsRepo) DeactivateEventType(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, tableEventTypes, id)
}

func (r *LookupsRepo) list(ctx context.Context, table string, f LookupFilters) ([]lookupRow, error) {
	query := `SELECT id, name, slug, active FROM ` + table + ` WHERE TRUE`
	args := []any{}

	if f.Active != nil {
		args = append(args, *f.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d", len(args))

	var rows []lookupRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return rows, nil
}

func (r *LookupsRepo) get(ctx context.Context, table string, id uuid.UUID) (*lookupRow, error) {
	var row lookupRow
	err := r.db.GetContext(ctx, &row, `SELECT id, name, slug, active FROM `+table+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %w", table, err)
	}
	return &row, nil
}

func (r *LookupsRepo) create(ctx context.Context, table, name, slug string, active bool) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO `+table+` (name, slug, active) VALUES ($1, $2, $3) RETURNING id`,
		name, slug, active,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create %s row: %w", table, err)
	}
	return id, nil
}

func (r *LookupsRepo) update(ctx context.Context, table string, id uuid.UUID, name, slug string, active *bool) error {
	query := `UPDATE ` + table + ` SET
		name = COALESCE(NULLIF($2, ''), name),
		slug = COALESCE(NULLIF($3, ''), slug),
		active = COALESCE($4, active)
	WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, name, slug, active)
	if err != nil {
		return fmt.Errorf("failed to update %s row: %w", table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LookupsRepo) deactivate(ctx context.Context, table string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate %s row: %w", table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
