package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	bdomain "exhibitions/internal/domain/bookings"
	domain "exhibitions/internal/domain/exhibitions"
)

type ExhibitionsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewExhibitionsRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *ExhibitionsRepo {
	return &ExhibitionsRepo{db: db, getter: getter}
}

type exhibitionRow struct {
	Id                    uuid.UUID           `db:"id"`
	Title                 string              `db:"title"`
	Description           sql.NullString      `db:"description"`
	Date                  time.Time           `db:"date"`
	Price                 decimal.NullDecimal `db:"price"`
	RemainingTickets      sql.NullInt32       `db:"remaining_tickets"`
	VenueAddress          sql.NullString      `db:"venue_address"`
	ContactPhone          sql.NullString      `db:"contact_phone"`
	Amenities             jsonbStrings        `db:"amenities"`
	EventImages           jsonbStrings        `db:"event_images"`
	RegistrationDocuments jsonbStrings        `db:"registration_documents"`
	Location              sql.NullString      `db:"location"`
	LocationId            uuid.NullUUID       `db:"location_id"`
	EventType             sql.NullString      `db:"event_type"`
	EventTypeId           uuid.NullUUID       `db:"event_type_id"`
	OrganizerId           uuid.NullUUID       `db:"organizer_id"`
	Status                string              `db:"status"`
	TermsAccepted         bool                `db:"terms_accepted"`
	CreatedAt             time.Time           `db:"created_at"`
}

const exhibitionColumns = `
	id, title, description, date, price, remaining_tickets,
	venue_address, contact_phone, amenities, event_images,
	registration_documents, location, location_id, event_type,
	event_type_id, organizer_id, status, terms_accepted, created_at`

func (r *ExhibitionsRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Exhibition, error) {
	query := `SELECT ` + exhibitionColumns + ` FROM exhibitions WHERE id = $1`

	var row exhibitionRow
	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exhibition: %w", err)
	}

	return rowToDomain(&row), nil
}

// FindByTitleInWindow resolves an exhibition by exact title whose date falls
// inside [start, end), preferring the earliest match.
func (r *ExhibitionsRepo) FindByTitleInWindow(ctx context.Context, title string, start, end time.Time) (*domain.Exhibition, error) {
	query := `
	SELECT ` + exhibitionColumns + `
	FROM exhibitions
	WHERE title = $1 AND date >= $2 AND date < $3
	ORDER BY date ASC
	LIMIT 1`

	var row exhibitionRow
	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &row, query, title, start, end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exhibition by title and date: %w", err)
	}

	return rowToDomain(&row), nil
}

// FindFirstByTitle resolves an exhibition by exact title, earliest date first.
func (r *ExhibitionsRepo) FindFirstByTitle(ctx context.Context, title string) (*domain.Exhibition, error) {
	query := `
	SELECT ` + exhibitionColumns + `
	FROM exhibitions
	WHERE title = $1
	ORDER BY date ASC
	LIMIT 1`

	var row exhibitionRow
	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &row, query, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exhibition by title: %w", err)
	}

	return rowToDomain(&row), nil
}

// DecrementRemaining takes qty off the remaining-ticket counter. The guard
// makes the read-check-decrement atomic: a relative decrement that only
// applies while enough tickets remain, so concurrent purchases cannot drive
// the counter negative.
func (r *ExhibitionsRepo) DecrementRemaining(ctx context.Context, id uuid.UUID, qty int) error {
	query := `
	UPDATE exhibitions
	SET remaining_tickets = remaining_tickets - $2
	WHERE id = $1 AND remaining_tickets >= $2`

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("failed to decrement remaining tickets: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return bdomain.ErrNotEnoughTickets
	}
	return nil
}

type ExhibitionFilters struct {
	OrganizerId *uuid.UUID
	Status      string
	Query       string
	Limit       int
	Offset      int
}

func (r *ExhibitionsRepo) List(ctx context.Context, f ExhibitionFilters) ([]domain.Exhibition, error) {
	query := `SELECT ` + exhibitionColumns + ` FROM exhibitions WHERE TRUE`
	args := []any{}

	if f.OrganizerId != nil {
		args = append(args, *f.OrganizerId)
		query += fmt.Sprintf(" AND organizer_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var rows []exhibitionRow
	err := r.getter.DefaultTrOrDB(ctx, r.db).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exhibitions: %w", err)
	}

	out := make([]domain.Exhibition, 0, len(rows))
	for i := range rows {
		out = append(out, *rowToDomain(&rows[i]))
	}
	return out, nil
}

func (r *ExhibitionsRepo) Create(ctx context.Context, ex *domain.Exhibition) (uuid.UUID, error) {
	query := `
	INSERT INTO exhibitions (
		title, description, date, price, remaining_tickets,
		venue_address, contact_phone, amenities, event_images,
		registration_documents, location, location_id, event_type,
		event_type_id, organizer_id, status, terms_accepted
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
	) RETURNING id`

	row := domainToRow(ex)

	var id uuid.UUID
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowxContext(ctx, query,
		row.Title, row.Description, row.Date, row.Price, row.RemainingTickets,
		row.VenueAddress, row.ContactPhone, row.Amenities, row.EventImages,
		row.RegistrationDocuments, row.Location, row.LocationId, row.EventType,
		row.EventTypeId, row.OrganizerId, row.Status, row.TermsAccepted,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create exhibition: %w", err)
	}
	return id, nil
}

func (r *ExhibitionsRepo) Update(ctx context.Context, ex *domain.Exhibition) error {
	query := `
	UPDATE exhibitions SET
		title = $2, description = $3, date = $4, price = $5,
		remaining_tickets = $6, venue_address = $7, contact_phone = $8,
		amenities = $9, event_images = $10, registration_documents = $11,
		location = $12, location_id = $13, event_type = $14,
		event_type_id = $15, status = $16, terms_accepted = $17
	WHERE id = $1`

	row := domainToRow(ex)

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		row.Id, row.Title, row.Description, row.Date, row.Price,
		row.RemainingTickets, row.VenueAddress, row.ContactPhone,
		row.Amenities, row.EventImages, row.RegistrationDocuments,
		row.Location, row.LocationId, row.EventType, row.EventTypeId,
		row.Status, row.TermsAccepted,
	)
	if err != nil {
		return fmt.Errorf("failed to update exhibition: %w", err)
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

func (r *ExhibitionsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `DELETE FROM exhibitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exhibition: %w", err)
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

func rowToDomain(row *exhibitionRow) *domain.Exhibition {
	ex := &domain.Exhibition{
		Id:                    row.Id,
		Title:                 row.Title,
		Description:           row.Description.String,
		Date:                  row.Date,
		Price:                 row.Price,
		VenueAddress:          row.VenueAddress.String,
		ContactPhone:          row.ContactPhone.String,
		Amenities:             row.Amenities,
		EventImages:           row.EventImages,
		RegistrationDocuments: row.RegistrationDocuments,
		Location:              row.Location.String,
		EventType:             row.EventType.String,
		Status:                row.Status,
		TermsAccepted:         row.TermsAccepted,
		CreatedAt:             row.CreatedAt,
	}

	if row.RemainingTickets.Valid {
		remaining := int(row.RemainingTickets.Int32)
		ex.RemainingTickets = &remaining
	}
	if row.LocationId.Valid {
		id := row.LocationId.UUID
		ex.LocationId = &id
	}
	if row.EventTypeId.Valid {
		id := row.EventTypeId.UUID
		ex.EventTypeId = &id
	}
	if row.OrganizerId.Valid {
		id := row.OrganizerId.UUID
		ex.OrganizerId = &id
	}
	return ex
}

func domainToRow(ex *domain.Exhibition) *exhibitionRow {
	row := &exhibitionRow{
		Id:                    ex.Id,
		Title:                 ex.Title,
		Description:           nullString(ex.Description),
		Date:                  ex.Date,
		Price:                 ex.Price,
		VenueAddress:          nullString(ex.VenueAddress),
		ContactPhone:          nullString(ex.ContactPhone),
		Amenities:             jsonbStrings(ex.Amenities),
		EventImages:           jsonbStrings(ex.EventImages),
		RegistrationDocuments: jsonbStrings(ex.RegistrationDocuments),
		Location:              nullString(ex.Location),
		EventType:             nullString(ex.EventType),
		Status:                ex.Status,
		TermsAccepted:         ex.TermsAccepted,
	}

	if ex.RemainingTickets != nil {
		row.RemainingTickets = sql.NullInt32{Int32: int32(*ex.RemainingTickets), Valid: true}
	}
	if ex.LocationId != nil {
		row.LocationId = uuid.NullUUID{UUID: *ex.LocationId, Valid: true}
	}
	if ex.EventTypeId != nil {
		row.EventTypeId = uuid.NullUUID{UUID: *ex.EventTypeId, Valid: true}
	}
	if ex.OrganizerId != nil {
		row.OrganizerId = uuid.NullUUID{UUID: *ex.OrganizerId, Valid: true}
	}
	return row
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
