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

	domain "exhibitions/internal/domain/bookings"
)

var ErrTicketNotFound = errors.New("ticket not found")

type TicketsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewTicketsRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *TicketsRepo {
	return &TicketsRepo{db: db, getter: getter}
}

type ticketRow struct {
	Id         uuid.UUID       `db:"id"`
	EventId    uuid.UUID       `db:"event_id"`
	BuyerName  string          `db:"buyer_name"`
	BuyerPhone string          `db:"buyer_phone"`
	BuyerEmail sql.NullString  `db:"buyer_email"`
	Quantity   int             `db:"quantity"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	QRCodeURL  sql.NullString  `db:"qr_code_url"`
	QRPayload  sql.NullString  `db:"qr_payload"`
	CreatedAt  time.Time       `db:"created_at"`
}

func (r *TicketsRepo) Insert(ctx context.Context, t *domain.Ticket) error {
	query := `
	INSERT INTO tickets (
		id, event_id, buyer_name, buyer_phone, buyer_email,
		quantity, amount, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	)`

	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		t.Id,
		t.EventId,
		t.BuyerName,
		t.BuyerPhone,
		nullString(t.BuyerEmail),
		t.Quantity,
		t.Amount,
		t.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// UpdateQR attaches the code-image URL and payload after the purchase
// transaction has committed. Phase two of the two-phase write; the booking
// stands whether or not this lands.
func (r *TicketsRepo) UpdateQR(ctx context.Context, id uuid.UUID, url, payload string) error {
	query := `UPDATE tickets SET qr_code_url = $2, qr_payload = $3 WHERE id = $1`

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, id, url, payload)
	if err != nil {
		return fmt.Errorf("failed to update ticket qr fields: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *TicketsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `
	SELECT id, event_id, buyer_name, buyer_phone, buyer_email,
		quantity, amount, status, qr_code_url, qr_payload, created_at
	FROM tickets
	WHERE id = $1`

	var row ticketRow
	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	t := ticketRowToDomain(&row)
	return &t, nil
}

// OrganizerTicket is a ticket joined with the exhibition details the
// organizer dashboard shows.
type OrganizerTicket struct {
	domain.Ticket
	EventTitle   string `json:"event_title"`
	VenueAddress string `json:"venue_address,omitempty"`
	Location     string `json:"location,omitempty"`
}

// ListByOrganizer returns all tickets booked against exhibitions owned by
// the given organizer, newest first.
func (r *TicketsRepo) ListByOrganizer(ctx context.Context, organizerId uuid.UUID) ([]OrganizerTicket, error) {
	query := `
	SELECT t.id, t.event_id, t.buyer_name, t.buyer_phone, t.buyer_email,
		t.quantity, t.amount, t.status, t.qr_code_url, t.qr_payload,
		t.created_at, e.title, e.venue_address, e.location
	FROM tickets t
	JOIN exhibitions e ON e.id = t.event_id
	WHERE e.organizer_id = $1
	ORDER BY t.created_at DESC`

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryxContext(ctx, query, organizerId)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer tickets: %w", err)
	}
	defer rows.Close()

	var out []OrganizerTicket
	for rows.Next() {
		var (
			row          ticketRow
			title        string
			venueAddress sql.NullString
			location     sql.NullString
		)
		err := rows.Scan(
			&row.Id, &row.EventId, &row.BuyerName, &row.BuyerPhone,
			&row.BuyerEmail, &row.Quantity, &row.Amount, &row.Status,
			&row.QRCodeURL, &row.QRPayload, &row.CreatedAt,
			&title, &venueAddress, &location,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organizer ticket: %w", err)
		}

		out = append(out, OrganizerTicket{
			Ticket:       ticketRowToDomain(&row),
			EventTitle:   title,
			VenueAddress: venueAddress.String,
			Location:     location.String,
		})
	}
	return out, rows.Err()
}

func ticketRowToDomain(row *ticketRow) domain.Ticket {
	return domain.Ticket{
		Id:         row.Id,
		EventId:    row.EventId,
		BuyerName:  row.BuyerName,
		BuyerPhone: row.BuyerPhone,
		BuyerEmail: row.BuyerEmail.String,
		Quantity:   row.Quantity,
		Amount:     row.Amount,
		Status:     row.Status,
		QRCodeURL:  row.QRCodeURL.String,
		QRPayload:  row.QRPayload.String,
		CreatedAt:  row.CreatedAt,
	}
}
