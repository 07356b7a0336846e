package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domain "exhibitions/internal/domain/bookings"
)

// OpsBookingReadModelRepo projects BookingMade events into a jsonb read
// model the ops dashboard queries without touching the transactional tables.
type OpsBookingReadModelRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewOpsBookingReadModelRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *OpsBookingReadModelRepo {
	return &OpsBookingReadModelRepo{db: db, getter: getter}
}

func (r *OpsBookingReadModelRepo) OnBookingMade(ctx context.Context, event *domain.BookingMade) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking read model: %w", err)
	}

	query := `
	INSERT INTO read_model_ops_bookings (booking_id, payload)
	VALUES ($1, $2)
	ON CONFLICT (booking_id) DO UPDATE SET payload = EXCLUDED.payload`

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, event.TicketId, payload)
	if err != nil {
		return fmt.Errorf("failed to upsert booking read model: %w", err)
	}
	return nil
}

func (r *OpsBookingReadModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingMade, error) {
	var payload []byte
	err := r.db.QueryRowxContext(ctx,
		`SELECT payload FROM read_model_ops_bookings WHERE booking_id = $1`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking read model: %w", err)
	}

	return unmarshalOpsBooking(payload)
}

func (r *OpsBookingReadModelRepo) GetAll(ctx context.Context) ([]domain.BookingMade, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM read_model_ops_bookings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking read models: %w", err)
	}
	defer rows.Close()

	var bookings []domain.BookingMade
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		booking, err := unmarshalOpsBooking(payload)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func unmarshalOpsBooking(payload []byte) (*domain.BookingMade, error) {
	var booking domain.BookingMade
	if err := json.Unmarshal(payload, &booking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking read model: %w", err)
	}
	return &booking, nil
}
