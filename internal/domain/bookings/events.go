package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingMade is published through the transactional outbox once the
// purchase transaction commits.
type BookingMade struct {
	TicketId   uuid.UUID       `json:"ticket_id"`
	EventId    uuid.UUID       `json:"event_id"`
	EventTitle string          `json:"event_title"`
	BuyerName  string          `json:"buyer_name"`
	BuyerPhone string          `json:"buyer_phone"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	BookedAt   time.Time       `json:"booked_at"`
}
