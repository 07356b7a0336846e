package bookings

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRequest   = errors.New("missing required fields: event, name, mobileNumber, tickets")
	ErrNotEnoughTickets = errors.New("not enough tickets available")
	ErrNoPrice          = errors.New("exhibition has no ticket price configured")
)

const (
	StatusConfirmed = "CONFIRMED"
	// StatusCancelled is schema-permitted for a future refund flow but is
	// never produced by the purchase path.
	StatusCancelled = "CANCELLED"
)

// PurchaseRequest carries the buyer's input. Either EventId or
// EventTitle (optionally with SelectDate) must identify the exhibition.
type PurchaseRequest struct {
	EventId    string
	EventTitle string
	SelectDate time.Time
	Name       string
	Phone      string
	Email      string
	Quantity   int
	// FallbackPrice is used only when the resolved exhibition has no price
	// configured. Kept for older client payloads.
	FallbackPrice decimal.NullDecimal
}

// Ticket is one confirmed booking against an exhibition. QRCodeURL and
// QRPayload are attached after the purchase transaction commits and may be
// permanently absent.
type Ticket struct {
	Id         uuid.UUID       `json:"id"`
	EventId    uuid.UUID       `json:"event_id"`
	BuyerName  string          `json:"buyer_name"`
	BuyerPhone string          `json:"buyer_phone"`
	BuyerEmail string          `json:"buyer_email,omitempty"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	QRCodeURL  string          `json:"qr_code_url,omitempty"`
	QRPayload  string          `json:"qr_payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NotificationResult captures the outcome of the best-effort confirmation
// message. A failure here never fails the booking.
type NotificationResult struct {
	Sent     bool            `json:"sent"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Summary is what the purchase endpoint returns.
type Summary struct {
	TicketId     uuid.UUID           `json:"ticket_id"`
	EventId      uuid.UUID           `json:"event_id"`
	EventTitle   string              `json:"event_title"`
	BuyerName    string              `json:"buyer_name"`
	BuyerPhone   string              `json:"buyer_phone"`
	BuyerEmail   string              `json:"buyer_email,omitempty"`
	Quantity     int                 `json:"quantity"`
	Amount       decimal.Decimal     `json:"amount"`
	QRCodeURL    string              `json:"qr_code_url,omitempty"`
	Notification *NotificationResult `json:"whatsapp,omitempty"`
}
