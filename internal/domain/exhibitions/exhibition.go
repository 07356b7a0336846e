package exhibitions

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("exhibition not found")
	ErrInvalidLookup  = errors.New("invalid lookup reference")
	ErrNotOwner       = errors.New("exhibition does not belong to requesting organizer")
	ErrTitleRequired  = errors.New("title is required")
	ErrAlreadyDeleted = errors.New("exhibition already deleted")
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Exhibition is a listing buyers purchase tickets against. Price and
// RemainingTickets are optional: a listing without a counter does not track
// inventory and never rejects a purchase for availability.
type Exhibition struct {
	Id                    uuid.UUID           `json:"id"`
	Title                 string              `json:"title"`
	Description           string              `json:"description,omitempty"`
	Date                  time.Time           `json:"date"`
	Price                 decimal.NullDecimal `json:"price"`
	RemainingTickets      *int                `json:"remaining_tickets,omitempty"`
	VenueAddress          string              `json:"venue_address,omitempty"`
	ContactPhone          string              `json:"contact_phone,omitempty"`
	Amenities             []string            `json:"amenities,omitempty"`
	EventImages           []string            `json:"event_images,omitempty"`
	RegistrationDocuments []string            `json:"registration_documents,omitempty"`
	Location              string              `json:"location,omitempty"`
	LocationId            *uuid.UUID          `json:"location_id,omitempty"`
	EventType             string              `json:"event_type,omitempty"`
	EventTypeId           *uuid.UUID          `json:"event_type_id,omitempty"`
	OrganizerId           *uuid.UUID          `json:"organizer_id,omitempty"`
	Status                string              `json:"status"`
	TermsAccepted         bool                `json:"terms_accepted"`
	CreatedAt             time.Time           `json:"created_at"`
}

// TracksInventory reports whether the listing carries a remaining-ticket
// counter that purchases must decrement.
func (e *Exhibition) TracksInventory() bool {
	return e.RemainingTickets != nil
}
