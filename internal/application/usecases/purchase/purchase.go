// Package purchase implements the ticket purchase workflow: resolve the
// exhibition, atomically reserve inventory, issue the entry code and fire
// the buyer confirmation.
package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	bdomain "exhibitions/internal/domain/bookings"
	exdomain "exhibitions/internal/domain/exhibitions"
	"exhibitions/internal/interfaces/events"
	"exhibitions/internal/observability"
	"exhibitions/internal/outbox"
	"exhibitions/internal/phone"
)

type ExhibitionsRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*exdomain.Exhibition, error)
	FindByTitleInWindow(ctx context.Context, title string, start, end time.Time) (*exdomain.Exhibition, error)
	FindFirstByTitle(ctx context.Context, title string) (*exdomain.Exhibition, error)
	DecrementRemaining(ctx context.Context, id uuid.UUID, qty int) error
}

type TicketsRepo interface {
	Insert(ctx context.Context, t *bdomain.Ticket) error
	UpdateQR(ctx context.Context, id uuid.UUID, url, payload string) error
}

type CodeGenerator interface {
	Generate(ticketId uuid.UUID, payload string) (string, error)
}

type NotificationGateway interface {
	Send(ctx context.Context, phone, message string) (json.RawMessage, error)
}

type EventPublisher interface {
	PublishBookingMade(ctx context.Context, event bdomain.BookingMade) error
}

type CreatePurchaseUsecase struct {
	exhibitionsRepo ExhibitionsRepo
	ticketsRepo     TicketsRepo
	codes           CodeGenerator
	notifier        NotificationGateway
	notifyTimeout   time.Duration
	trManager       trm.Manager
	publisher       EventPublisher
}

func NewCreatePurchaseUsecase(
	exhibitionsRepo ExhibitionsRepo,
	ticketsRepo TicketsRepo,
	codes CodeGenerator,
	notifier NotificationGateway,
	notifyTimeout time.Duration,
	trManager trm.Manager,
	publisher EventPublisher,
) *CreatePurchaseUsecase {
	return &CreatePurchaseUsecase{
		exhibitionsRepo: exhibitionsRepo,
		ticketsRepo:     ticketsRepo,
		codes:           codes,
		notifier:        notifier,
		notifyTimeout:   notifyTimeout,
		trManager:       trManager,
		publisher:       publisher,
	}
}

// OutboxEventPublisher writes events through the outbox table using the
// transaction bound to the context.
type OutboxEventPublisher struct {
	trGetter        *trmsqlx.CtxGetter
	watermillLogger watermill.LoggerAdapter
}

func NewOutboxEventPublisher(trGetter *trmsqlx.CtxGetter, watermillLogger watermill.LoggerAdapter) *OutboxEventPublisher {
	return &OutboxEventPublisher{
		trGetter:        trGetter,
		watermillLogger: watermillLogger,
	}
}

func (p *OutboxEventPublisher) PublishBookingMade(ctx context.Context, event bdomain.BookingMade) error {
	tr := p.trGetter.DefaultTrOrDB(ctx, nil)
	if tr == nil {
		return fmt.Errorf("failed to get transaction from context")
	}

	publisher, err := outbox.NewPublisher(tr, p.watermillLogger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}

	eb, err := events.NewEventBus(publisher, p.watermillLogger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}

	return eb.Publish(ctx, event)
}

// codePayload is what gets encoded into the entry code image.
type codePayload struct {
	TicketId   uuid.UUID       `json:"ticket_id"`
	EventId    uuid.UUID       `json:"event_id"`
	BuyerName  string          `json:"buyer_name"`
	BuyerPhone string          `json:"buyer_phone"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	IssuedAt   time.Time       `json:"issued_at"`
}

// CreatePurchase books tickets against an exhibition. The ticket insert,
// inventory decrement and event publish share one transaction; code
// generation and the buyer notification run after commit and never undo
// the booking.
func (s *CreatePurchaseUsecase) CreatePurchase(ctx context.Context, req bdomain.PurchaseRequest) (*bdomain.Summary, error) {
	started := time.Now()

	buyerName := strings.TrimSpace(req.Name)
	if buyerName == "" || phone.Digits(req.Phone) == "" || req.Quantity <= 0 ||
		(req.EventId == "" && req.EventTitle == "") {
		observability.RecordPurchase("invalid", time.Since(started))
		return nil, bdomain.ErrInvalidRequest
	}

	event, err := s.resolveExhibition(ctx, req)
	if err != nil {
		observability.RecordPurchase("not_found", time.Since(started))
		return nil, err
	}

	if event.TracksInventory() && *event.RemainingTickets < req.Quantity {
		observability.RecordPurchase("sold_out", time.Since(started))
		return nil, fmt.Errorf("tickets available: %d, requested: %d: %w",
			*event.RemainingTickets, req.Quantity, bdomain.ErrNotEnoughTickets)
	}

	amount := s.resolveAmount(event, req)

	ticket := bdomain.Ticket{
		Id:         uuid.New(),
		EventId:    event.Id,
		BuyerName:  buyerName,
		BuyerPhone: phone.Digits(req.Phone),
		BuyerEmail: req.Email,
		Quantity:   req.Quantity,
		Amount:     amount,
		Status:     bdomain.StatusConfirmed,
	}

	err = s.trManager.Do(ctx, func(ctx context.Context) error {
		if err := s.ticketsRepo.Insert(ctx, &ticket); err != nil {
			return fmt.Errorf("failed to insert ticket: %w", err)
		}

		if event.TracksInventory() {
			if err := s.exhibitionsRepo.DecrementRemaining(ctx, event.Id, req.Quantity); err != nil {
				return err
			}
		}

		return s.publisher.PublishBookingMade(ctx, bdomain.BookingMade{
			TicketId:   ticket.Id,
			EventId:    event.Id,
			EventTitle: event.Title,
			BuyerName:  ticket.BuyerName,
			BuyerPhone: ticket.BuyerPhone,
			Quantity:   ticket.Quantity,
			Amount:     ticket.Amount,
			BookedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		status := "error"
		if errors.Is(err, bdomain.ErrNotEnoughTickets) {
			status = "sold_out"
		}
		observability.RecordPurchase(status, time.Since(started))
		return nil, err
	}

	summary := &bdomain.Summary{
		TicketId:   ticket.Id,
		EventId:    event.Id,
		EventTitle: event.Title,
		BuyerName:  ticket.BuyerName,
		BuyerPhone: ticket.BuyerPhone,
		BuyerEmail: ticket.BuyerEmail,
		Quantity:   ticket.Quantity,
		Amount:     ticket.Amount,
	}

	summary.QRCodeURL = s.attachCode(ctx, &ticket)
	summary.Notification = s.notify(ctx, summary)

	observability.RecordPurchase("confirmed", time.Since(started))
	return summary, nil
}

// resolveExhibition finds the exhibition by id when the request carries
// one, otherwise by title. A title plus a date narrows the match to that
// calendar day; a bare title takes the earliest upcoming match.
func (s *CreatePurchaseUsecase) resolveExhibition(ctx context.Context, req bdomain.PurchaseRequest) (*exdomain.Exhibition, error) {
	if req.EventId != "" {
		id, err := uuid.Parse(req.EventId)
		if err != nil {
			return nil, exdomain.ErrNotFound
		}
		return s.exhibitionsRepo.FindByID(ctx, id)
	}

	if !req.SelectDate.IsZero() {
		start := time.Date(
			req.SelectDate.Year(), req.SelectDate.Month(), req.SelectDate.Day(),
			0, 0, 0, 0, req.SelectDate.Location(),
		)
		end := start.Add(24*time.Hour - time.Nanosecond)

		event, err := s.exhibitionsRepo.FindByTitleInWindow(ctx, req.EventTitle, start, end)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, exdomain.ErrNotFound) {
			return nil, err
		}
	}

	return s.exhibitionsRepo.FindFirstByTitle(ctx, req.EventTitle)
}

func (s *CreatePurchaseUsecase) resolveAmount(event *exdomain.Exhibition, req bdomain.PurchaseRequest) decimal.Decimal {
	unit := decimal.Zero
	switch {
	case event.Price.Valid:
		unit = event.Price.Decimal
	case req.FallbackPrice.Valid:
		unit = req.FallbackPrice.Decimal
	}
	return unit.Mul(decimal.NewFromInt(int64(req.Quantity)))
}

// attachCode generates the entry code image and stores its URL on the
// ticket. Both writes are best effort: on any failure the ticket simply
// has no code and the returned URL is empty.
func (s *CreatePurchaseUsecase) attachCode(ctx context.Context, ticket *bdomain.Ticket) string {
	logger := zerolog.Ctx(ctx)

	payload, err := json.Marshal(codePayload{
		TicketId:   ticket.Id,
		EventId:    ticket.EventId,
		BuyerName:  ticket.BuyerName,
		BuyerPhone: ticket.BuyerPhone,
		Quantity:   ticket.Quantity,
		Amount:     ticket.Amount,
		IssuedAt:   time.Now().UTC(),
	})
	if err != nil {
		observability.RecordQRGeneration(false)
		logger.Error().Err(err).Str("ticket_id", ticket.Id.String()).Msg("failed to marshal code payload")
		return ""
	}

	url, err := s.codes.Generate(ticket.Id, string(payload))
	if err != nil {
		observability.RecordQRGeneration(false)
		logger.Error().Err(err).Str("ticket_id", ticket.Id.String()).Msg("failed to generate entry code")
		return ""
	}

	if err := s.ticketsRepo.UpdateQR(ctx, ticket.Id, url, string(payload)); err != nil {
		observability.RecordQRGeneration(false)
		logger.Error().Err(err).Str("ticket_id", ticket.Id.String()).Msg("failed to store entry code url")
		return ""
	}

	observability.RecordQRGeneration(true)
	ticket.QRCodeURL = url
	ticket.QRPayload = string(payload)
	return url
}

// notify sends the confirmation message and waits at most notifyTimeout
// for the provider. The outcome is reported to the caller but never
// affects the booking.
func (s *CreatePurchaseUsecase) notify(ctx context.Context, summary *bdomain.Summary) *bdomain.NotificationResult {
	logger := zerolog.Ctx(ctx)

	to, err := phone.Normalize(summary.BuyerPhone)
	if err != nil {
		observability.RecordNotification(false)
		return &bdomain.NotificationResult{Sent: false, Error: err.Error()}
	}

	message := fmt.Sprintf(
		"Hi %s, your booking for %s is confirmed. Tickets: %d, amount: %s. Your ticket ID is %s.",
		summary.BuyerName, summary.EventTitle, summary.Quantity,
		summary.Amount.StringFixed(2), summary.TicketId,
	)
	if summary.QRCodeURL != "" {
		message += " Your entry code: " + summary.QRCodeURL
	}

	type sendResult struct {
		response json.RawMessage
		err      error
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	results := make(chan sendResult, 1)
	go func() {
		defer cancel()
		response, err := s.notifier.Send(sendCtx, to, message)
		results <- sendResult{response: response, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			observability.RecordNotification(false)
			logger.Warn().Err(res.err).Str("ticket_id", summary.TicketId.String()).Msg("confirmation message failed")
			return &bdomain.NotificationResult{Sent: false, Error: res.err.Error()}
		}
		observability.RecordNotification(true)
		return &bdomain.NotificationResult{Sent: true, Response: res.response}
	case <-sendCtx.Done():
		observability.RecordNotification(false)
		logger.Warn().Str("ticket_id", summary.TicketId.String()).Msg("confirmation message timed out")
		return &bdomain.NotificationResult{Sent: false, Error: "notification timed out"}
	}
}
