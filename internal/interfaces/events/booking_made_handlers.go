package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	domain "exhibitions/internal/domain/bookings"
)

type OpsBookingRepository interface {
	OnBookingMade(ctx context.Context, event *domain.BookingMade) error
}

// ProjectOpsBookingHandler keeps the ops dashboard read model in sync with
// committed bookings.
func ProjectOpsBookingHandler(repo OpsBookingRepository) cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"project_ops_booking_handler",
		func(ctx context.Context, payload *domain.BookingMade) error {
			return repo.OnBookingMade(ctx, payload)
		},
	)
}
