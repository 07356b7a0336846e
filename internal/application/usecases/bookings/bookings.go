package bookings

import (
	"context"

	"github.com/google/uuid"

	domain "exhibitions/internal/domain/bookings"
	"exhibitions/internal/repository"
)

type TicketsRepo interface {
	ListByOrganizer(ctx context.Context, organizerId uuid.UUID) ([]repository.OrganizerTicket, error)
}

type OpsReadModelRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingMade, error)
	GetAll(ctx context.Context) ([]domain.BookingMade, error)
}

// ListBookingsUsecase serves the organizer dashboard and the ops read
// model built from booking events.
type ListBookingsUsecase struct {
	ticketsRepo TicketsRepo
	opsRepo     OpsReadModelRepo
}

func NewListBookingsUsecase(ticketsRepo TicketsRepo, opsRepo OpsReadModelRepo) *ListBookingsUsecase {
	return &ListBookingsUsecase{
		ticketsRepo: ticketsRepo,
		opsRepo:     opsRepo,
	}
}

func (s *ListBookingsUsecase) ListByOrganizer(ctx context.Context, organizerId uuid.UUID) ([]repository.OrganizerTicket, error) {
	return s.ticketsRepo.ListByOrganizer(ctx, organizerId)
}

func (s *ListBookingsUsecase) GetOpsBooking(ctx context.Context, id uuid.UUID) (*domain.BookingMade, error) {
	return s.opsRepo.GetByID(ctx, id)
}

func (s *ListBookingsUsecase) ListOpsBookings(ctx context.Context) ([]domain.BookingMade, error) {
	return s.opsRepo.GetAll(ctx)
}
