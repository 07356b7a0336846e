package exhibitions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	exdomain "exhibitions/internal/domain/exhibitions"
	ldomain "exhibitions/internal/domain/lookups"
	"exhibitions/internal/repository"
)

type ExhibitionsRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*exdomain.Exhibition, error)
	List(ctx context.Context, f repository.ExhibitionFilters) ([]exdomain.Exhibition, error)
	Create(ctx context.Context, ex *exdomain.Exhibition) (uuid.UUID, error)
	Update(ctx context.Context, ex *exdomain.Exhibition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type LookupsRepo interface {
	GetLocation(ctx context.Context, id uuid.UUID) (*ldomain.Location, error)
	GetEventType(ctx context.Context, id uuid.UUID) (*ldomain.EventType, error)
}

type ManageExhibitionsUsecase struct {
	exhibitionsRepo ExhibitionsRepo
	lookupsRepo     LookupsRepo
}

func NewManageExhibitionsUsecase(exhibitionsRepo ExhibitionsRepo, lookupsRepo LookupsRepo) *ManageExhibitionsUsecase {
	return &ManageExhibitionsUsecase{
		exhibitionsRepo: exhibitionsRepo,
		lookupsRepo:     lookupsRepo,
	}
}

func (s *ManageExhibitionsUsecase) GetExhibition(ctx context.Context, id uuid.UUID) (*exdomain.Exhibition, error) {
	return s.exhibitionsRepo.FindByID(ctx, id)
}

func (s *ManageExhibitionsUsecase) ListExhibitions(ctx context.Context, f repository.ExhibitionFilters) ([]exdomain.Exhibition, error) {
	return s.exhibitionsRepo.List(ctx, f)
}

// CreateExhibition validates the listing and stores it. Title is the only
// required field; lookup references are checked against the active
// locations and event types.
func (s *ManageExhibitionsUsecase) CreateExhibition(ctx context.Context, ex *exdomain.Exhibition, organizerId uuid.UUID) (uuid.UUID, error) {
	if ex.Title == "" {
		return uuid.Nil, exdomain.ErrTitleRequired
	}

	if err := s.resolveLookups(ctx, ex); err != nil {
		return uuid.Nil, err
	}

	ex.OrganizerId = &organizerId
	if ex.Status == "" {
		ex.Status = exdomain.StatusPublished
	}

	return s.exhibitionsRepo.Create(ctx, ex)
}

// UpdateExhibition rewrites the listing after checking the caller owns it.
func (s *ManageExhibitionsUsecase) UpdateExhibition(ctx context.Context, ex *exdomain.Exhibition, organizerId uuid.UUID) error {
	current, err := s.exhibitionsRepo.FindByID(ctx, ex.Id)
	if err != nil {
		return err
	}
	if current.OrganizerId == nil || *current.OrganizerId != organizerId {
		return exdomain.ErrNotOwner
	}

	if ex.Title == "" {
		return exdomain.ErrTitleRequired
	}
	if err := s.resolveLookups(ctx, ex); err != nil {
		return err
	}

	ex.OrganizerId = current.OrganizerId
	return s.exhibitionsRepo.Update(ctx, ex)
}

func (s *ManageExhibitionsUsecase) DeleteExhibition(ctx context.Context, id, organizerId uuid.UUID) error {
	current, err := s.exhibitionsRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OrganizerId == nil || *current.OrganizerId != organizerId {
		return exdomain.ErrNotOwner
	}

	return s.exhibitionsRepo.Delete(ctx, id)
}

// resolveLookups verifies the referenced location and event type exist and
// are active, and denormalizes their names onto the listing.
func (s *ManageExhibitionsUsecase) resolveLookups(ctx context.Context, ex *exdomain.Exhibition) error {
	if ex.LocationId != nil {
		loc, err := s.lookupsRepo.GetLocation(ctx, *ex.LocationId)
		if err != nil {
			return fmt.Errorf("location %s: %w", ex.LocationId, exdomain.ErrInvalidLookup)
		}
		if !loc.Active {
			return fmt.Errorf("location %s is inactive: %w", ex.LocationId, exdomain.ErrInvalidLookup)
		}
		ex.Location = loc.Name
	}

	if ex.EventTypeId != nil {
		et, err := s.lookupsRepo.GetEventType(ctx, *ex.EventTypeId)
		if err != nil {
			return fmt.Errorf("event type %s: %w", ex.EventTypeId, exdomain.ErrInvalidLookup)
		}
		if !et.Active {
			return fmt.Errorf("event type %s is inactive: %w", ex.EventTypeId, exdomain.ErrInvalidLookup)
		}
		ex.EventType = et.Name
	}

	return nil
}
