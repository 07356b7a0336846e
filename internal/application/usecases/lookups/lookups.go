package lookups

import (
	"context"

	"github.com/google/uuid"

	domain "exhibitions/internal/domain/lookups"
	"exhibitions/internal/repository"
)

type LookupsRepo interface {
	ListLocations(ctx context.Context, f repository.LookupFilters) ([]domain.Location, error)
	ListEventTypes(ctx context.Context, f repository.LookupFilters) ([]domain.EventType, error)
	CreateLocation(ctx context.Context, name, slug string, active bool) (uuid.UUID, error)
	CreateEventType(ctx context.Context, name, slug string, active bool) (uuid.UUID, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, name, slug string, active *bool) error
	UpdateEventType(ctx context.Context, id uuid.UUID, name, slug string, active *bool) error
	DeactivateLocation(ctx context.Context, id uuid.UUID) error
	DeactivateEventType(ctx context.Context, id uuid.UUID) error
}

type ManageLookupsUsecase struct {
	repo LookupsRepo
}

func NewManageLookupsUsecase(repo LookupsRepo) *ManageLookupsUsecase {
	return &ManageLookupsUsecase{repo: repo}
}

func (s *ManageLookupsUsecase) ListLocations(ctx context.Context, f repository.LookupFilters) ([]domain.Location, error) {
	return s.repo.ListLocations(ctx, f)
}

func (s *ManageLookupsUsecase) ListEventTypes(ctx context.Context, f repository.LookupFilters) ([]domain.EventType, error) {
	return s.repo.ListEventTypes(ctx, f)
}

func (s *ManageLookupsUsecase) CreateLocation(ctx context.Context, name string, active bool) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, domain.ErrNameRequired
	}
	return s.repo.CreateLocation(ctx, name, domain.Slugify(name), active)
}

func (s *ManageLookupsUsecase) CreateEventType(ctx context.Context, name string, active bool) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, domain.ErrNameRequired
	}
	return s.repo.CreateEventType(ctx, name, domain.Slugify(name), active)
}

// UpdateLocation renames or toggles a location. The slug follows the name
// so URLs stay consistent with what buyers see.
func (s *ManageLookupsUsecase) UpdateLocation(ctx context.Context, id uuid.UUID, name string, active *bool) error {
	return s.repo.UpdateLocation(ctx, id, name, domain.Slugify(name), active)
}

func (s *ManageLookupsUsecase) UpdateEventType(ctx context.Context, id uuid.UUID, name string, active *bool) error {
	return s.repo.UpdateEventType(ctx, id, name, domain.Slugify(name), active)
}

func (s *ManageLookupsUsecase) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateLocation(ctx, id)
}

func (s *ManageLookupsUsecase) DeleteEventType(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateEventType(ctx, id)
}
