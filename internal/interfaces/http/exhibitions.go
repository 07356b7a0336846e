package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	domain "exhibitions/internal/domain/exhibitions"
	"exhibitions/internal/repository"
)

type ExhibitionRequest struct {
	Title                 string              `json:"title"`
	Description           string              `json:"description"`
	Date                  time.Time           `json:"date"`
	Price                 decimal.NullDecimal `json:"price"`
	RemainingTickets      *int                `json:"remainingTickets"`
	VenueAddress          string              `json:"venueAddress"`
	ContactPhone          string              `json:"contactPhone"`
	Amenities             []string            `json:"amenities"`
	EventImages           []string            `json:"eventImages"`
	RegistrationDocuments []string            `json:"registrationDocuments"`
	LocationId            *uuid.UUID          `json:"locationId"`
	EventTypeId           *uuid.UUID          `json:"eventTypeId"`
	Status                string              `json:"status"`
	TermsAccepted         bool                `json:"termsAccepted"`
}

func (r *ExhibitionRequest) toDomain() *domain.Exhibition {
	return &domain.Exhibition{
		Title:                 r.Title,
		Description:           r.Description,
		Date:                  r.Date,
		Price:                 r.Price,
		RemainingTickets:      r.RemainingTickets,
		VenueAddress:          r.VenueAddress,
		ContactPhone:          r.ContactPhone,
		Amenities:             r.Amenities,
		EventImages:           r.EventImages,
		RegistrationDocuments: r.RegistrationDocuments,
		LocationId:            r.LocationId,
		EventTypeId:           r.EventTypeId,
		Status:                r.Status,
		TermsAccepted:         r.TermsAccepted,
	}
}

func (s *Server) ListExhibitionsHandler(c echo.Context) error {
	filters := repository.ExhibitionFilters{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filters.Limit = limit
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			filters.Offset = offset
		}
	}
	if raw := c.QueryParam("organizerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "organizerId must be a UUID")
		}
		filters.OrganizerId = &id
	}

	list, err := s.exhibitionsService.ListExhibitions(c.Request().Context(), filters)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, list)
}

func (s *Server) GetExhibitionHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	ex, err := s.exhibitionsService.GetExhibition(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ex)
}

func (s *Server) CreateExhibitionHandler(c echo.Context) error {
	organizerId, err := authenticatedUser(c)
	if err != nil {
		return err
	}

	var request ExhibitionRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	id, err := s.exhibitionsService.CreateExhibition(c.Request().Context(), request.toDomain(), organizerId)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (s *Server) UpdateExhibitionHandler(c echo.Context) error {
	organizerId, err := authenticatedUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	var request ExhibitionRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	ex := request.toDomain()
	ex.Id = id

	if err := s.exhibitionsService.UpdateExhibition(c.Request().Context(), ex, organizerId); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) DeleteExhibitionHandler(c echo.Context) error {
	organizerId, err := authenticatedUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	if err := s.exhibitionsService.DeleteExhibition(c.Request().Context(), id, organizerId); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
