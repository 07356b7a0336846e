package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"exhibitions/internal/repository"
)

type LookupRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

func lookupFilters(c echo.Context) repository.LookupFilters {
	filters := repository.LookupFilters{Query: c.QueryParam("q")}

	switch c.QueryParam("active") {
	case "true":
		active := true
		filters.Active = &active
	case "false":
		active := false
		filters.Active = &active
	default:
		// public listings only show active entries
		if c.Get(userIdContextKey) == nil {
			active := true
			filters.Active = &active
		}
	}

	return filters
}

func (s *Server) ListLocationsHandler(c echo.Context) error {
	list, err := s.lookupsService.ListLocations(c.Request().Context(), lookupFilters(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) ListEventTypesHandler(c echo.Context) error {
	list, err := s.lookupsService.ListEventTypes(c.Request().Context(), lookupFilters(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) CreateLocationHandler(c echo.Context) error {
	var request LookupRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	active := request.Active == nil || *request.Active
	id, err := s.lookupsService.CreateLocation(c.Request().Context(), request.Name, active)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (s *Server) CreateEventTypeHandler(c echo.Context) error {
	var request LookupRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	active := request.Active == nil || *request.Active
	id, err := s.lookupsService.CreateEventType(c.Request().Context(), request.Name, active)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (s *Server) UpdateLocationHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	var request LookupRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.lookupsService.UpdateLocation(c.Request().Context(), id, request.Name, request.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) UpdateEventTypeHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	var request LookupRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.lookupsService.UpdateEventType(c.Request().Context(), id, request.Name, request.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) DeleteLocationHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	if err := s.lookupsService.DeleteLocation(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) DeleteEventTypeHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	if err := s.lookupsService.DeleteEventType(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
