package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MyBookingsHandler lists tickets sold against the caller's exhibitions.
func (s *Server) MyBookingsHandler(c echo.Context) error {
	organizerId, err := authenticatedUser(c)
	if err != nil {
		return err
	}

	tickets, err := s.bookingsService.ListByOrganizer(c.Request().Context(), organizerId)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tickets)
}

func (s *Server) ListOpsBookingsHandler(c echo.Context) error {
	list, err := s.bookingsService.ListOpsBookings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) GetOpsBookingHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}

	booking, err := s.bookingsService.GetOpsBooking(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if booking == nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}

	return c.JSON(http.StatusOK, booking)
}
