package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	domain "exhibitions/internal/domain/bookings"
)

type CreatePurchaseRequest struct {
	EventId      string              `json:"eventId"`
	EventTitle   string              `json:"eventTitle"`
	SelectDate   string              `json:"selectDate"`
	Name         string              `json:"name"`
	MobileNumber string              `json:"mobileNumber"`
	Email        string              `json:"email"`
	Tickets      int                 `json:"tickets"`
	Price        decimal.NullDecimal `json:"price"`
}

func (s *Server) CreatePurchaseHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request CreatePurchaseRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	selectDate, err := parseSelectDate(request.SelectDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "selectDate must be YYYY-MM-DD or RFC 3339")
	}

	summary, err := s.purchaseService.CreatePurchase(ctx, domain.PurchaseRequest{
		EventId:       request.EventId,
		EventTitle:    request.EventTitle,
		SelectDate:    selectDate,
		Name:          request.Name,
		Phone:         request.MobileNumber,
		Email:         request.Email,
		Quantity:      request.Tickets,
		FallbackPrice: request.Price,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, summary)
}

func parseSelectDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
