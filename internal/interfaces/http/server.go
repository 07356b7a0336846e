package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"exhibitions/internal/application/usecases/auth"
	"exhibitions/internal/application/usecases/bookings"
	"exhibitions/internal/application/usecases/exhibitions"
	"exhibitions/internal/application/usecases/lookups"
	"exhibitions/internal/application/usecases/purchase"
	bdomain "exhibitions/internal/domain/bookings"
	exdomain "exhibitions/internal/domain/exhibitions"
	ldomain "exhibitions/internal/domain/lookups"
	udomain "exhibitions/internal/domain/users"
	"exhibitions/internal/phone"
)

type Server struct {
	e    *echo.Echo
	addr string

	purchaseService    *purchase.CreatePurchaseUsecase
	exhibitionsService *exhibitions.ManageExhibitionsUsecase
	lookupsService     *lookups.ManageLookupsUsecase
	authService        *auth.AuthUsecase
	bookingsService    *bookings.ListBookingsUsecase
}

func NewServer(
	e *echo.Echo,
	addr string,
	logger zerolog.Logger,
	purchaseService *purchase.CreatePurchaseUsecase,
	exhibitionsService *exhibitions.ManageExhibitionsUsecase,
	lookupsService *lookups.ManageLookupsUsecase,
	authService *auth.AuthUsecase,
	bookingsService *bookings.ListBookingsUsecase,
	qrCodeDir string,
	enableMetrics bool,
	routerIsRunning func() bool,
) *Server {
	srv := &Server{
		e:                  e,
		addr:               addr,
		purchaseService:    purchaseService,
		exhibitionsService: exhibitionsService,
		lookupsService:     lookupsService,
		authService:        authService,
		bookingsService:    bookingsService,
	}

	e.HideBanner = true
	e.HTTPErrorHandler = srv.errorHandler
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.POST("/purchase", srv.CreatePurchaseHandler)
	e.GET("/purchase/my", srv.MyBookingsHandler, srv.RequireAuth)

	e.GET("/exhibitions", srv.ListExhibitionsHandler)
	e.GET("/exhibitions/:id", srv.GetExhibitionHandler)
	e.POST("/exhibitions", srv.CreateExhibitionHandler, srv.RequireAuth)
	e.PUT("/exhibitions/:id", srv.UpdateExhibitionHandler, srv.RequireAuth)
	e.DELETE("/exhibitions/:id", srv.DeleteExhibitionHandler, srv.RequireAuth)

	e.GET("/lookups/locations", srv.ListLocationsHandler)
	e.GET("/lookups/event-types", srv.ListEventTypesHandler)
	e.POST("/lookups/locations", srv.CreateLocationHandler, srv.RequireAuth)
	e.POST("/lookups/event-types", srv.CreateEventTypeHandler, srv.RequireAuth)
	e.PUT("/lookups/locations/:id", srv.UpdateLocationHandler, srv.RequireAuth)
	e.PUT("/lookups/event-types/:id", srv.UpdateEventTypeHandler, srv.RequireAuth)
	e.DELETE("/lookups/locations/:id", srv.DeleteLocationHandler, srv.RequireAuth)
	e.DELETE("/lookups/event-types/:id", srv.DeleteEventTypeHandler, srv.RequireAuth)

	e.POST("/auth/register", srv.RegisterHandler)
	e.POST("/auth/login", srv.LoginHandler)

	e.GET("/admin/bookings", srv.ListOpsBookingsHandler, srv.RequireAuth)
	e.GET("/admin/bookings/:id", srv.GetOpsBookingHandler, srv.RequireAuth)

	e.Static("/public/qrcodes", qrCodeDir)
	if enableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})

	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			reqLogger.Info().Msg("handling a request")

			err := next(c)
			if err != nil {
				reqLogger.Error().Err(err).Msg("request handling error")
			}

			return err
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// errorHandler maps domain errors onto status codes so handlers can just
// return what the usecases give them.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	case errors.Is(err, exdomain.ErrNotFound),
		errors.Is(err, ldomain.ErrNotFound),
		errors.Is(err, udomain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, exdomain.ErrNotOwner):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, udomain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, udomain.ErrEmailTaken),
		errors.Is(err, udomain.ErrPhoneTaken):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, bdomain.ErrInvalidRequest),
		errors.Is(err, bdomain.ErrNotEnoughTickets),
		errors.Is(err, exdomain.ErrTitleRequired),
		errors.Is(err, exdomain.ErrInvalidLookup),
		errors.Is(err, ldomain.ErrNameRequired),
		errors.Is(err, udomain.ErrMissingFields),
		errors.Is(err, phone.ErrInvalidPhone):
		status = http.StatusBadRequest
		message = err.Error()
	}

	if writeErr := c.JSON(status, errorResponse{Error: message}); writeErr != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(writeErr).Msg("failed to write error response")
	}
}
