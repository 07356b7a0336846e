package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "exhibitions/internal/domain/users"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) RegisterHandler(c echo.Context) error {
	var request RegisterRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	user, err := s.authService.Register(c.Request().Context(),
		request.Name, request.Email, request.Phone, request.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

func (s *Server) LoginHandler(c echo.Context) error {
	var request LoginRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	token, user, err := s.authService.Login(c.Request().Context(), request.Email, request.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}
