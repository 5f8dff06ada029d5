// Package handler implements the HTTP endpoints.  Handlers bind and validate
// request bodies, delegate to services or repositories, and translate the
// shared error taxonomy into HTTP statuses.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineseat/ticketing/internal/middleware"
	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/repository"
	"github.com/cineseat/ticketing/internal/service"
)

const dbTimeout = 5 * time.Second

// reqCtx bounds a handler's database work with a timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// principal reads the authenticated caller injected by the JWT middleware.
func principal(c echo.Context) service.Principal {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)
	role, _ := c.Get(middleware.CtxRole).(model.Role)
	return service.Principal{UserID: uid, Role: role}
}

// pathID parses a numeric path parameter; zero is rejected.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, repository.ErrInvalidInput
	}
	return id, nil
}

// fail maps service and repository errors onto HTTP responses.
func fail(c echo.Context, err error) error {
	var unavailable *repository.SeatsUnavailableError
	if errors.As(err, &unavailable) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":             "seats_unavailable",
			"unavailable_seats": unavailable.Unavailable,
		})
	}
	switch {
	case errors.Is(err, repository.ErrTheaterNotFound),
		errors.Is(err, repository.ErrShowNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrBookingPaid):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "invalid_state",
			"message":        err.Error(),
			"payment_status": model.PaymentPaid,
		})
	case errors.Is(err, repository.ErrBookingFinal):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "invalid_state",
			"message": err.Error(),
		})
	case errors.Is(err, repository.ErrDuplicateShow),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrShowHasPaidBookings):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, repository.ErrPaymentMismatch),
		errors.Is(err, repository.ErrTheaterNoSections):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
