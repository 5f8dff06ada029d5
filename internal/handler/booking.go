package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cineseat/ticketing/internal/service"
)

// BookingHandler serves the customer booking lifecycle over the booking
// service; all transactional work lives there.
type BookingHandler struct {
	Bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type bookReq struct {
	ShowID  uint64   `json:"show_id"`
	SeatIDs []uint64 `json:"seat_ids"`
}

// Book claims the requested seats atomically.  On contention the response is
// a 409 listing the seat IDs that could not be claimed.
func (h *BookingHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	booking, err := h.Bookings.BookSeats(ctx, principal(c).UserID, req.ShowID, req.SeatIDs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// Get returns a booking to its owner (or an admin).
func (h *BookingHandler) Get(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	booking, err := h.Bookings.GetBooking(ctx, bookingID, principal(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// List returns the caller's bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	bookings, err := h.Bookings.ListBookings(ctx, principal(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Cancel releases the booking's seats.  Repeated cancels succeed quietly;
// cancelling a paid booking is admin-only and yields 409 otherwise.
func (h *BookingHandler) Cancel(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Bookings.CancelBooking(ctx, bookingID, principal(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
