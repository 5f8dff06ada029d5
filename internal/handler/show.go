package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/service"
)

// ShowHandler serves show scheduling and removal for exhibitors, plus the
// public show listing.
type ShowHandler struct {
	Shows service.ShowService
}

func NewShowHandler(shows service.ShowService) *ShowHandler {
	return &ShowHandler{Shows: shows}
}

type createShowReq struct {
	MovieTitle     string            `json:"movie_title"`
	TheaterID      uint64            `json:"theater_id"`
	ShowDate       string            `json:"show_date"` // YYYY-MM-DD
	ShowTime       string            `json:"show_time"` // HH:MM
	PriceOverrides map[string]uint32 `json:"price_overrides,omitempty"`
}

// Create schedules a show and materializes its seat inventory.
func (h *ShowHandler) Create(c echo.Context) error {
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	overrides := make(map[model.SeatType]uint32, len(req.PriceOverrides))
	for k, v := range req.PriceOverrides {
		overrides[model.SeatType(strings.ToUpper(k))] = v
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	show, err := h.Shows.CreateShow(ctx, principal(c).UserID, service.CreateShowInput{
		MovieTitle:     req.MovieTitle,
		TheaterID:      req.TheaterID,
		ShowDate:       req.ShowDate,
		ShowTime:       req.ShowTime,
		PriceOverrides: overrides,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, show)
}

// Delete removes a show and its seat inventory.
func (h *ShowHandler) Delete(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Shows.DeleteShow(ctx, showID, principal(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByTheater lists the shows scheduled in a theater.
func (h *ShowHandler) ListByTheater(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	shows, err := h.Shows.ListByTheater(ctx, theaterID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, shows)
}
