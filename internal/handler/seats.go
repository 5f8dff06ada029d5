package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/service"
)

// SeatHandler serves the public seat map.
type SeatHandler struct {
	Shows service.ShowService
}

func NewSeatHandler(shows service.ShowService) *SeatHandler {
	return &SeatHandler{Shows: shows}
}

type seatPart struct {
	ID          uint64 `json:"id"`
	SeatLabel   string `json:"seat_label"`
	SectionName string `json:"section_name"`
	SeatType    string `json:"seat_type"`
	PriceCents  uint32 `json:"price_cents"`
}

// Available lists the free seats of a show in row/column order.  The route
// sits behind the short-TTL response cache, so the view may trail reality by
// a few seconds; the booking transaction is the authority.
func (h *SeatHandler) Available(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	seats, err := h.Shows.AvailableSeats(ctx, showID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]seatPart, 0, len(seats))
	for _, s := range seats {
		out = append(out, toSeatPart(s))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id": showID,
		"seats":   out,
	})
}

func toSeatPart(s model.SeatStatus) seatPart {
	return seatPart{
		ID:          s.ID,
		SeatLabel:   s.SeatLabel,
		SectionName: s.SectionName,
		SeatType:    string(s.SeatType),
		PriceCents:  s.PriceCents,
	}
}
