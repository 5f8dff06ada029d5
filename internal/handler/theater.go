package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/repository"
)

// TheaterHandler serves the exhibitor's theater management endpoints.
type TheaterHandler struct {
	Theaters *repository.TheaterRepo
}

func NewTheaterHandler(theaters *repository.TheaterRepo) *TheaterHandler {
	return &TheaterHandler{Theaters: theaters}
}

type sectionReq struct {
	SectionName string   `json:"section_name"`
	SeatType    string   `json:"seat_type"` // STANDARD | PREMIUM | RECLINER
	PriceCents  uint32   `json:"price_cents"`
	RowLetters  []string `json:"row_letters"`
}

type createTheaterReq struct {
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	SeatRows    int          `json:"seat_rows"`
	SeatColumns int          `json:"seat_columns"`
	Sections    []sectionReq `json:"sections"`
}

// parseSections validates and converts the section DTOs.  Every section
// needs a name, a positive price and at least one row letter, and no row
// letter may appear in more than one section: each row has exactly one price.
func parseSections(in []sectionReq) ([]model.TheaterSection, bool) {
	out := make([]model.TheaterSection, 0, len(in))
	claimed := make(map[string]bool)
	for _, s := range in {
		name := strings.TrimSpace(s.SectionName)
		if name == "" || s.PriceCents == 0 || len(s.RowLetters) == 0 {
			return nil, false
		}
		st := model.SeatType(strings.ToUpper(strings.TrimSpace(s.SeatType)))
		switch st {
		case model.SeatStandard, model.SeatPremium, model.SeatRecliner:
		default:
			return nil, false
		}
		letters := make([]string, 0, len(s.RowLetters))
		for _, l := range s.RowLetters {
			l = strings.ToUpper(strings.TrimSpace(l))
			if l == "" || claimed[l] {
				return nil, false
			}
			claimed[l] = true
			letters = append(letters, l)
		}
		out = append(out, model.TheaterSection{
			SectionName: name,
			SeatType:    st,
			PriceCents:  s.PriceCents,
			RowLetters:  letters,
		})
	}
	return out, true
}

// Create registers a theater with its pricing sections.
func (h *TheaterHandler) Create(c echo.Context) error {
	var req createTheaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.SeatRows < 1 || req.SeatRows > 26 || req.SeatColumns < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, seat_rows (1-26) and seat_columns required"})
	}
	sections, ok := parseSections(req.Sections)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sections"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := &model.Theater{
		ExhibitorID: principal(c).UserID,
		Name:        req.Name,
		Location:    strings.TrimSpace(req.Location),
		SeatRows:    uint32(req.SeatRows),
		SeatColumns: uint32(req.SeatColumns),
		Sections:    sections,
	}
	if err := h.Theaters.Create(ctx, t); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// ReplaceSections swaps a theater's pricing layout.  Shows already
// materialized keep the prices they were created with.
func (h *TheaterHandler) ReplaceSections(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req struct {
		Sections []sectionReq `json:"sections"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sections, ok := parseSections(req.Sections)
	if !ok || len(sections) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sections"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Theaters.ReplaceSections(ctx, theaterID, principal(c).UserID, sections); err != nil {
		return fail(c, err)
	}
	t, err := h.Theaters.GetByID(ctx, theaterID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// List returns the caller's theaters.
func (h *TheaterHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	theaters, err := h.Theaters.ListByOwner(ctx, principal(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, theaters)
}

// Get returns one of the caller's theaters.
func (h *TheaterHandler) Get(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Theaters.GetByIDAndOwner(ctx, theaterID, principal(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
