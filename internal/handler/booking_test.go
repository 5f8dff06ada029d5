package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineseat/ticketing/internal/middleware"
	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/repository"
	"github.com/cineseat/ticketing/internal/service"
)

// stubBookingService lets each test script the service behavior.
type stubBookingService struct {
	bookSeats      func(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*model.Booking, error)
	cancelBooking  func(ctx context.Context, bookingID uint64, caller service.Principal) error
	confirmPayment func(ctx context.Context, bookingID uint64, facts service.PaymentFacts) error
	getBooking     func(ctx context.Context, bookingID uint64, caller service.Principal) (*model.Booking, error)
}

func (s *stubBookingService) BookSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*model.Booking, error) {
	return s.bookSeats(ctx, userID, showID, seatIDs)
}
func (s *stubBookingService) CancelBooking(ctx context.Context, bookingID uint64, caller service.Principal) error {
	return s.cancelBooking(ctx, bookingID, caller)
}
func (s *stubBookingService) ConfirmPayment(ctx context.Context, bookingID uint64, facts service.PaymentFacts) error {
	return s.confirmPayment(ctx, bookingID, facts)
}
func (s *stubBookingService) ExpireOverdue(ctx context.Context) (int, error) { return 0, nil }
func (s *stubBookingService) GetBooking(ctx context.Context, bookingID uint64, caller service.Principal) (*model.Booking, error) {
	return s.getBooking(ctx, bookingID, caller)
}
func (s *stubBookingService) ListBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return nil, nil
}

var _ service.BookingService = (*stubBookingService)(nil)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(10))
	c.Set(middleware.CtxRole, model.RoleCustomer)
	return c, rec
}

func TestBookCreatesBooking(t *testing.T) {
	svc := &stubBookingService{
		bookSeats: func(_ context.Context, userID, showID uint64, seatIDs []uint64) (*model.Booking, error) {
			assert.Equal(t, uint64(10), userID)
			assert.Equal(t, uint64(3), showID)
			assert.Equal(t, []uint64{7, 8}, seatIDs)
			return &model.Booking{
				ID:              1,
				UserID:          userID,
				ShowID:          showID,
				TotalPriceCents: 1800,
				BookingStatus:   model.BookingActive,
				PaymentStatus:   model.PaymentPending,
				HoldExpiresAt:   time.Now().UTC().Add(10 * time.Minute),
			}, nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", `{"show_id":3,"seat_ids":[7,8]}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(1), got.ID)
	assert.Equal(t, model.PaymentPending, got.PaymentStatus)
}

func TestBookSeatsUnavailableReturnsConflict(t *testing.T) {
	svc := &stubBookingService{
		bookSeats: func(context.Context, uint64, uint64, []uint64) (*model.Booking, error) {
			return nil, &repository.SeatsUnavailableError{Unavailable: []uint64{8}}
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", `{"show_id":3,"seat_ids":[7,8]}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Unavailable []uint64 `json:"unavailable_seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []uint64{8}, body.Unavailable)
}

func TestCancelPaidBookingRejected(t *testing.T) {
	svc := &stubBookingService{
		cancelBooking: func(_ context.Context, bookingID uint64, caller service.Principal) error {
			assert.Equal(t, uint64(5), bookingID)
			assert.Equal(t, uint64(10), caller.UserID)
			return repository.ErrBookingPaid
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodDelete, "/v1/bookings/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelSucceedsWithNoContent(t *testing.T) {
	svc := &stubBookingService{
		cancelBooking: func(context.Context, uint64, service.Principal) error { return nil },
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodDelete, "/v1/bookings/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetBookingForbiddenForStranger(t *testing.T) {
	svc := &stubBookingService{
		getBooking: func(context.Context, uint64, service.Principal) (*model.Booking, error) {
			return nil, repository.ErrForbidden
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/v1/bookings/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookInvalidIDParam(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{})

	c, rec := newTestContext(t, http.MethodGet, "/v1/bookings/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
