package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/repository"
	"github.com/cineseat/ticketing/internal/service"
)

func TestCheckoutOpensSession(t *testing.T) {
	svc := &stubBookingService{
		getBooking: func(context.Context, uint64, service.Principal) (*model.Booking, error) {
			return &model.Booking{
				ID:              5,
				UserID:          10,
				TotalPriceCents: 2400,
				BookingStatus:   model.BookingActive,
				PaymentStatus:   model.PaymentPending,
				HoldExpiresAt:   time.Now().UTC().Add(5 * time.Minute),
			}, nil
		},
	}
	h := NewPaymentHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings/5/checkout", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Checkout(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		SessionID   string `json:"session_id"`
		BookingID   uint64 `json:"booking_id"`
		AmountCents uint32 `json:"amount_cents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.SessionID)
	assert.Equal(t, uint64(5), body.BookingID)
	assert.Equal(t, uint32(2400), body.AmountCents)
}

func TestCheckoutPaidBookingConflicts(t *testing.T) {
	svc := &stubBookingService{
		getBooking: func(context.Context, uint64, service.Principal) (*model.Booking, error) {
			return &model.Booking{ID: 5, PaymentStatus: model.PaymentPaid, BookingStatus: model.BookingActive}, nil
		},
	}
	h := NewPaymentHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings/5/checkout", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Checkout(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWebhookConfirmsPayment(t *testing.T) {
	var got service.PaymentFacts
	svc := &stubBookingService{
		confirmPayment: func(_ context.Context, bookingID uint64, facts service.PaymentFacts) error {
			assert.Equal(t, uint64(5), bookingID)
			got = facts
			return nil
		},
	}
	h := NewPaymentHandler(svc)

	body := `{"booking_id":5,"user_id":10,"amount_cents":2400,"provider":"mockpay","provider_txn_id":"txn-1","status":"success"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/payments/webhook", body)
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "txn-1", got.ProviderTxnID)
	assert.Equal(t, uint32(2400), got.AmountCents)
}

func TestWebhookMismatchedFactsRejected(t *testing.T) {
	svc := &stubBookingService{
		confirmPayment: func(context.Context, uint64, service.PaymentFacts) error {
			return repository.ErrPaymentMismatch
		},
	}
	h := NewPaymentHandler(svc)

	body := `{"booking_id":5,"user_id":10,"amount_cents":1,"provider":"mockpay","provider_txn_id":"txn-2","status":"success"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/payments/webhook", body)
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not match")
}

func TestWebhookIgnoresFailedCharge(t *testing.T) {
	called := false
	svc := &stubBookingService{
		confirmPayment: func(context.Context, uint64, service.PaymentFacts) error {
			called = true
			return nil
		},
	}
	h := NewPaymentHandler(svc)

	body := `{"booking_id":5,"provider_txn_id":"txn-1","status":"failed"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/payments/webhook", body)
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
}

func TestWebhookMissingTxnIDRejected(t *testing.T) {
	h := NewPaymentHandler(&stubBookingService{})

	body := `{"booking_id":5,"status":"success"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/payments/webhook", body)
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
