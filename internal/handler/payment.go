package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cineseat/ticketing/internal/service"
)

// PaymentHandler bridges the mock payment provider: checkout creates a
// session the client would hand to the provider, and the webhook relays the
// provider's confirmation into the booking lifecycle.
type PaymentHandler struct {
	Bookings service.BookingService
}

func NewPaymentHandler(bookings service.BookingService) *PaymentHandler {
	return &PaymentHandler{Bookings: bookings}
}

// Checkout opens a payment session for a pending booking.  With a real
// provider this would call out to create the session; here the session ID is
// minted locally and doubles as the provider transaction ID the webhook
// reports back.
func (h *PaymentHandler) Checkout(c echo.Context) error {
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
	if booking.IsPaid() || booking.IsFinal() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking not payable"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id":   uuid.NewString(),
		"booking_id":   booking.ID,
		"amount_cents": booking.TotalPriceCents,
		"expires_at":   booking.HoldExpiresAt,
	})
}

type webhookReq struct {
	BookingID     uint64 `json:"booking_id"`
	UserID        uint64 `json:"user_id"`
	AmountCents   uint32 `json:"amount_cents"`
	Provider      string `json:"provider"`
	ProviderTxnID string `json:"provider_txn_id"`
	Status        string `json:"status"` // only "success" confirms
}

// Webhook ingests payment confirmations from the provider.  Redelivery of
// the same transaction returns 200 without side effects, so the provider may
// retry freely.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var req webhookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.BookingID == 0 || strings.TrimSpace(req.ProviderTxnID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id and provider_txn_id required"})
	}
	if !strings.EqualFold(req.Status, "success") {
		// failed or pending charges change nothing; the hold keeps ticking
		return c.JSON(http.StatusOK, echo.Map{"status": "ignored"})
	}
	provider := strings.TrimSpace(req.Provider)
	if provider == "" {
		provider = "mockpay"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Bookings.ConfirmPayment(ctx, req.BookingID, service.PaymentFacts{
		UserID:        req.UserID,
		AmountCents:   req.AmountCents,
		Provider:      provider,
		ProviderTxnID: strings.TrimSpace(req.ProviderTxnID),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "confirmed"})
}
