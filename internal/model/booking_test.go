package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingGuards(t *testing.T) {
	now := time.Now().UTC()
	b := &Booking{
		UserID:        10,
		BookingStatus: BookingActive,
		PaymentStatus: PaymentPending,
		HoldExpiresAt: now.Add(time.Minute),
	}

	assert.True(t, b.IsOwnedBy(10))
	assert.False(t, b.IsOwnedBy(11))
	assert.False(t, b.IsPaid())
	assert.False(t, b.IsFinal())
	assert.False(t, b.HoldExpired(now))

	assert.True(t, b.HoldExpired(now.Add(2*time.Minute)))

	b.PaymentStatus = PaymentPaid
	assert.True(t, b.IsPaid())
	// paid bookings never expire
	assert.False(t, b.HoldExpired(now.Add(time.Hour)))

	b.BookingStatus = BookingCancelled
	assert.True(t, b.IsFinal())

	b.BookingStatus = BookingExpired
	assert.True(t, b.IsFinal())
}

func TestSectionClaimsRow(t *testing.T) {
	s := TheaterSection{RowLetters: []string{"A", "B"}}
	assert.True(t, s.ClaimsRow("A"))
	assert.False(t, s.ClaimsRow("C"))
	assert.False(t, TheaterSection{}.ClaimsRow("A"))
}
