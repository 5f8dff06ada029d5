package model

import "time"

// BookingStatus is the lifecycle state of a booking.  A booking is created
// ACTIVE and leaves that state exactly once: CANCELLED by its owner or an
// admin, or EXPIRED by the hold reaper when payment never arrived.
type BookingStatus string

const (
    BookingActive    BookingStatus = "ACTIVE"
    BookingCancelled BookingStatus = "CANCELLED"
    BookingExpired   BookingStatus = "EXPIRED"
)

// PaymentStatus tracks whether the external processor has confirmed payment.
type PaymentStatus string

const (
    PaymentPending PaymentStatus = "PENDING"
    PaymentPaid    PaymentStatus = "PAID"
)

// Booking groups the seats claimed in one transaction.  TotalPriceCents is a
// snapshot of the claimed seats' prices at claim time and never recomputed.
// Seats are referenced, not owned: cancellation releases the underlying
// seat_status rows rather than deleting anything.
type Booking struct {
    ID              uint64        `json:"id"`                // bookings.id
    UserID          uint64        `json:"user_id"`           // bookings.user_id
    ShowID          uint64        `json:"show_id"`           // bookings.show_id
    TheaterID       uint64        `json:"theater_id"`        // bookings.theater_id (denormalized)
    MovieTitle      string        `json:"movie_title"`       // bookings.movie_title (denormalized)
    ExhibitorID     uint64        `json:"exhibitor_id"`      // bookings.exhibitor_id (denormalized)
    TotalPriceCents uint32        `json:"total_price_cents"` // bookings.total_price_cents (snapshot)
    BookingStatus   BookingStatus `json:"booking_status"`    // bookings.booking_status
    PaymentStatus   PaymentStatus `json:"payment_status"`    // bookings.payment_status
    HoldExpiresAt   time.Time     `json:"hold_expires_at"`   // bookings.hold_expires_at
    CreatedAt       time.Time     `json:"created_at"`        // bookings.created_at
    UpdatedAt       time.Time     `json:"updated_at"`        // bookings.updated_at
    Seats           []SeatStatus  `json:"seats,omitempty"`   // expanded booking_seats, row/column order
}

// IsOwnedBy reports whether the booking belongs to the given user.
func (b *Booking) IsOwnedBy(userID uint64) bool { return b.UserID == userID }

// IsPaid reports whether the external processor confirmed this booking.
func (b *Booking) IsPaid() bool { return b.PaymentStatus == PaymentPaid }

// IsFinal reports whether the booking already left the ACTIVE state.
func (b *Booking) IsFinal() bool { return b.BookingStatus != BookingActive }

// HoldExpired reports whether the pending hold has lapsed at the given time.
// Paid bookings never expire.
func (b *Booking) HoldExpired(now time.Time) bool {
    return b.BookingStatus == BookingActive &&
        b.PaymentStatus == PaymentPending &&
        !b.HoldExpiresAt.After(now)
}
