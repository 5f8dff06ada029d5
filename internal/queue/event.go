// Package queue defines the booking events exchanged over the message
// broker and the notification consumer that drains them.
package queue

// Event types carried in BookingEvent.Type.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingExpired   = "booking.expired"
)

// BookingEvent is published on every booking lifecycle transition.  It
// carries enough for downstream consumers to notify, log or feed analytics
// without querying the primary database.
type BookingEvent struct {
	Type            string   `json:"type"`
	BookingID       uint64   `json:"booking_id"`
	UserID          uint64   `json:"user_id"`
	ShowID          uint64   `json:"show_id"`
	MovieTitle      string   `json:"movie_title"`
	SeatLabels      []string `json:"seats"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	OccurredAt      string   `json:"occurred_at"`
}
