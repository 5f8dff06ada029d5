// Package repository implements data access over database/sql.  This file
// defines the error taxonomy shared by repositories and services so that
// handlers can translate failures into HTTP statuses: not-found values map
// to 404, ErrForbidden to 403, conflicts to 409 and validation to 400.
package repository

import (
	"errors"
	"fmt"
)

// ErrTheaterNotFound is returned when a theater ID resolves to nothing.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrShowNotFound is returned when a show ID resolves to nothing.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound is returned when a booking ID resolves to nothing.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound is returned when a user lookup matches no account.
var ErrUserNotFound = errors.New("user not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own and they are not an admin.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicateShow is returned when a show with the same movie, theater,
// date and time already exists.
var ErrDuplicateShow = errors.New("show already scheduled")

// ErrDuplicateEmail is returned when registering an email that is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrBookingPaid is returned when a state transition is illegal for a paid
// booking, such as a non-admin cancel.  Handlers should surface the current
// payment status alongside a 409.
var ErrBookingPaid = errors.New("booking already paid")

// ErrBookingFinal is returned when confirming payment on a booking that was
// already cancelled or expired.
var ErrBookingFinal = errors.New("booking no longer active")

// ErrShowHasPaidBookings is returned when deleting a show that still has
// active paid bookings.
var ErrShowHasPaidBookings = errors.New("show has paid bookings")

// ErrPaymentMismatch is returned when a payment confirmation names a payer
// or an amount that does not match the booking it references.
var ErrPaymentMismatch = errors.New("payment does not match booking")

// ErrInvalidInput is returned for malformed requests that reach the service
// layer, such as an empty seat selection or a zero show ID.
var ErrInvalidInput = errors.New("invalid input")

// ErrTheaterNoSections is returned when scheduling a show in a theater whose
// layout defines no pricing sections; such a show would have zero seats.
var ErrTheaterNoSections = errors.New("theater has no sections")

// SeatsUnavailableError is returned by the booking transaction when one or
// more requested seats are already booked, missing, or belong to another
// show.  Unavailable carries the offending seat IDs so clients can re-render
// the seat map.
type SeatsUnavailableError struct {
	Unavailable []uint64
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("%d requested seats are unavailable", len(e.Unavailable))
}
