// Package service owns the transactional orchestration of the booking core:
// claiming seats, confirming payment, cancelling and expiring holds.  The
// HTTP handlers, the payment webhook and the expiry reaper all go through
// the same service methods so every caller gets identical semantics.
package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/queue"
	"github.com/cineseat/ticketing/internal/repository"
)

// Principal is the authenticated caller as established by the auth layer.
type Principal struct {
	UserID uint64
	Role   model.Role
}

// IsAdmin reports whether the principal may override ownership checks.
func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// PaymentFacts is the confirmation the external payment processor delivers,
// via webhook callback or polling.  ProviderTxnID makes redelivery safe.
type PaymentFacts struct {
	UserID        uint64
	AmountCents   uint32
	Provider      string
	ProviderTxnID string
}

// EventPublisher decouples the service from the message broker; publish
// failures are logged and ignored because the database state is the truth.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// BookingService exposes the booking lifecycle: claim, confirm, cancel,
// expire, and the read paths that go with them.
type BookingService interface {
	BookSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID uint64, caller Principal) error
	ConfirmPayment(ctx context.Context, bookingID uint64, facts PaymentFacts) error
	ExpireOverdue(ctx context.Context) (int, error)
	GetBooking(ctx context.Context, bookingID uint64, caller Principal) (*model.Booking, error)
	ListBookings(ctx context.Context, userID uint64) ([]model.Booking, error)
}

type bookingService struct {
	db       *sql.DB
	shows    *repository.ShowRepo
	seats    *repository.SeatStatusRepo
	bookings *repository.BookingRepo
	payments *repository.PaymentRepo
	events   EventPublisher
	holdFor  time.Duration
}

var _ BookingService = (*bookingService)(nil)

// NewBookingService wires the booking service.  holdFor is the soft-hold
// window a pending booking gets before the reaper may expire it.  events may
// be nil to disable publishing.
func NewBookingService(db *sql.DB, shows *repository.ShowRepo, seats *repository.SeatStatusRepo,
	bookings *repository.BookingRepo, payments *repository.PaymentRepo,
	events EventPublisher, holdFor time.Duration) BookingService {
	if db == nil || shows == nil || seats == nil || bookings == nil || payments == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &bookingService{
		db:       db,
		shows:    shows,
		seats:    seats,
		bookings: bookings,
		payments: payments,
		events:   events,
		holdFor:  holdFor,
	}
}

// BookSeats atomically claims the requested seats for userID and creates the
// booking.  The availability read, the conditional claim and the booking
// insert share one transaction; the claim only flips rows that are still
// free, and an affected-row count below the request size aborts the whole
// transaction.  Two requests racing for overlapping seats therefore resolve
// to exactly one winner, and a failed attempt leaves every seat untouched.
func (s *bookingService) BookSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*model.Booking, error) {
	if showID == 0 || len(seatIDs) == 0 {
		return nil, repository.ErrInvalidInput
	}
	ids := dedupe(seatIDs)
	if len(ids) == 0 {
		return nil, repository.ErrInvalidInput
	}
	show, err := s.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	// Sweep lapsed holds of this show first so their seats are claimable again.
	if _, err := s.expireTx(ctx, tx, showID, now); err != nil {
		return nil, err
	}

	free, err := s.seats.FindFreeByIDsTx(ctx, tx, showID, ids)
	if err != nil {
		return nil, err
	}
	if len(free) != len(ids) {
		return nil, &repository.SeatsUnavailableError{Unavailable: missingIDs(ids, free)}
	}

	expiry := now.Add(s.holdFor)
	claimed, err := s.seats.ClaimTx(ctx, tx, showID, ids, userID, expiry)
	if err != nil {
		return nil, err
	}
	if claimed != int64(len(ids)) {
		// Lost the race between the read and the claim; the rollback undoes
		// the rows this statement did flip.
		return nil, &repository.SeatsUnavailableError{Unavailable: ids}
	}

	var total uint32
	for _, seat := range free {
		total += seat.PriceCents
	}
	booking := &model.Booking{
		UserID:          userID,
		ShowID:          showID,
		TheaterID:       show.TheaterID,
		MovieTitle:      show.MovieTitle,
		ExhibitorID:     show.ExhibitorID,
		TotalPriceCents: total,
		BookingStatus:   model.BookingActive,
		PaymentStatus:   model.PaymentPending,
		HoldExpiresAt:   expiry,
		Seats:           free,
	}
	if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	for i := range booking.Seats {
		booking.Seats[i].IsBooked = true
		booking.Seats[i].BookedBy = &userID
	}
	s.publish(ctx, queue.EventBookingCreated, booking)
	return booking, nil
}

// CancelBooking releases the booking's seats and marks it CANCELLED.  Only
// the owner or an admin may cancel; a paid booking is cancellable by admins
// only.  Cancelling a booking that already left ACTIVE is a no-op, which
// makes retries and admin/user races harmless.  The booking row is locked
// for the duration, so a cancel racing a payment confirmation sees the
// committed outcome and the paid guard applies deterministically.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID uint64, caller Principal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := s.bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if !booking.IsOwnedBy(caller.UserID) && !caller.IsAdmin() {
		return repository.ErrForbidden
	}
	if booking.IsFinal() {
		return nil // already cancelled or expired
	}
	if booking.IsPaid() && !caller.IsAdmin() {
		return repository.ErrBookingPaid
	}

	seatIDs, err := s.bookings.SeatIDsTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if err := s.seats.ReleaseTx(ctx, tx, booking.ShowID, seatIDs); err != nil {
		return err
	}
	if err := s.bookings.SetBookingStatusTx(ctx, tx, bookingID, model.BookingCancelled); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	booking.BookingStatus = model.BookingCancelled
	s.publish(ctx, queue.EventBookingCancelled, booking)
	return nil
}

// ConfirmPayment is the relay contract with the external processor: flip the
// booking to PAID exactly once.  Redelivery is a no-op success: the locked
// re-read catches most duplicates and the unique provider transaction ID
// catches the rest.  Seats stay booked; only their hold deadline is cleared.
func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID uint64, facts PaymentFacts) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := s.bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if booking.IsFinal() {
		return repository.ErrBookingFinal
	}
	if booking.IsPaid() {
		return nil // duplicate confirmation
	}
	// The processor echoes back who paid and how much.  A confirmation that
	// names the wrong payer or the wrong amount never flips the booking.
	if facts.AmountCents != booking.TotalPriceCents ||
		(facts.UserID != 0 && facts.UserID != booking.UserID) {
		return repository.ErrPaymentMismatch
	}

	if err := s.bookings.SetPaidTx(ctx, tx, bookingID); err != nil {
		return err
	}
	seatIDs, err := s.bookings.SeatIDsTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if err := s.seats.ClearExpiryTx(ctx, tx, booking.ShowID, seatIDs); err != nil {
		return err
	}
	if _, err := s.payments.InsertTx(ctx, tx, &model.Payment{
		BookingID:     bookingID,
		UserID:        facts.UserID,
		Provider:      facts.Provider,
		ProviderTxnID: facts.ProviderTxnID,
		AmountCents:   facts.AmountCents,
		Status:        "success",
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	booking.PaymentStatus = model.PaymentPaid
	s.publish(ctx, queue.EventBookingConfirmed, booking)
	return nil
}

// ExpireOverdue sweeps every ACTIVE+PENDING booking whose hold has lapsed,
// releasing its seats and marking it EXPIRED.  It returns how many bookings
// it expired.  The reaper calls this periodically; the same per-show sweep
// also runs inside BookSeats.
func (s *bookingService) ExpireOverdue(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	expired, err := s.expireTx(ctx, tx, 0, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	for _, ref := range expired {
		s.publish(ctx, queue.EventBookingExpired, &model.Booking{ID: ref.BookingID, ShowID: ref.ShowID})
	}
	return len(expired), nil
}

// expireTx releases the seats of overdue pending bookings and marks them
// EXPIRED, within the caller's transaction.  showID 0 means every show.
func (s *bookingService) expireTx(ctx context.Context, tx *sql.Tx, showID uint64, now time.Time) ([]repository.OverdueRef, error) {
	overdue, err := s.bookings.OverduePendingTx(ctx, tx, showID, now)
	if err != nil {
		return nil, err
	}
	for _, ref := range overdue {
		seatIDs, err := s.bookings.SeatIDsTx(ctx, tx, ref.BookingID)
		if err != nil {
			return nil, err
		}
		if err := s.seats.ReleaseTx(ctx, tx, ref.ShowID, seatIDs); err != nil {
			return nil, err
		}
		if err := s.bookings.SetBookingStatusTx(ctx, tx, ref.BookingID, model.BookingExpired); err != nil {
			return nil, err
		}
	}
	return overdue, nil
}

// GetBooking returns a booking to its owner or an admin.
func (s *bookingService) GetBooking(ctx context.Context, bookingID uint64, caller Principal) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsOwnedBy(caller.UserID) && !caller.IsAdmin() {
		return nil, repository.ErrForbidden
	}
	return booking, nil
}

// ListBookings returns the caller's bookings, newest first.
func (s *bookingService) ListBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *bookingService) publish(ctx context.Context, eventType string, b *model.Booking) {
	if s.events == nil {
		return
	}
	labels := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		labels = append(labels, seat.SeatLabel)
	}
	ev := queue.BookingEvent{
		Type:            eventType,
		BookingID:       b.ID,
		UserID:          b.UserID,
		ShowID:          b.ShowID,
		MovieTitle:      b.MovieTitle,
		SeatLabels:      labels,
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingEvent(ctx, ev); err != nil {
		log.Printf("booking-service: publish %s failed: %v", eventType, err)
	}
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(requested []uint64, got []model.SeatStatus) []uint64 {
	have := make(map[uint64]struct{}, len(got))
	for _, s := range got {
		have[s.ID] = struct{}{}
	}
	missing := make([]uint64, 0)
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
