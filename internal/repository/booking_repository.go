package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cineseat/ticketing/internal/model"
)

// BookingRepo persists bookings and their seat references.  Seats are linked
// through booking_seats; a booking never owns the underlying seat_status
// rows, it only points at them.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking and its seat links within the provided
// transaction.  The booking starts ACTIVE+PENDING; booking status, payment
// status and the per-seat price snapshots are written exactly once here.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings
		 (user_id, show_id, theater_id, movie_title, exhibitor_id, total_price_cents,
		  booking_status, payment_status, hold_expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.ShowID, b.TheaterID, b.MovieTitle, b.ExhibitorID, b.TotalPriceCents,
		b.BookingStatus, b.PaymentStatus, b.HoldExpiresAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if len(b.Seats) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, seat_status_id, show_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(b.Seats)*4)
	for i, s := range b.Seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, b.ID, s.ID, b.ShowID, s.PriceCents)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

const bookingColumns = `id, user_id, show_id, theater_id, movie_title, exhibitor_id,
       total_price_cents, booking_status, payment_status, hold_expires_at, created_at, updated_at`

// GetByID loads a booking with its seats expanded, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	seats, err := r.seatsOf(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	b.Seats = seats
	return b, nil
}

// GetForUpdateTx loads a booking under a row lock so that payment
// confirmation and cancellation serialize on the booking row: whichever
// commits first decides the outcome of the race.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	return r.scanOne(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id))
}

// SeatIDsTx returns the seat_status IDs referenced by a booking.
func (r *BookingRepo) SeatIDsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_status_id FROM booking_seats WHERE booking_id = ?`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetBookingStatusTx flips booking_status; used by cancel and expire.
func (r *BookingRepo) SetBookingStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE bookings SET booking_status = ? WHERE id = ?`, status, id)
	return err
}

// SetPaidTx flips payment_status to PAID.
func (r *BookingRepo) SetPaidTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE bookings SET payment_status = ? WHERE id = ?`, model.PaymentPaid, id)
	return err
}

// ListByUser returns a user's bookings newest first, seats expanded.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBookingFields(rows.Scan, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range bookings {
		seats, err := r.seatsOf(ctx, r.db, bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Seats = seats
	}
	return bookings, nil
}

// OverdueRef identifies one ACTIVE+PENDING booking whose hold has lapsed.
type OverdueRef struct {
	BookingID uint64
	ShowID    uint64
}

// OverduePendingTx returns ACTIVE+PENDING bookings whose hold lapsed at or
// before now, optionally restricted to one show (showID 0 means all shows).
// The reaper sweeps all shows; the booking path sweeps lazily per show
// before checking availability.  Rows come back locked so a concurrent
// payment confirmation waits for the sweep to finish.
func (r *BookingRepo) OverduePendingTx(ctx context.Context, tx *sql.Tx, showID uint64, now time.Time) ([]OverdueRef, error) {
	q := `SELECT id, show_id FROM bookings
	      WHERE booking_status = ? AND payment_status = ? AND hold_expires_at <= ?`
	args := []interface{}{model.BookingActive, model.PaymentPending, now.UTC().Format("2006-01-02 15:04:05")}
	if showID != 0 {
		q += ` AND show_id = ?`
		args = append(args, showID)
	}
	q += ` FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	refs := make([]OverdueRef, 0)
	for rows.Next() {
		var ref OverdueRef
		if err := rows.Scan(&ref.BookingID, &ref.ShowID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

// CountActivePaidByShow counts bookings that block show deletion.
func (r *BookingRepo) CountActivePaidByShow(ctx context.Context, showID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE show_id = ? AND booking_status = ? AND payment_status = ?`,
		showID, model.BookingActive, model.PaymentPaid,
	).Scan(&n)
	return n, err
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *BookingRepo) seatsOf(ctx context.Context, q querier, bookingID uint64) ([]model.SeatStatus, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT s.id, s.show_id, s.seat_label, s.section_name, s.seat_type, s.price_cents,
		        s.row_letter, s.seat_column, s.is_booked, s.booked_by, s.reservation_expiry, s.created_at, s.updated_at
		 FROM booking_seats bs
		 JOIN seat_status s ON s.id = bs.seat_status_id
		 WHERE bs.booking_id = ?
		 ORDER BY s.row_letter, s.seat_column`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeatStatuses(rows)
}

func (r *BookingRepo) scanOne(row *sql.Row) (*model.Booking, error) {
	b := &model.Booking{}
	err := scanBookingFields(row.Scan, b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanBookingFields(scan func(dest ...interface{}) error, b *model.Booking) error {
	return scan(
		&b.ID, &b.UserID, &b.ShowID, &b.TheaterID, &b.MovieTitle, &b.ExhibitorID,
		&b.TotalPriceCents, &b.BookingStatus, &b.PaymentStatus, &b.HoldExpiresAt, &b.CreatedAt, &b.UpdatedAt,
	)
}
