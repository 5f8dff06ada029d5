package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cineseat/ticketing/internal/model"
)

// SeatStatusRepo provides access to the seat_status table, the contended
// resource of the system.  One row exists per physical seat per show.  The
// claim path is a conditional bulk UPDATE guarded by is_booked = 0; callers
// compare the affected-row count against the request size inside an open
// transaction and roll back on mismatch, which is what makes a seat sellable
// at most once under concurrent bookings.
type SeatStatusRepo struct {
	db *sql.DB
}

// NewSeatStatusRepo returns a SeatStatusRepo bound to the given database.
func NewSeatStatusRepo(db *sql.DB) *SeatStatusRepo { return &SeatStatusRepo{db: db} }

const seatStatusColumns = `id, show_id, seat_label, section_name, seat_type, price_cents,
       row_letter, seat_column, is_booked, booked_by, reservation_expiry, created_at, updated_at`

// CreateBulkTx inserts the materialized seat rows for a show in a single
// statement within the provided transaction.  Show creation and seat
// materialization share one transaction so a show can never exist
// half-materialized.  An empty slice is a no-op.
func (r *SeatStatusRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.SeatStatus) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seat_status
	          (show_id, seat_label, section_name, seat_type, price_cents, row_letter, seat_column, is_booked)
	          VALUES `
	args := make([]interface{}, 0, len(seats)*8)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, 0)"
		args = append(args, s.ShowID, s.SeatLabel, s.SectionName, s.SeatType, s.PriceCents, s.RowLetter, s.SeatColumn)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// FindAvailable returns every free seat of a show ordered by row then column
// so clients can render a deterministic seat map.
func (r *SeatStatusRepo) FindAvailable(ctx context.Context, showID uint64) ([]model.SeatStatus, error) {
	const q = `SELECT ` + seatStatusColumns + `
	           FROM seat_status
	           WHERE show_id = ? AND is_booked = 0
	           ORDER BY row_letter, seat_column`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeatStatuses(rows)
}

// FindFreeByIDsTx loads the seats among ids that belong to showID and are
// still free, within the transaction.  Restricting on show_id defends
// against seat IDs injected from another show.  Fewer rows than ids means at
// least one seat is booked, missing, or foreign.
func (r *SeatStatusRepo) FindFreeByIDsTx(ctx context.Context, tx *sql.Tx, showID uint64, ids []uint64) ([]model.SeatStatus, error) {
	if len(ids) == 0 {
		return []model.SeatStatus{}, nil
	}
	q := `SELECT ` + seatStatusColumns + `
	      FROM seat_status
	      WHERE show_id = ? AND is_booked = 0 AND id IN (` + placeholders(len(ids)) + `)
	      ORDER BY row_letter, seat_column`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, showID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeatStatuses(rows)
}

// ClaimTx atomically flips the given seats to booked for userID, but only
// rows that are currently free.  It returns the number of rows actually
// claimed; the caller must treat a count below len(ids) as a lost race and
// roll back the surrounding transaction.  expiry records the soft hold
// deadline of the pending booking.
func (r *SeatStatusRepo) ClaimTx(ctx context.Context, tx *sql.Tx, showID uint64, ids []uint64, userID uint64, expiry time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `UPDATE seat_status
	      SET is_booked = 1, booked_by = ?, reservation_expiry = ?
	      WHERE show_id = ? AND is_booked = 0 AND id IN (` + placeholders(len(ids)) + `)`
	args := make([]interface{}, 0, len(ids)+3)
	args = append(args, userID, expiry.UTC().Format("2006-01-02 15:04:05"), showID)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseTx returns the given seats to the free pool.  The update is
// unconditional and therefore idempotent: releasing an already-free seat
// changes nothing.  Used by cancel and expire.
func (r *SeatStatusRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, showID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	q := `UPDATE seat_status
	      SET is_booked = 0, booked_by = NULL, reservation_expiry = NULL
	      WHERE show_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, showID)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// ClearExpiryTx removes the soft-hold deadline from the given seats once
// payment is confirmed; the seats stay booked.
func (r *SeatStatusRepo) ClearExpiryTx(ctx context.Context, tx *sql.Tx, showID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	q := `UPDATE seat_status SET reservation_expiry = NULL
	      WHERE show_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, showID)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// DeleteByShowTx removes all seat rows of a show as part of show deletion.
func (r *SeatStatusRepo) DeleteByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM seat_status WHERE show_id = ?`, showID)
	return err
}

// placeholders renders n comma-joined "?" markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func scanSeatStatuses(rows *sql.Rows) ([]model.SeatStatus, error) {
	seats := make([]model.SeatStatus, 0)
	for rows.Next() {
		var s model.SeatStatus
		var bookedBy sql.NullInt64
		var expiry sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.ShowID, &s.SeatLabel, &s.SectionName, &s.SeatType, &s.PriceCents,
			&s.RowLetter, &s.SeatColumn, &s.IsBooked, &bookedBy, &expiry, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if bookedBy.Valid {
			v := uint64(bookedBy.Int64)
			s.BookedBy = &v
		}
		if expiry.Valid {
			t := expiry.Time.UTC()
			s.ReservationExpiry = &t
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
