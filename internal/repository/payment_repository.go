package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/cineseat/ticketing/internal/model"
)

// PaymentRepo records confirmed charges.  provider_txn_id carries a unique
// key, so a redelivered webhook that slips past the status check still
// cannot produce a second payment row.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// InsertTx writes one payment record within the transaction.  A duplicate
// provider transaction ID reports alreadyRecorded=true instead of an error.
func (r *PaymentRepo) InsertTx(ctx context.Context, tx *sql.Tx, p *model.Payment) (alreadyRecorded bool, err error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, user_id, provider, provider_txn_id, amount_cents, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.BookingID, p.UserID, p.Provider, p.ProviderTxnID, p.AmountCents, p.Status,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return true, nil
		}
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	p.ID = uint64(id)
	return false, nil
}

// ListByBooking returns the payment records of a booking, oldest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, user_id, provider, provider_txn_id, amount_cents, status, created_at
		 FROM payments WHERE booking_id = ? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.UserID, &p.Provider, &p.ProviderTxnID, &p.AmountCents, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
