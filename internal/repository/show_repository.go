package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/cineseat/ticketing/internal/model"
)

// ShowRepo persists scheduled shows.  Duplicate scheduling is rejected by
// the unique key over (movie_title, theater_id, show_date, show_time) and
// surfaced as ErrDuplicateShow.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo returns a ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a show within the provided transaction and populates the
// generated ID.  The caller owns commit/rollback; show creation shares its
// transaction with seat materialization.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO shows (movie_title, theater_id, exhibitor_id, show_date, show_time) VALUES (?, ?, ?, ?, ?)`,
		s.MovieTitle, s.TheaterID, s.ExhibitorID, s.ShowDate, s.ShowTime,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key
			return ErrDuplicateShow
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID loads a show or returns ErrShowNotFound.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	s := &model.Show{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, movie_title, theater_id, exhibitor_id, show_date, show_time, created_at
		 FROM shows WHERE id = ?`, id,
	).Scan(&s.ID, &s.MovieTitle, &s.TheaterID, &s.ExhibitorID, &s.ShowDate, &s.ShowTime, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByTheater returns the shows scheduled in a theater ordered by date and
// time.
func (r *ShowRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, movie_title, theater_id, exhibitor_id, show_date, show_time, created_at
		 FROM shows WHERE theater_id = ? ORDER BY show_date, show_time`, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieTitle, &s.TheaterID, &s.ExhibitorID, &s.ShowDate, &s.ShowTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}

// DeleteTx removes the show row itself.  Seat rows are deleted first via
// SeatStatusRepo.DeleteByShowTx in the same transaction.
func (r *ShowRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	return err
}
