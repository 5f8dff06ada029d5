package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cineseat/ticketing/internal/model"
)

// TheaterRepo persists theaters and their pricing sections.  Sections are
// stored in a child table with row letters comma-joined in a single column.
// Layout edits only affect shows materialized afterwards; existing
// seat_status rows keep their snapshots.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo returns a TheaterRepo bound to the given database.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *TheaterRepo) DB() *sql.DB { return r.db }

// Create inserts a theater and its sections in one transaction and
// populates the generated IDs on the passed model.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO theaters (exhibitor_id, name, location, seat_rows, seat_columns) VALUES (?, ?, ?, ?, ?)`,
		t.ExhibitorID, t.Name, t.Location, t.SeatRows, t.SeatColumns,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	if err := r.insertSectionsTx(ctx, tx, t.ID, t.Sections); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReplaceSections swaps the full section set of a theater.  Only the owner
// may do this; ownership is verified against the live row, never against a
// denormalized copy.
func (r *TheaterRepo) ReplaceSections(ctx context.Context, theaterID, exhibitorID uint64, sections []model.TheaterSection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var ownerID uint64
	err = tx.QueryRowContext(ctx, `SELECT exhibitor_id FROM theaters WHERE id = ?`, theaterID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTheaterNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != exhibitorID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM theater_sections WHERE theater_id = ?`, theaterID); err != nil {
		return err
	}
	if err := r.insertSectionsTx(ctx, tx, theaterID, sections); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *TheaterRepo) insertSectionsTx(ctx context.Context, tx *sql.Tx, theaterID uint64, sections []model.TheaterSection) error {
	if len(sections) == 0 {
		return nil
	}
	query := `INSERT INTO theater_sections (theater_id, section_name, seat_type, price_cents, row_letters) VALUES `
	args := make([]interface{}, 0, len(sections)*5)
	for i, s := range sections {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, theaterID, s.SectionName, s.SeatType, s.PriceCents, strings.Join(s.RowLetters, ","))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID loads a theater with its sections, or ErrTheaterNotFound.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	t := &model.Theater{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, exhibitor_id, name, location, seat_rows, seat_columns, created_at, updated_at
		 FROM theaters WHERE id = ?`, id,
	).Scan(&t.ID, &t.ExhibitorID, &t.Name, &t.Location, &t.SeatRows, &t.SeatColumns, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTheaterNotFound
	}
	if err != nil {
		return nil, err
	}
	sections, err := r.sectionsByTheater(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Sections = sections
	return t, nil
}

// GetByIDAndOwner loads a theater only when it belongs to exhibitorID.
// A theater owned by someone else yields ErrForbidden, not ErrTheaterNotFound,
// so handlers can distinguish the two.
func (r *TheaterRepo) GetByIDAndOwner(ctx context.Context, id, exhibitorID uint64) (*model.Theater, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.ExhibitorID != exhibitorID {
		return nil, ErrForbidden
	}
	return t, nil
}

// ListByOwner returns all theaters of an exhibitor, sections included.
func (r *TheaterRepo) ListByOwner(ctx context.Context, exhibitorID uint64) ([]model.Theater, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, exhibitor_id, name, location, seat_rows, seat_columns, created_at, updated_at
		 FROM theaters WHERE exhibitor_id = ? ORDER BY id`, exhibitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	theaters := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.ExhibitorID, &t.Name, &t.Location, &t.SeatRows, &t.SeatColumns, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		theaters = append(theaters, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range theaters {
		sections, err := r.sectionsByTheater(ctx, theaters[i].ID)
		if err != nil {
			return nil, err
		}
		theaters[i].Sections = sections
	}
	return theaters, nil
}

func (r *TheaterRepo) sectionsByTheater(ctx context.Context, theaterID uint64) ([]model.TheaterSection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, theater_id, section_name, seat_type, price_cents, row_letters
		 FROM theater_sections WHERE theater_id = ? ORDER BY id`, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sections := make([]model.TheaterSection, 0)
	for rows.Next() {
		var s model.TheaterSection
		var letters string
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.SectionName, &s.SeatType, &s.PriceCents, &letters); err != nil {
			return nil, err
		}
		if letters != "" {
			s.RowLetters = strings.Split(letters, ",")
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}
