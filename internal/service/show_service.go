package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/repository"
)

// CreateShowInput carries everything needed to schedule a screening.
// PriceOverrides optionally replaces section prices per seat type for this
// show only; the theater layout itself is never touched.
type CreateShowInput struct {
	MovieTitle     string
	TheaterID      uint64
	ShowDate       string // "2006-01-02"
	ShowTime       string // local to the theater, e.g. "19:30"
	PriceOverrides map[model.SeatType]uint32
}

// ShowService schedules and removes shows, materializing and cascading seat
// inventory along with them.
type ShowService interface {
	CreateShow(ctx context.Context, exhibitorID uint64, in CreateShowInput) (*model.Show, error)
	DeleteShow(ctx context.Context, showID uint64, caller Principal) error
	AvailableSeats(ctx context.Context, showID uint64) ([]model.SeatStatus, error)
	ListByTheater(ctx context.Context, theaterID uint64) ([]model.Show, error)
}

type showService struct {
	db       *sql.DB
	theaters *repository.TheaterRepo
	shows    *repository.ShowRepo
	seats    *repository.SeatStatusRepo
	bookings *repository.BookingRepo
}

var _ ShowService = (*showService)(nil)

// NewShowService wires the show service.
func NewShowService(db *sql.DB, theaters *repository.TheaterRepo, shows *repository.ShowRepo,
	seats *repository.SeatStatusRepo, bookings *repository.BookingRepo) ShowService {
	if db == nil || theaters == nil || shows == nil || seats == nil || bookings == nil {
		panic("nil dependency passed to NewShowService")
	}
	return &showService{db: db, theaters: theaters, shows: shows, seats: seats, bookings: bookings}
}

// CreateShow inserts the show and materializes one seat_status row per
// physical seat in a single transaction, so a failure at any point leaves
// neither the show nor a partial seat grid behind.  Section name, type and
// price are snapshotted onto the seats; later layout edits do not reach
// already-materialized shows.
func (s *showService) CreateShow(ctx context.Context, exhibitorID uint64, in CreateShowInput) (*model.Show, error) {
	if strings.TrimSpace(in.MovieTitle) == "" || in.TheaterID == 0 || in.ShowDate == "" || in.ShowTime == "" {
		return nil, repository.ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", in.ShowDate); err != nil {
		return nil, repository.ErrInvalidInput
	}
	theater, err := s.theaters.GetByIDAndOwner(ctx, in.TheaterID, exhibitorID)
	if err != nil {
		return nil, err
	}
	if len(theater.Sections) == 0 {
		return nil, repository.ErrTheaterNoSections
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

	show := &model.Show{
		MovieTitle:  strings.TrimSpace(in.MovieTitle),
		TheaterID:   in.TheaterID,
		ExhibitorID: exhibitorID,
		ShowDate:    in.ShowDate,
		ShowTime:    in.ShowTime,
	}
	if err := s.shows.CreateTx(ctx, tx, show); err != nil {
		return nil, err
	}
	seats := model.ExpandSeatGrid(show.ID, theater, in.PriceOverrides)
	if err := s.seats.CreateBulkTx(ctx, tx, seats); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return show, nil
}

// DeleteShow removes a show and its seat rows.  The caller must own the
// theater or be an admin, and shows with active paid bookings cannot be
// deleted.  Historic booking rows survive; their seat links cascade away
// with the seat rows.
func (s *showService) DeleteShow(ctx context.Context, showID uint64, caller Principal) error {
	show, err := s.shows.GetByID(ctx, showID)
	if err != nil {
		return err
	}
	theater, err := s.theaters.GetByID(ctx, show.TheaterID)
	if err != nil {
		return err
	}
	if theater.ExhibitorID != caller.UserID && !caller.IsAdmin() {
		return repository.ErrForbidden
	}
	paid, err := s.bookings.CountActivePaidByShow(ctx, showID)
	if err != nil {
		return err
	}
	if paid > 0 {
		return repository.ErrShowHasPaidBookings
	}

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
	if err := s.seats.DeleteByShowTx(ctx, tx, showID); err != nil {
		return err
	}
	if err := s.shows.DeleteTx(ctx, tx, showID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AvailableSeats lists the free seats of a show in row/column order.
func (s *showService) AvailableSeats(ctx context.Context, showID uint64) ([]model.SeatStatus, error) {
	if _, err := s.shows.GetByID(ctx, showID); err != nil {
		return nil, err
	}
	return s.seats.FindAvailable(ctx, showID)
}

// ListByTheater lists the shows scheduled in a theater.
func (s *showService) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Show, error) {
	if _, err := s.theaters.GetByID(ctx, theaterID); err != nil {
		return nil, err
	}
	return s.shows.ListByTheater(ctx, theaterID)
}
