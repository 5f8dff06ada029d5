package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/repository"
)

func TestCreateShowMaterializesSeats(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	exhibitorID := env.createUser(t, model.RoleExhibitor)

	theater := &model.Theater{
		ExhibitorID: exhibitorID,
		Name:        "T-" + uuid.NewString()[:8],
		SeatRows:    3,
		SeatColumns: 4,
		Sections: []model.TheaterSection{
			{SectionName: "Front", SeatType: model.SeatPremium, PriceCents: 1500, RowLetters: []string{"A"}},
			{SectionName: "Back", SeatType: model.SeatStandard, PriceCents: 900, RowLetters: []string{"C"}},
		},
	}
	require.NoError(t, env.theaters.Create(ctx, theater))

	show, err := env.showSvc.CreateShow(ctx, exhibitorID, CreateShowInput{
		MovieTitle:     "M-" + uuid.NewString()[:8],
		TheaterID:      theater.ID,
		ShowDate:       "2030-02-01",
		ShowTime:       "21:00",
		PriceOverrides: map[model.SeatType]uint32{model.SeatPremium: 1800},
	})
	require.NoError(t, err)

	// row B is unclaimed, so 2 rows x 4 columns materialize
	seats, err := env.seats.FindAvailable(ctx, show.ID)
	require.NoError(t, err)
	require.Len(t, seats, 8)
	assert.Equal(t, "A1", seats[0].SeatLabel)
	assert.Equal(t, uint32(1800), seats[0].PriceCents, "premium override applies")
	assert.Equal(t, "C1", seats[4].SeatLabel)
	assert.Equal(t, uint32(900), seats[4].PriceCents)
}

func TestCreateShowDuplicateSlot(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	show, _ := env.createShow(t)

	_, err := env.showSvc.CreateShow(ctx, show.ExhibitorID, CreateShowInput{
		MovieTitle: show.MovieTitle,
		TheaterID:  show.TheaterID,
		ShowDate:   show.ShowDate,
		ShowTime:   show.ShowTime,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateShow)
}

func TestCreateShowValidation(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	exhibitorID := env.createUser(t, model.RoleExhibitor)

	_, err := env.showSvc.CreateShow(ctx, exhibitorID, CreateShowInput{
		MovieTitle: "", TheaterID: 1, ShowDate: "2030-01-01", ShowTime: "19:30",
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = env.showSvc.CreateShow(ctx, exhibitorID, CreateShowInput{
		MovieTitle: "X", TheaterID: 1, ShowDate: "01-01-2030", ShowTime: "19:30",
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	// theater without sections cannot host a show
	bare := &model.Theater{ExhibitorID: exhibitorID, Name: "Bare-" + uuid.NewString()[:8], SeatRows: 2, SeatColumns: 2}
	require.NoError(t, env.theaters.Create(ctx, bare))
	_, err = env.showSvc.CreateShow(ctx, exhibitorID, CreateShowInput{
		MovieTitle: "X", TheaterID: bare.ID, ShowDate: "2030-01-01", ShowTime: "19:30",
	})
	assert.ErrorIs(t, err, repository.ErrTheaterNoSections)
}

func TestCreateShowOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	show, _ := env.createShow(t)
	other := env.createUser(t, model.RoleExhibitor)

	_, err := env.showSvc.CreateShow(ctx, other, CreateShowInput{
		MovieTitle: "X", TheaterID: show.TheaterID, ShowDate: "2030-03-01", ShowTime: "19:30",
	})
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestDeleteShowCascadesSeats(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	show, _ := env.createShow(t)

	owner := Principal{UserID: show.ExhibitorID, Role: model.RoleExhibitor}
	require.NoError(t, env.showSvc.DeleteShow(ctx, show.ID, owner))

	_, err := env.shows.GetByID(ctx, show.ID)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)

	seats, err := env.seats.FindAvailable(ctx, show.ID)
	require.NoError(t, err)
	assert.Empty(t, seats)
}

func TestDeleteShowWithPaidBookingRejected(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	show, seats := env.createShow(t)
	customer := env.createUser(t, model.RoleCustomer)

	booking, err := env.bookingSvc.BookSeats(ctx, customer, show.ID, seatIDs(seats[:1]))
	require.NoError(t, err)
	require.NoError(t, env.bookingSvc.ConfirmPayment(ctx, booking.ID, PaymentFacts{
		UserID: customer, AmountCents: 1000, Provider: "mockpay", ProviderTxnID: uuid.NewString(),
	}))

	owner := Principal{UserID: show.ExhibitorID, Role: model.RoleExhibitor}
	err = env.showSvc.DeleteShow(ctx, show.ID, owner)
	assert.ErrorIs(t, err, repository.ErrShowHasPaidBookings)
}

func TestReplaceSectionsDoesNotRepriceMaterializedShow(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	show, seats := env.createShow(t)
	customer := env.createUser(t, model.RoleCustomer)

	booking, err := env.bookingSvc.BookSeats(ctx, customer, show.ID, seatIDs(seats[:2]))
	require.NoError(t, err)
	require.Equal(t, uint32(2000), booking.TotalPriceCents)

	// reprice the theater out from under the scheduled show
	repriced := []model.TheaterSection{
		{SectionName: "Main", SeatType: model.SeatPremium, PriceCents: 5000, RowLetters: []string{"A", "B"}},
	}
	require.NoError(t, env.theaters.ReplaceSections(ctx, show.TheaterID, show.ExhibitorID, repriced))

	theater, err := env.theaters.GetByID(ctx, show.TheaterID)
	require.NoError(t, err)
	require.Len(t, theater.Sections, 1)
	require.Equal(t, uint32(5000), theater.Sections[0].PriceCents)

	// materialized seats keep the price snapshot taken at scheduling time
	free, err := env.seats.FindAvailable(ctx, show.ID)
	require.NoError(t, err)
	require.Len(t, free, 4)
	for _, s := range free {
		assert.Equal(t, uint32(1000), s.PriceCents, "seat %s repriced", s.SeatLabel)
		assert.Equal(t, model.SeatStandard, s.SeatType)
	}

	// and so does the booking made before the change
	owner := Principal{UserID: customer, Role: model.RoleCustomer}
	got, err := env.bookingSvc.GetBooking(ctx, booking.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, uint32(2000), got.TotalPriceCents)
	for _, seat := range got.Seats {
		assert.Equal(t, uint32(1000), seat.PriceCents)
	}

	// only shows scheduled after the swap see the new prices
	next, err := env.showSvc.CreateShow(ctx, show.ExhibitorID, CreateShowInput{
		MovieTitle: "M-" + uuid.NewString()[:8],
		TheaterID:  show.TheaterID,
		ShowDate:   "2030-01-02",
		ShowTime:   "21:00",
	})
	require.NoError(t, err)
	nextSeats, err := env.seats.FindAvailable(ctx, next.ID)
	require.NoError(t, err)
	require.Len(t, nextSeats, 6)
	assert.Equal(t, uint32(5000), nextSeats[0].PriceCents)
}

func TestReplaceSectionsOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t, 10*time.Minute)
	ctx := context.Background()
	show, _ := env.createShow(t)
	stranger := env.createUser(t, model.RoleExhibitor)

	sections := []model.TheaterSection{
		{SectionName: "Main", SeatType: model.SeatStandard, PriceCents: 1200, RowLetters: []string{"A"}},
	}
	err := env.theaters.ReplaceSections(ctx, show.TheaterID, stranger, sections)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	err = env.theaters.ReplaceSections(ctx, 0, show.ExhibitorID, sections)
	assert.ErrorIs(t, err, repository.ErrTheaterNotFound)
}
