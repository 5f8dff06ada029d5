package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTheater() *Theater {
	return &Theater{
		ID:          1,
		SeatRows:    3,
		SeatColumns: 2,
		Sections: []TheaterSection{
			{SectionName: "Front", SeatType: SeatPremium, PriceCents: 1500, RowLetters: []string{"A"}},
			{SectionName: "Back", SeatType: SeatStandard, PriceCents: 900, RowLetters: []string{"B", "C"}},
		},
	}
}

func TestExpandSeatGrid(t *testing.T) {
	seats := ExpandSeatGrid(42, testTheater(), nil)
	require.Len(t, seats, 6)

	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		labels = append(labels, s.SeatLabel)
		assert.Equal(t, uint64(42), s.ShowID)
		assert.False(t, s.IsBooked)
		assert.Nil(t, s.BookedBy)
	}
	assert.Equal(t, []string{"A1", "A2", "B1", "B2", "C1", "C2"}, labels)

	assert.Equal(t, "Front", seats[0].SectionName)
	assert.Equal(t, SeatPremium, seats[0].SeatType)
	assert.Equal(t, uint32(1500), seats[0].PriceCents)

	assert.Equal(t, "Back", seats[4].SectionName)
	assert.Equal(t, SeatStandard, seats[4].SeatType)
	assert.Equal(t, uint32(900), seats[4].PriceCents)
	assert.Equal(t, "C", seats[4].RowLetter)
	assert.Equal(t, uint32(1), seats[4].SeatColumn)
}

func TestExpandSeatGridSkipsUnclaimedRows(t *testing.T) {
	th := testTheater()
	// only row A is claimed; B and C produce nothing
	th.Sections = th.Sections[:1]

	seats := ExpandSeatGrid(7, th, nil)
	require.Len(t, seats, 2)
	assert.Equal(t, "A1", seats[0].SeatLabel)
	assert.Equal(t, "A2", seats[1].SeatLabel)
}

func TestExpandSeatGridNoSections(t *testing.T) {
	th := testTheater()
	th.Sections = nil
	assert.Empty(t, ExpandSeatGrid(7, th, nil))
}

func TestExpandSeatGridPriceOverrides(t *testing.T) {
	overrides := map[SeatType]uint32{SeatPremium: 2200}
	seats := ExpandSeatGrid(42, testTheater(), overrides)
	require.Len(t, seats, 6)

	// premium rows repriced, standard rows untouched
	assert.Equal(t, uint32(2200), seats[0].PriceCents)
	assert.Equal(t, uint32(900), seats[2].PriceCents)
}

func TestRowLetter(t *testing.T) {
	assert.Equal(t, "A", RowLetter(0))
	assert.Equal(t, "Z", RowLetter(25))
	assert.Equal(t, "", RowLetter(26))
	assert.Equal(t, "", RowLetter(-1))
}
