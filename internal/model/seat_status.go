package model

import (
    "fmt"
    "time"
)

// SeatStatus is the booking state of one physical seat for one specific show.
// Section name, seat type and price are copied from the theater section when
// the show is materialized, so later layout edits never reprice an existing
// show.  A seat is available iff IsBooked is false; ReservationExpiry marks
// the soft hold of a pending booking and is cleared on payment.
//
// Invariant: IsBooked implies BookedBy is non-nil.  (show, seat label) is
// unique per show.
type SeatStatus struct {
    ID                uint64     `json:"id"`                           // seat_status.id
    ShowID            uint64     `json:"show_id"`                      // seat_status.show_id
    SeatLabel         string     `json:"seat_label"`                   // seat_status.seat_label, e.g. "C7"
    SectionName       string     `json:"section_name"`                 // seat_status.section_name (snapshot)
    SeatType          SeatType   `json:"seat_type"`                    // seat_status.seat_type (snapshot)
    PriceCents        uint32     `json:"price_cents"`                  // seat_status.price_cents (snapshot)
    RowLetter         string     `json:"row_letter"`                   // seat_status.row_letter, for ordering
    SeatColumn        uint32     `json:"seat_column"`                  // seat_status.seat_column, for ordering
    IsBooked          bool       `json:"is_booked"`                    // seat_status.is_booked
    BookedBy          *uint64    `json:"booked_by,omitempty"`          // seat_status.booked_by (nullable)
    ReservationExpiry *time.Time `json:"reservation_expiry,omitempty"` // seat_status.reservation_expiry (nullable)
    CreatedAt         time.Time  `json:"created_at"`                   // seat_status.created_at
    UpdatedAt         time.Time  `json:"updated_at"`                   // seat_status.updated_at
}

// RowLetter converts a zero-based row index to its letter (0 -> "A").
// Theaters are capped at 26 rows, so a single letter always suffices.
func RowLetter(i int) string {
    if i < 0 || i > 25 {
        return ""
    }
    return string(rune('A' + i))
}

// ExpandSeatGrid materializes the seat rows for one show from a theater
// layout.  For each row of the grid the section claiming the row's letter
// supplies the name, seat type and price; rows no section claims generate no
// seats at all.  priceOverrides, when non-nil, replaces the section price for
// matching seat types (per-show pricing).  Seats come out ordered by row then
// column, all free.
func ExpandSeatGrid(showID uint64, t *Theater, priceOverrides map[SeatType]uint32) []SeatStatus {
    seats := make([]SeatStatus, 0, int(t.SeatRows)*int(t.SeatColumns))
    for row := 0; row < int(t.SeatRows); row++ {
        letter := RowLetter(row)
        section, ok := sectionForRow(t.Sections, letter)
        if !ok {
            continue // unclaimed row: no seats for it
        }
        price := section.PriceCents
        if priceOverrides != nil {
            if p, ok := priceOverrides[section.SeatType]; ok {
                price = p
            }
        }
        for col := 1; col <= int(t.SeatColumns); col++ {
            seats = append(seats, SeatStatus{
                ShowID:      showID,
                SeatLabel:   fmt.Sprintf("%s%d", letter, col),
                SectionName: section.SectionName,
                SeatType:    section.SeatType,
                PriceCents:  price,
                RowLetter:   letter,
                SeatColumn:  uint32(col),
            })
        }
    }
    return seats
}

func sectionForRow(sections []TheaterSection, letter string) (TheaterSection, bool) {
    for _, s := range sections {
        if s.ClaimsRow(letter) {
            return s, true
        }
    }
    return TheaterSection{}, false
}
