package model

import "time"

// SeatType classifies the seats of a theater section.  The type is
// snapshotted onto every seat generated from the section, so renaming a
// section's type later never changes seats of already-scheduled shows.
type SeatType string

const (
    SeatStandard SeatType = "STANDARD"
    SeatPremium  SeatType = "PREMIUM"
    SeatRecliner SeatType = "RECLINER"
)

// Theater describes the physical seating of one venue: a rectangular grid
// of SeatRows x SeatColumns, with rows lettered A, B, C ... from the screen.
// Sections partition (a subset of) the rows; a row no section claims simply
// produces no seats when a show is materialized.
//
// Fields:
//  ID          – primary key identifier.
//  ExhibitorID – user ID of the owning exhibitor.
//  Name        – display name of the theater.
//  Location    – free-form address or city.
//  SeatRows    – number of seating rows (1..26, one letter each).
//  SeatColumns – number of seats per row.
//  Sections    – named pricing sections covering disjoint sets of rows.
type Theater struct {
    ID          uint64           `json:"id"`           // theaters.id
    ExhibitorID uint64           `json:"exhibitor_id"` // theaters.exhibitor_id
    Name        string           `json:"name"`         // theaters.name
    Location    string           `json:"location"`     // theaters.location
    SeatRows    uint32           `json:"seat_rows"`    // theaters.seat_rows
    SeatColumns uint32           `json:"seat_columns"` // theaters.seat_columns
    Sections    []TheaterSection `json:"sections"`     // theater_sections rows
    CreatedAt   time.Time        `json:"created_at"`   // theaters.created_at
    UpdatedAt   time.Time        `json:"updated_at"`   // theaters.updated_at
}

// TheaterSection assigns a seat type and price to a set of row letters.
// Row sets of sibling sections are pairwise disjoint.
type TheaterSection struct {
    ID          uint64   `json:"id"`           // theater_sections.id
    TheaterID   uint64   `json:"theater_id"`   // theater_sections.theater_id
    SectionName string   `json:"section_name"` // theater_sections.section_name
    SeatType    SeatType `json:"seat_type"`    // theater_sections.seat_type
    PriceCents  uint32   `json:"price_cents"`  // theater_sections.price_cents
    RowLetters  []string `json:"row_letters"`  // theater_sections.row_letters (comma-joined in DB)
}

// ClaimsRow reports whether the section's row set contains the given letter.
func (s TheaterSection) ClaimsRow(letter string) bool {
    for _, r := range s.RowLetters {
        if r == letter {
            return true
        }
    }
    return false
}
