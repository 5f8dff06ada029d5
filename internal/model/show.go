package model

import "time"

// Show is one scheduled screening of a movie at a theater.  The exhibitor ID
// is a denormalized copy of the theater owner kept for scoped listings; it is
// never trusted for access control, which always re-checks the live theater.
//
// The (MovieTitle, TheaterID, ShowDate, ShowTime) tuple is unique: scheduling
// the same movie in the same theater at the same date and time twice fails.
type Show struct {
    ID          uint64    `json:"id"`           // shows.id
    MovieTitle  string    `json:"movie_title"`  // shows.movie_title
    TheaterID   uint64    `json:"theater_id"`   // shows.theater_id
    ExhibitorID uint64    `json:"exhibitor_id"` // shows.exhibitor_id (derived index, not authority)
    ShowDate    string    `json:"show_date"`    // shows.show_date, "2006-01-02"
    ShowTime    string    `json:"show_time"`    // shows.show_time, local to the theater, e.g. "19:30"
    CreatedAt   time.Time `json:"created_at"`   // shows.created_at
}
