// Package jobs holds background processes that run alongside the HTTP
// server.  The only job today is the booking-hold reaper.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/cineseat/ticketing/internal/service"
)

// StartExpiryReaper sweeps overdue pending bookings on a fixed interval so a
// seat held by a booking that never paid returns to the free pool.  The
// sweep also runs lazily inside the booking path; this loop bounds how long
// an abandoned hold can linger on shows nobody is trying to book.  The loop
// exits when ctx is cancelled.
func StartExpiryReaper(ctx context.Context, bookings service.BookingService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("expiry-reaper: sweeping every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := bookings.ExpireOverdue(ctx)
			if err != nil {
				log.Printf("expiry-reaper: sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("expiry-reaper: expired %d bookings", n)
			}
		}
	}
}
