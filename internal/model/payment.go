package model

import "time"

// Payment records one confirmed charge reported by the external processor.
// ProviderTxnID is unique, which makes webhook redelivery harmless: the
// second insert attempt hits the unique key instead of double-counting.
type Payment struct {
    ID            uint64    `json:"id"`              // payments.id
    BookingID     uint64    `json:"booking_id"`      // payments.booking_id
    UserID        uint64    `json:"user_id"`         // payments.user_id
    Provider      string    `json:"provider"`        // payments.provider, e.g. "mockpay"
    ProviderTxnID string    `json:"provider_txn_id"` // payments.provider_txn_id (unique)
    AmountCents   uint32    `json:"amount_cents"`    // payments.amount_cents
    Status        string    `json:"status"`          // payments.status, "success" on confirmation
    CreatedAt     time.Time `json:"created_at"`      // payments.created_at
}
