package model

import "time"

// Role enumerates the account roles understood by the authorization layer.
// Customers book seats, exhibitors own theaters and schedule shows, and
// admins may override ownership checks (e.g. cancelling a paid booking).
type Role string

const (
    RoleCustomer  Role = "CUSTOMER"
    RoleExhibitor Role = "EXHIBITOR"
    RoleAdmin     Role = "ADMIN"
)

// User is the minimal account record needed to mint an authenticated
// principal.  Profile data beyond email and role lives outside this service.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email (unique)
    PasswordHash string    // users.password_hash (bcrypt)
    Role         Role      // users.role
    CreatedAt    time.Time // users.created_at
}
