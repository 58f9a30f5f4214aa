package model

import "time"

// User represents an identity record in the `users` table.  Accounts are
// created and managed by the external identity provider; this service only
// reads them, primarily to attach display names to participant listings.
// The ID is the provider's opaque string identifier, carried verbatim in
// the JWT `sub` claim.
//
// Fields:
//  ID        – provider-issued identifier (users.id).
//  Name      – display name shown on rosters.
//  Email     – unique email address.
//  CreatedAt – timestamp of creation.
type User struct {
	ID        string    // users.id
	Name      string    // users.name
	Email     string    // users.email
	CreatedAt time.Time // users.created_at
}
