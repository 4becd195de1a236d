// internal/domain/models/credential.go
package models

import "time"

// Credential is a password login held by the self-hosted identity provider.
// ID matches the User ID it authenticates.
type Credential struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Disabled     bool      `bson:"disabled"`
	CreatedAt    time.Time `bson:"created_at"`
}
