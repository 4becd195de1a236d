// internal/domain/models/user.go
package models

import (
	"time"
)

// User is the profile record for an identity-provider account.
//
// NOTE:
//   - ID is the provider's subject id (uid), not an ObjectID.
//   - Company membership is not embedded on User.
//     Use the memberships collection to discover a user's companies.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	NameCI    string    `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email     string    `bson:"email" json:"email"`
	Phone     *string   `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
