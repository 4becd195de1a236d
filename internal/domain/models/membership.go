// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is the authoritative join between users and companies.
// Exactly one document per (user_id, company_id).
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"userId"`
	CompanyID primitive.ObjectID `bson:"company_id" json:"companyId"`
	Role      string             `bson:"role" json:"role"` // owner | admin | member | viewer
	JoinedAt  time.Time          `bson:"joined_at" json:"joinedAt"`
}
