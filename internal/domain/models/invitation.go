// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation statuses. Accepted and declined are terminal.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// Invitation asks a registered user to join a company with a role.
type Invitation struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	CompanyID   primitive.ObjectID `bson:"company_id" json:"companyId"`
	UserID      string             `bson:"user_id" json:"userId"`
	InvitedBy   string             `bson:"invited_by" json:"invitedBy"`
	Role        string             `bson:"role" json:"role"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	RespondedAt *time.Time         `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
}
