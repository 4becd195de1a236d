// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationCompanyInvitation = "company_invitation"
)

// InvitationData is the payload of a company_invitation notification.
type InvitationData struct {
	InvitationID string `bson:"invitationId" json:"invitationId"`
	CompanyID    string `bson:"companyId" json:"companyId"`
	CompanyName  string `bson:"companyName" json:"companyName"`
	Role         string `bson:"role" json:"role"`
	InviterName  string `bson:"inviterName" json:"inviterName"`
}

// Notification belongs to exactly one user.
//
// InvitationID duplicates Data.InvitationID at the top level so the
// notification for an invitation can be found with an indexed equality match.
type Notification struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	UserID       string              `bson:"user_id" json:"userId"`
	Type         string              `bson:"type" json:"type"`
	Read         bool                `bson:"read" json:"read"`
	InvitationID *primitive.ObjectID `bson:"invitation_id,omitempty" json:"invitationId,omitempty"`
	Data         InvitationData      `bson:"data" json:"data"`
	CreatedAt    time.Time           `bson:"created_at" json:"createdAt"`
}
