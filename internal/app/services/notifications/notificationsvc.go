// Package notificationsvc manages per-user notifications.
package notificationsvc

import (
	"context"
	"errors"
	"time"

	notificationstore "github.com/dalemusser/nexa/internal/app/store/notifications"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Service struct {
	store *notificationstore.Store
}

func New(db *mongo.Database) *Service {
	return &Service{store: notificationstore.New(db)}
}

// CreateInput describes a notification to deliver to one user.
type CreateInput struct {
	UserID string
	Type   string
	Data   models.InvitationData
}

// Create stores an unread notification. Invitation notifications are tagged
// with the invitation id so they can be found when the invitation is answered.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Notification, error) {
	n := models.Notification{
		UserID:    in.UserID,
		Type:      in.Type,
		Read:      false,
		Data:      in.Data,
		CreatedAt: time.Now().UTC(),
	}
	if in.Type == models.NotificationCompanyInvitation {
		if oid, err := primitive.ObjectIDFromHex(in.Data.InvitationID); err == nil {
			n.InvitationID = &oid
		}
	}
	return s.store.Create(ctx, n)
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListByUser(ctx, userID, notificationstore.DefaultListLimit)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead marks one notification read. Notifications of other users are
// reported as not found.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("Notification")
	}
	if err := s.store.MarkRead(ctx, oid, userID); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			return apperr.NotFound("Notification")
		}
		return err
	}
	return nil
}

// MarkReadForInvitation marks the user's notification for an invitation read.
// Having no such notification is not an error.
func (s *Service) MarkReadForInvitation(ctx context.Context, userID string, invitationID primitive.ObjectID) error {
	_, err := s.store.MarkReadByInvitation(ctx, userID, invitationID)
	return err
}

// PruneRead deletes read notifications older than olderThan.
func (s *Service) PruneRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.store.DeleteReadBefore(ctx, time.Now().UTC().Add(-olderThan))
}
