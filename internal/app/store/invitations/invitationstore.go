// internal/app/store/invitations/invitationstore.go
package invitationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("invitation not found")
	// ErrAlreadyResponded is returned when the invitation is no longer pending.
	ErrAlreadyResponded = errors.New("invitation already responded")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invitations")}
}

// Create stores a new pending invitation.
func (s *Store) Create(ctx context.Context, inv models.Invitation) (models.Invitation, error) {
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Invitation, error) {
	var inv models.Invitation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Invitation{}, ErrNotFound
		}
		return models.Invitation{}, err
	}
	return inv, nil
}

// HasPending reports whether the user already has a pending invitation to
// the company.
func (s *Store) HasPending(ctx context.Context, companyID primitive.ObjectID, userID string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"company_id": companyID,
		"user_id":    userID,
		"status":     models.InvitationPending,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Respond moves a pending invitation to status. The status filter makes the
// transition happen at most once.
func (s *Store) Respond(ctx context.Context, id primitive.ObjectID, status string, at time.Time) error {
	if status != models.InvitationAccepted && status != models.InvitationDeclined {
		return errors.New("status must be accepted or declined")
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.InvitationPending},
		bson.M{"$set": bson.M{"status": status, "responded_at": at.UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyResponded
}

// ListPendingByUser returns the user's pending invitations, newest first.
func (s *Store) ListPendingByUser(ctx context.Context, userID string) ([]models.Invitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID, "status": models.InvitationPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Invitation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
