// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/nexa/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("membership not found")
	// ErrDuplicateMembership is returned when the user already belongs to the company.
	ErrDuplicateMembership = errors.New("user is already a member of this company")

	errBadRole = errors.New("role must be one of owner, admin, member, viewer")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

// Add inserts a membership. The unique (user_id, company_id) index turns a
// second insert for the same pair into ErrDuplicateMembership.
func (s *Store) Add(ctx context.Context, m models.Membership) (models.Membership, error) {
	if !models.IsCompanyRole(m.Role) {
		return models.Membership{}, errBadRole
	}
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

func (s *Store) Get(ctx context.Context, companyID primitive.ObjectID, userID string) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"company_id": companyID, "user_id": userID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Membership{}, ErrNotFound
		}
		return models.Membership{}, err
	}
	return m, nil
}

// Role returns the user's role in the company, or "" when not a member.
func (s *Store) Role(ctx context.Context, companyID primitive.ObjectID, userID string) (string, error) {
	m, err := s.Get(ctx, companyID, userID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

// ListByCompany returns members of a company, earliest joined first.
func (s *Store) ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Membership, error) {
	return s.list(ctx, bson.M{"company_id": companyID})
}

// ListByUser returns the user's memberships, earliest joined first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Membership, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Membership{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
