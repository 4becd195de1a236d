// internal/app/store/credentials/credentialstore.go
package credentialstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/nexa/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound       = errors.New("credential not found")
	ErrDuplicateEmail = errors.New("a credential with this email already exists")
)

// Store persists password credentials for the local identity provider.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("credentials")}
}

// Create inserts c. The email must already be normalized.
func (s *Store) Create(ctx context.Context, c models.Credential) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Credential, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Credential, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// SetDisabled toggles the disabled flag.
func (s *Store) SetDisabled(ctx context.Context, id string, disabled bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"disabled": disabled}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Credential, error) {
	var c models.Credential
	if err := s.c.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Credential{}, ErrNotFound
		}
		return models.Credential{}, err
	}
	return c, nil
}
