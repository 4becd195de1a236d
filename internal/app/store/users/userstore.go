// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/nexa/internal/app/system/normalize"
	"github.com/dalemusser/nexa/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when another profile already uses the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a profile. u.ID must be the identity provider uid.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		return models.User{}, errors.New("user id is required")
	}
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Phone != nil {
		p := normalize.Phone(*u.Phone)
		if p == "" {
			u.Phone = nil
		} else {
			u.Phone = &p
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail matches the normalized (trimmed, lowercased) email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByIDs loads several users at once. Missing ids are absent from the map.
func (s *Store) GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Patch lists the profile fields to change. Nil fields are left alone; an
// empty Phone removes the phone.
type Patch struct {
	Name  *string
	Email *string
	Phone *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}

// Update applies p and returns the stored result. An empty patch performs no
// write.
func (s *Store) Update(ctx context.Context, id string, p Patch) (models.User, error) {
	if p.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	set := bson.M{}
	unset := bson.M{}
	if p.Name != nil {
		name := normalize.Name(*p.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if p.Email != nil {
		set["email"] = normalize.Email(*p.Email)
	}
	if p.Phone != nil {
		if phone := normalize.Phone(*p.Phone); phone != "" {
			set["phone"] = phone
		} else {
			unset["phone"] = ""
		}
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}
