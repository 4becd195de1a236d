// internal/app/store/companies/companystore.go
package companystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/nexa/internal/app/system/normalize"
	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("company not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("companies")}
}

// Create assigns an ID and creation time. Empty optional fields are stored as
// null.
func (s *Store) Create(ctx context.Context, c models.Company) (models.Company, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Name = normalize.Name(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.Email = normalize.Email(c.Email)
	c.Website = nonEmpty(c.Website)
	c.Description = nonEmpty(c.Description)
	c.Industry = nonEmpty(c.Industry)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Company{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	var c models.Company
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Company{}, ErrNotFound
		}
		return models.Company{}, err
	}
	return c, nil
}

// GetByIDs loads several companies. Missing ids are absent from the map.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Company, error) {
	out := make(map[primitive.ObjectID]models.Company, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Company
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

// Patch holds the fields to change. Nil means unchanged. Address fields merge
// into the stored address. An empty Website, Description or Industry clears
// the field to null.
type Patch struct {
	Name  *string
	Email *string
	Phone *string

	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string

	Website     *string
	Description *string
	Industry    *string
}

func (p Patch) IsEmpty() bool {
	return len(p.set()) == 0
}

func (p Patch) set() bson.M {
	set := bson.M{}
	if p.Name != nil {
		name := normalize.Name(*p.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if p.Email != nil {
		set["email"] = normalize.Email(*p.Email)
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}

	addr := map[string]*string{
		"address.street":      p.Street,
		"address.city":        p.City,
		"address.state":       p.State,
		"address.postal_code": p.PostalCode,
		"address.country":     p.Country,
	}
	for k, v := range addr {
		if v != nil {
			set[k] = *v
		}
	}

	opt := map[string]*string{
		"website":     p.Website,
		"description": p.Description,
		"industry":    p.Industry,
	}
	for k, v := range opt {
		if v == nil {
			continue
		}
		if *v == "" {
			set[k] = nil
		} else {
			set[k] = *v
		}
	}
	return set
}

// Update applies p and returns the stored company. An empty patch performs no
// write.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Company, error) {
	set := p.set()
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	var c models.Company
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Company{}, ErrNotFound
		}
		return models.Company{}, err
	}
	return c, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
