package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures writes test documents straight to the collections.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user profile with a random uid.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// CreateCompany inserts a company with a complete address and no optional fields.
func (f *Fixtures) CreateCompany(ctx context.Context, name string) models.Company {
	f.t.Helper()
	c := models.Company{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
		Email:  "info@example.com",
		Phone:  "555-0100",
		Address: models.Address{
			Street:     "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "United States",
		},
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("companies").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create company: %v", err)
	}
	return c
}

// AddMembership inserts a membership joined now.
func (f *Fixtures) AddMembership(ctx context.Context, companyID primitive.ObjectID, userID, role string) models.Membership {
	f.t.Helper()
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create membership: %v", err)
	}
	return m
}

// CreateInvitation inserts an invitation in the given status.
func (f *Fixtures) CreateInvitation(ctx context.Context, companyID primitive.ObjectID, userID, invitedBy, role, status string) models.Invitation {
	f.t.Helper()
	inv := models.Invitation{
		ID:        primitive.NewObjectID(),
		CompanyID: companyID,
		UserID:    userID,
		InvitedBy: invitedBy,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("invitations").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create invitation: %v", err)
	}
	return inv
}
