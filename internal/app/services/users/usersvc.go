// Package usersvc serves the signed-in user's profile and company list.
package usersvc

import (
	"context"
	"errors"
	"time"

	companystore "github.com/dalemusser/nexa/internal/app/store/companies"
	membershipstore "github.com/dalemusser/nexa/internal/app/store/memberships"
	userstore "github.com/dalemusser/nexa/internal/app/store/users"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/htmlsanitize"
	"github.com/dalemusser/nexa/internal/app/system/inputval"
	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Service struct {
	users       *userstore.Store
	companies   *companystore.Store
	memberships *membershipstore.Store
}

func New(db *mongo.Database) *Service {
	return &Service{
		users:       userstore.New(db),
		companies:   companystore.New(db),
		memberships: membershipstore.New(db),
	}
}

func (s *Service) Get(ctx context.Context, uid string) (models.User, error) {
	u, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		return models.User{}, apperr.NotFound("User")
	}
	return u, err
}

// UpdateInput is a partial profile update. Absent fields are unchanged; a
// null or empty phone removes it.
type UpdateInput struct {
	Name  inputval.OptString `json:"name" validate:"omitnil,min=2,max=100" label:"Name"`
	Email inputval.OptString `json:"email" validate:"omitnil,email,max=254" label:"Email"`
	Phone inputval.OptString `json:"phone" validate:"omitnil,max=30" label:"Phone"`
}

// Update validates and applies in. It returns the stored profile and the
// names of the fields that were supplied.
func (s *Service) Update(ctx context.Context, uid string, in UpdateInput) (models.User, []string, error) {
	if in.Name.Present() {
		in.Name.Value = htmlsanitize.PlainText(in.Name.Value)
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.User{}, nil, apperr.Validation("Validation failed", res.Fields(nil))
	}

	var p userstore.Patch
	var changed []string
	if v := in.Name.Ptr(); v != nil {
		p.Name = v
		changed = append(changed, "name")
	}
	if v := in.Email.Ptr(); v != nil {
		p.Email = v
		changed = append(changed, "email")
	}
	if in.Phone.Set {
		phone := in.Phone.Value
		p.Phone = &phone
		changed = append(changed, "phone")
	}

	u, err := s.users.Update(ctx, uid, p)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		return models.User{}, nil, apperr.NotFound("User")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return models.User{}, nil, apperr.FieldError("email", "This email is already in use.")
	case err != nil:
		return models.User{}, nil, err
	}
	return u, changed, nil
}

// CompanyMembership is one of the user's companies with their role in it.
type CompanyMembership struct {
	CompanyID   string         `json:"companyId"`
	CompanyName string         `json:"companyName"`
	Role        string         `json:"role"`
	JoinedAt    time.Time      `json:"joinedAt"`
	Company     models.Company `json:"company"`
}

// Companies lists the companies the user belongs to, earliest joined first.
// Memberships whose company no longer exists are skipped.
func (s *Service) Companies(ctx context.Context, uid string) ([]CompanyMembership, error) {
	ms, err := s.memberships.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.CompanyID)
	}
	byID, err := s.companies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]CompanyMembership, 0, len(ms))
	for _, m := range ms {
		c, ok := byID[m.CompanyID]
		if !ok {
			continue
		}
		out = append(out, CompanyMembership{
			CompanyID:   c.ID.Hex(),
			CompanyName: c.Name,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
			Company:     c,
		})
	}
	return out, nil
}
