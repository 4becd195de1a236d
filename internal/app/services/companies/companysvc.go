// Package companysvc implements company creation, updates and member
// management.
package companysvc

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/nexa/internal/app/policy/companypolicy"
	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	companystore "github.com/dalemusser/nexa/internal/app/store/companies"
	invitationstore "github.com/dalemusser/nexa/internal/app/store/invitations"
	membershipstore "github.com/dalemusser/nexa/internal/app/store/memberships"
	userstore "github.com/dalemusser/nexa/internal/app/store/users"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/inputval"
	"github.com/dalemusser/nexa/internal/app/system/normalize"
	"github.com/dalemusser/nexa/internal/app/system/txn"
	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UnknownUserName stands in for members whose profile is missing.
const UnknownUserName = "Unknown user"

type Service struct {
	companies   *companystore.Store
	memberships *membershipstore.Store
	users       *userstore.Store
	invitations *invitationstore.Store
	notes       *notificationsvc.Service
	tx          *txn.Runner
	log         *zap.Logger
}

func New(db *mongo.Database, tx *txn.Runner, notes *notificationsvc.Service, logger *zap.Logger) *Service {
	return &Service{
		companies:   companystore.New(db),
		memberships: membershipstore.New(db),
		users:       userstore.New(db),
		invitations: invitationstore.New(db),
		notes:       notes,
		tx:          tx,
		log:         logger,
	}
}

// ValidateInput checks the sanitized form of in and returns field errors
// keyed by JSON path, or nil.
func ValidateInput(in Input) map[string]string {
	if res := inputval.Validate(in.Sanitized()); res.HasErrors() {
		return res.Fields(nil)
	}
	return nil
}

// Create stores the company and makes requesterID its owner.
func (s *Service) Create(ctx context.Context, in Input, requesterID string) (models.Company, error) {
	if fields := ValidateInput(in); fields != nil {
		return models.Company{}, apperr.Validation("Validation failed", fields)
	}

	var created models.Company
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.CreateOwned(ctx, in.Company(), requesterID)
		return err
	})
	if err != nil {
		return models.Company{}, err
	}
	return created, nil
}

// CreateOwned writes the company and the owner membership using ctx. Callers
// run it inside a transaction.
func (s *Service) CreateOwned(ctx context.Context, c models.Company, ownerID string) (models.Company, error) {
	created, err := s.companies.Create(ctx, c)
	if err != nil {
		return models.Company{}, err
	}
	if _, err := s.memberships.Add(ctx, models.Membership{
		UserID:    ownerID,
		CompanyID: created.ID,
		Role:      models.RoleOwner,
		JoinedAt:  created.CreatedAt,
	}); err != nil {
		s.log.Error("company created without owner membership",
			zap.String("company_id", created.ID.Hex()), zap.String("user_id", ownerID), zap.Error(err))
		return models.Company{}, err
	}
	return created, nil
}

// Get returns the company. Malformed ids are reported as not found.
func (s *Service) Get(ctx context.Context, id string) (models.Company, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Company{}, apperr.NotFound("Company")
	}
	c, err := s.companies.GetByID(ctx, oid)
	if errors.Is(err, companystore.ErrNotFound) {
		return models.Company{}, apperr.NotFound("Company")
	}
	return c, err
}

// Update applies p for an owner or admin. It returns the stored company and
// the supplied field names.
func (s *Service) Update(ctx context.Context, id string, p Patch, requesterID string) (models.Company, []string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return models.Company{}, nil, err
	}
	if _, err := companypolicy.RequireManager(ctx, s.memberships, c.ID, requesterID,
		"Only owners and admins can update this company"); err != nil {
		return models.Company{}, nil, err
	}
	p = p.sanitized()
	if res := inputval.Validate(p); res.HasErrors() {
		return models.Company{}, nil, apperr.Validation("Validation failed", res.Fields(nil))
	}

	sp, changed := p.storePatch()
	if sp.IsEmpty() {
		return c, nil, nil
	}
	updated, err := s.companies.Update(ctx, c.ID, sp)
	if errors.Is(err, companystore.ErrNotFound) {
		return models.Company{}, nil, apperr.NotFound("Company")
	}
	if err != nil {
		return models.Company{}, nil, err
	}
	return updated, changed, nil
}

// Member is a membership joined to its user profile. JoinedAt is empty for a
// member who has only been invited.
type Member struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

// Members lists the company's members, earliest joined first.
func (s *Service) Members(ctx context.Context, id, requesterID string) ([]Member, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := companypolicy.RequireManager(ctx, s.memberships, c.ID, requesterID,
		"Only owners and admins can view members"); err != nil {
		return nil, err
	}

	ms, err := s.memberships.ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	uids := make([]string, 0, len(ms))
	for _, m := range ms {
		uids = append(uids, m.UserID)
	}
	users, err := s.users.GetByIDs(ctx, uids)
	if err != nil {
		return nil, err
	}

	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		member := Member{
			UserID:   m.UserID,
			Name:     UnknownUserName,
			Role:     m.Role,
			JoinedAt: m.JoinedAt.UTC().Format(time.RFC3339),
		}
		if u, ok := users[m.UserID]; ok {
			member.Name = u.Name
			member.Email = u.Email
		}
		out = append(out, member)
	}
	return out, nil
}

// AddMemberResult describes the invitation sent by AddMember.
type AddMemberResult struct {
	Member
	InvitationID   string `json:"invitationId"`
	InvitationSent bool   `json:"invitationSent"`
}

// AddMember invites the registered user with in.Email to join the company.
// The user becomes a member only after accepting.
func (s *Service) AddMember(ctx context.Context, id, requesterID string, in AddMemberInput) (AddMemberResult, error) {
	in.Email = normalize.Email(in.Email)
	in.Role = normalize.Role(in.Role)
	if res := inputval.Validate(in); res.HasErrors() {
		return AddMemberResult{}, apperr.Validation("Validation failed", res.Fields(nil))
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return AddMemberResult{}, err
	}
	actorRole, err := companypolicy.RequireManager(ctx, s.memberships, c.ID, requesterID,
		"Only owners and admins can add members")
	if err != nil {
		return AddMemberResult{}, err
	}
	if !companypolicy.CanGrant(actorRole, in.Role) {
		return AddMemberResult{}, apperr.Forbidden("Admins cannot grant the owner role")
	}

	invitee, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		return AddMemberResult{}, apperr.New(http.StatusNotFound, apperr.CodeUserNotRegistered,
			"No registered user with this email")
	}
	if err != nil {
		return AddMemberResult{}, err
	}

	role, err := s.memberships.Role(ctx, c.ID, invitee.ID)
	if err != nil {
		return AddMemberResult{}, err
	}
	if role != "" {
		return AddMemberResult{}, apperr.New(http.StatusConflict, apperr.CodeAlreadyMember,
			"This user is already a member of the company")
	}
	pending, err := s.invitations.HasPending(ctx, c.ID, invitee.ID)
	if err != nil {
		return AddMemberResult{}, err
	}
	if pending {
		return AddMemberResult{}, apperr.New(http.StatusConflict, apperr.CodePendingInvitation,
			"This user already has a pending invitation")
	}

	inviterName := ""
	if inviter, err := s.users.GetByID(ctx, requesterID); err == nil {
		inviterName = inviter.Name
	}

	var inv models.Invitation
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invitations.Create(ctx, models.Invitation{
			ID:        primitive.NewObjectID(),
			CompanyID: c.ID,
			UserID:    invitee.ID,
			InvitedBy: requesterID,
			Role:      in.Role,
			Status:    models.InvitationPending,
		})
		if err != nil {
			return err
		}
		_, err = s.notes.Create(ctx, notificationsvc.CreateInput{
			UserID: invitee.ID,
			Type:   models.NotificationCompanyInvitation,
			Data: models.InvitationData{
				InvitationID: inv.ID.Hex(),
				CompanyID:    c.ID.Hex(),
				CompanyName:  c.Name,
				Role:         in.Role,
				InviterName:  inviterName,
			},
		})
		if err != nil {
			s.log.Error("invitation stored without notification",
				zap.String("invitation_id", inv.ID.Hex()), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return AddMemberResult{}, err
	}

	return AddMemberResult{
		Member: Member{
			UserID: invitee.ID,
			Name:   invitee.Name,
			Email:  invitee.Email,
			Role:   in.Role,
		},
		InvitationID:   inv.ID.Hex(),
		InvitationSent: true,
	}, nil
}
