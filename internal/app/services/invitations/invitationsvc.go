// Package invitationsvc lets invitees view and answer company invitations.
//
// An invitation moves from pending to accepted or declined exactly once.
// Accepting creates the membership with the invited role.
package invitationsvc

import (
	"context"
	"errors"
	"net/http"
	"time"

	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	companystore "github.com/dalemusser/nexa/internal/app/store/companies"
	invitationstore "github.com/dalemusser/nexa/internal/app/store/invitations"
	membershipstore "github.com/dalemusser/nexa/internal/app/store/memberships"
	userstore "github.com/dalemusser/nexa/internal/app/store/users"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/txn"
	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var errAlreadyResponded = apperr.New(http.StatusBadRequest, apperr.CodeInvitationAlreadyResponded,
	"This invitation has already been responded to")

var errAlreadyMember = apperr.New(http.StatusConflict, apperr.CodeAlreadyMember,
	"You are already a member of this company")

type Service struct {
	invitations *invitationstore.Store
	memberships *membershipstore.Store
	companies   *companystore.Store
	users       *userstore.Store
	notes       *notificationsvc.Service
	tx          *txn.Runner
	log         *zap.Logger
}

func New(db *mongo.Database, tx *txn.Runner, notes *notificationsvc.Service, logger *zap.Logger) *Service {
	return &Service{
		invitations: invitationstore.New(db),
		memberships: membershipstore.New(db),
		companies:   companystore.New(db),
		users:       userstore.New(db),
		notes:       notes,
		tx:          tx,
		log:         logger,
	}
}

// Details is an invitation with the names the invitee needs to decide.
type Details struct {
	models.Invitation
	CompanyName string `json:"companyName"`
	InviterName string `json:"inviterName"`
}

// Get returns the invitation to its invitee. Anyone else gets not found.
func (s *Service) Get(ctx context.Context, id, uid string) (Details, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return Details{}, err
	}
	if inv.UserID != uid {
		return Details{}, apperr.NotFound("Invitation")
	}
	return s.details(ctx, inv), nil
}

// ListPending returns the user's pending invitations, newest first.
func (s *Service) ListPending(ctx context.Context, uid string) ([]Details, error) {
	list, err := s.invitations.ListPendingByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]Details, 0, len(list))
	for _, inv := range list {
		out = append(out, s.details(ctx, inv))
	}
	return out, nil
}

// Accept makes uid a member with the invited role. An existing membership
// for the pair is left in place.
func (s *Service) Accept(ctx context.Context, id, uid string) (models.Invitation, error) {
	return s.respond(ctx, id, uid, models.InvitationAccepted)
}

// Decline closes the invitation without creating a membership.
func (s *Service) Decline(ctx context.Context, id, uid string) (models.Invitation, error) {
	return s.respond(ctx, id, uid, models.InvitationDeclined)
}

func (s *Service) respond(ctx context.Context, id, uid, status string) (models.Invitation, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return models.Invitation{}, err
	}
	if inv.UserID != uid {
		return models.Invitation{}, apperr.Forbidden("You cannot respond to this invitation")
	}
	if inv.Status != models.InvitationPending {
		return models.Invitation{}, errAlreadyResponded
	}

	now := time.Now().UTC()
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		if err := s.invitations.Respond(ctx, inv.ID, status, now); err != nil {
			return err
		}
		if status == models.InvitationAccepted {
			// A failed insert aborts the transaction, so an existing
			// membership is detected before writing.
			role, err := s.memberships.Role(ctx, inv.CompanyID, inv.UserID)
			if err != nil {
				return err
			}
			if role == "" {
				if _, err := s.memberships.Add(ctx, models.Membership{
					UserID:    inv.UserID,
					CompanyID: inv.CompanyID,
					Role:      inv.Role,
					JoinedAt:  now,
				}); err != nil {
					return err
				}
			}
		}
		return s.notes.MarkReadForInvitation(ctx, uid, inv.ID)
	})
	switch {
	case errors.Is(err, invitationstore.ErrAlreadyResponded):
		return models.Invitation{}, errAlreadyResponded
	case errors.Is(err, membershipstore.ErrDuplicateMembership):
		return models.Invitation{}, errAlreadyMember
	case err != nil:
		s.log.Error("invitation response failed",
			zap.String("invitation_id", inv.ID.Hex()), zap.String("status", status), zap.Error(err))
		return models.Invitation{}, err
	}

	inv.Status = status
	inv.RespondedAt = &now
	return inv, nil
}

func (s *Service) load(ctx context.Context, id string) (models.Invitation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Invitation{}, apperr.NotFound("Invitation")
	}
	inv, err := s.invitations.GetByID(ctx, oid)
	if errors.Is(err, invitationstore.ErrNotFound) {
		return models.Invitation{}, apperr.NotFound("Invitation")
	}
	return inv, err
}

// details fills in names. Missing company or inviter leave them empty.
func (s *Service) details(ctx context.Context, inv models.Invitation) Details {
	d := Details{Invitation: inv}
	if c, err := s.companies.GetByID(ctx, inv.CompanyID); err == nil {
		d.CompanyName = c.Name
	}
	if u, err := s.users.GetByID(ctx, inv.InvitedBy); err == nil {
		d.InviterName = u.Name
	}
	return d
}
