// Package companypolicy provides authorization policies for company management.
//
// Authorization rules:
//   - Owners and admins can update a company, list its members and invite members
//   - Members and viewers can do none of these
//   - Owners can grant any role; admins can grant every role except owner
//   - Users who are not members have no role and are treated like viewers
package companypolicy

import (
	"context"

	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleLookup returns a user's role in a company, or "" when not a member.
type RoleLookup interface {
	Role(ctx context.Context, companyID primitive.ObjectID, userID string) (string, error)
}

// CanManage reports whether role may update the company and manage its members.
func CanManage(role string) bool {
	return role == models.RoleOwner || role == models.RoleAdmin
}

// CanGrant reports whether actorRole may invite someone with targetRole.
func CanGrant(actorRole, targetRole string) bool {
	switch actorRole {
	case models.RoleOwner:
		return models.IsCompanyRole(targetRole)
	case models.RoleAdmin:
		return targetRole != models.RoleOwner && models.IsCompanyRole(targetRole)
	default:
		return false
	}
}

// RequireManager loads the user's role and returns it when it may manage the
// company. Other roles get an apperr Forbidden carrying message.
func RequireManager(ctx context.Context, roles RoleLookup, companyID primitive.ObjectID, userID, message string) (string, error) {
	role, err := roles.Role(ctx, companyID, userID)
	if err != nil {
		return "", err
	}
	if !CanManage(role) {
		return role, apperr.Forbidden(message)
	}
	return role, nil
}
