package service

import (
	"github.com/brunodmn/escola-admin-api/internal/models"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
)

// AccessPolicy concentrates the role-scoped authorization rules in one
// place: who may mutate records, who may touch which user account, and
// which role value survives a self-edit. Read scoping itself (which rows a
// professor sees) lives in the repository queries; this type decides which
// scope applies.
type AccessPolicy struct{}

// NewAccessPolicy returns the policy.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// CanManageRecords reports whether the caller may create, update or delete
// classes and students. Admin-only.
func (AccessPolicy) CanManageRecords(caller *models.JWTClaims) bool {
	return caller != nil && caller.Role == models.RoleAdmin
}

// CanListUsers reports whether the caller may list every account.
func (AccessPolicy) CanListUsers(caller *models.JWTClaims) bool {
	return caller != nil && caller.Role == models.RoleAdmin
}

// CanUpdateUser allows admins to edit anyone and every user to edit their
// own profile.
func (AccessPolicy) CanUpdateUser(caller *models.JWTClaims, targetID int64) bool {
	if caller == nil {
		return false
	}
	if caller.Role == models.RoleAdmin {
		return true
	}
	return caller.UserID == targetID
}

// CheckDeleteUser validates a user deletion: self-deletion is rejected
// before anything else, then the admin-only rule applies.
func (AccessPolicy) CheckDeleteUser(caller *models.JWTClaims, targetID int64) error {
	if caller == nil {
		return appErrors.ErrUnauthorized
	}
	if caller.UserID == targetID {
		return appErrors.Clone(appErrors.ErrValidation, "Você não pode deletar sua própria conta.")
	}
	if caller.Role != models.RoleAdmin {
		return appErrors.ErrForbidden
	}
	return nil
}

// EffectiveRole returns the role to persist on a user update. Admins may
// set any role; a non-admin editing their own profile keeps their stored
// role no matter what the request carries.
func (AccessPolicy) EffectiveRole(caller *models.JWTClaims, requested, current models.Role) models.Role {
	if caller != nil && caller.Role == models.RoleAdmin {
		return requested
	}
	return current
}
