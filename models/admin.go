package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
)

// Role is an administrator privilege tier. Every super_admin capability is a
// strict superset of admin.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a recognized portal role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Admin represents one administrator account
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Disabled     bool               `bson:"disabled" json:"disabled"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	CreatedBy    string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// Principal is a signed-in administrator with its role resolved fresh from
// the admins collection. It is never persisted; the record in the database is
// the source of truth on every request.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsSuperAdmin reports whether the principal holds the top tier.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// Allowed reports whether the principal's role is in the allowed set.
func (p Principal) Allowed(allowed ...Role) bool {
	for _, r := range allowed {
		if p.Role == r {
			return true
		}
	}
	return false
}

// CheckAdminRemoval decides whether actor may disable or delete target.
// enabledSuperAdmins is the current count of non-disabled super_admin
// accounts. Removing the last enabled super_admin is rejected, as is acting
// on one's own account.
func CheckAdminRemoval(actor Principal, target Admin, enabledSuperAdmins int64) error {
	if actor.Email == target.Email {
		return apperr.InvalidArgument("cannot modify your own admin account")
	}
	if target.Role == RoleSuperAdmin && !target.Disabled && enabledSuperAdmins <= 1 {
		return apperr.FailedPrecondition("at least one active super admin must remain")
	}
	return nil
}
