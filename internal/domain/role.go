package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Privileged reports whether r may use the admin surface.
func (r Role) Privileged() bool { return r == RoleAdmin || r == RoleSuperAdmin }

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

var (
	ErrCreateOnlyUsers  = errors.New("Admins can only create users with USER role")
	ErrCreateNotAllowed = errors.New("Only admins can create users")
	ErrEditSuperAdmin   = errors.New("Only superadmins can modify a superadmin")
	ErrChangeOwnRole    = errors.New("You cannot change your own role")
	ErrAssignSuperAdmin = errors.New("Admins cannot assign the SUPERADMIN role")
	ErrChangeNotAllowed = errors.New("You are not allowed to change roles")
)

// CanCreateUser decides whether actor may create a user with the requested
// role. An empty requested role means USER.
func CanCreateUser(actor, requested Role) error {
	if requested == "" {
		requested = RoleUser
	}
	switch actor {
	case RoleSuperAdmin:
		return nil
	case RoleAdmin:
		if requested != RoleUser {
			return ErrCreateOnlyUsers
		}
		return nil
	}
	return ErrCreateNotAllowed
}

// CanEditUser guards every edit of target, role change or not.
func CanEditUser(actor, target Role) error {
	if target == RoleSuperAdmin && actor != RoleSuperAdmin {
		return ErrEditSuperAdmin
	}
	return nil
}

// CanChangeRole decides a role assignment. self is true when the actor edits
// their own account; an ADMIN is refused regardless of the requested value.
func CanChangeRole(actor Role, self bool, requested Role) error {
	switch actor {
	case RoleSuperAdmin:
		return nil
	case RoleAdmin:
		if self {
			return ErrChangeOwnRole
		}
		if requested == RoleSuperAdmin {
			return ErrAssignSuperAdmin
		}
		return nil
	}
	return ErrChangeNotAllowed
}
