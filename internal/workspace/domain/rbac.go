package domain

import "fmt"

// Role is a member's role within a single workspace.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// Permission is a workspace-scoped capability.
type Permission string

const (
	PermViewWorkspace   Permission = "VIEW_WORKSPACE"
	PermEditWorkspace   Permission = "EDIT_WORKSPACE"
	PermDeleteWorkspace Permission = "DELETE_WORKSPACE"
	PermInviteMembers   Permission = "INVITE_MEMBERS"
	PermManageMembers   Permission = "MANAGE_MEMBERS"
)

// AllPermissions lists every permission in a stable order.
var AllPermissions = []Permission{
	PermViewWorkspace,
	PermEditWorkspace,
	PermDeleteWorkspace,
	PermInviteMembers,
	PermManageMembers,
}

// RolePermissions is the single source of truth for the role-permission
// matrix. The authorization engine seeds its policies from this table.
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermViewWorkspace,
		PermEditWorkspace,
		PermDeleteWorkspace,
		PermInviteMembers,
		PermManageMembers,
	},
	RoleAdmin: {
		PermViewWorkspace,
		PermEditWorkspace,
		PermInviteMembers,
		PermManageMembers,
	},
	RoleMember: {
		PermViewWorkspace,
	},
}

// PermissionsFor returns the permission set for a role. It panics on an
// unknown role: a role outside the matrix means corrupted state, not input.
func PermissionsFor(role Role) []Permission {
	perms, ok := RolePermissions[role]
	if !ok {
		panic(fmt.Sprintf("unknown role %q", role))
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// CanPerform reports whether the permission set contains p.
func CanPerform(perms []Permission, p Permission) bool {
	for _, have := range perms {
		if have == p {
			return true
		}
	}
	return false
}
