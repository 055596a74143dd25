package user

import "github.com/iota-uz/recruiting-crm/pkg/serrors"

type Role string

const (
	RoleOrgAdmin    Role = "OrgAdmin"
	RoleOrgEmployee Role = "OrgEmployee"
)

var ErrInvalidRole = serrors.NewInvalidState("USER_INVALID_ROLE", "invalid role", "Errors.InvalidRole")

func NewRole(r string) (Role, error) {
	role := Role(r)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOrgAdmin, RoleOrgEmployee:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
