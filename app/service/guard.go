package service

import (
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type RoleSet map[entity.RoleName]struct{}

func NewRoleSet(names ...entity.RoleName) RoleSet {
	set := make(RoleSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(name entity.RoleName) bool {
	_, ok := s[name]
	return ok
}

type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// Check fails closed: a nil user or a user without a role never passes.
func (g *Guard) Check(user *entity.User, allowed RoleSet) error {
	if user == nil {
		return ErrForbidden
	}

	role, ok := user.Role.Get()
	if !ok || !allowed.Contains(role.Name) {
		return ErrForbidden
	}

	return nil
}
