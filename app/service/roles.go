package service

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type roleCatalog interface {
	FindByName(ctx context.Context, name entity.RoleName) (*entity.Role, error)
	List(ctx context.Context) ([]*entity.Role, error)
}

type roleAssignee interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateRole(ctx context.Context, id uint64, roleID uint64) error
}

// RoleService backs the operator commands. Request handlers never change roles.
type RoleService struct {
	users roleAssignee
	roles roleCatalog
}

func NewRoleService(users roleAssignee, roles roleCatalog) *RoleService {
	return &RoleService{users: users, roles: roles}
}

func (s *RoleService) List(ctx context.Context) ([]*entity.Role, error) {
	return s.roles.List(ctx)
}

// EnsureSeeded reports ErrRoleNotSeeded when any known role is missing.
func (s *RoleService) EnsureSeeded(ctx context.Context) error {
	for _, name := range []entity.RoleName{entity.RoleUser, entity.RoleAdmin} {
		role, err := s.roles.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if role == nil {
			return fmt.Errorf("%w: %s", ErrRoleNotSeeded, name)
		}
	}
	return nil
}

func (s *RoleService) Assign(ctx context.Context, email string, name entity.RoleName) (*entity.User, error) {
	if !name.Valid() {
		return nil, ErrUnknownRole
	}

	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoleNotSeeded, name)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.users.UpdateRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}
	user.Role = entity.AssignedRole(*role)
	return user, nil
}
