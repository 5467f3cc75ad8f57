package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
)

func TestRoleService_Assign(t *testing.T) {
	users := newMemoryUserStore()
	users.put(&entity.User{Email: "ops@x.com"})
	svc := service.NewRoleService(users, seededRoles())

	user, err := svc.Assign(context.Background(), "ops@x.com", entity.RoleAdmin)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	role, ok := user.Role.Get()
	if !ok || role.Name != entity.RoleAdmin {
		t.Fatalf("expected admin role on returned user, got %+v", user.Role)
	}

	stored, _ := users.get("ops@x.com").Role.Get()
	if stored.ID != 2 {
		t.Fatalf("expected stored role id 2, got %d", stored.ID)
	}
}

func TestRoleService_Assign_Rejections(t *testing.T) {
	users := newMemoryUserStore()
	users.put(&entity.User{Email: "ops@x.com"})

	svc := service.NewRoleService(users, seededRoles())
	if _, err := svc.Assign(context.Background(), "ops@x.com", "root"); !errors.Is(err, service.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := svc.Assign(context.Background(), "nobody@x.com", entity.RoleUser); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	empty := service.NewRoleService(users, &memoryRoleStore{roles: map[entity.RoleName]*entity.Role{}})
	if _, err := empty.Assign(context.Background(), "ops@x.com", entity.RoleUser); !errors.Is(err, service.ErrRoleNotSeeded) {
		t.Fatalf("expected ErrRoleNotSeeded, got %v", err)
	}
}

func TestRoleService_EnsureSeeded(t *testing.T) {
	if err := service.NewRoleService(newMemoryUserStore(), seededRoles()).EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("expected seeded roles to pass, got %v", err)
	}

	partial := &memoryRoleStore{roles: map[entity.RoleName]*entity.Role{
		entity.RoleUser: {ID: 1, Name: entity.RoleUser},
	}}
	err := service.NewRoleService(newMemoryUserStore(), partial).EnsureSeeded(context.Background())
	if !errors.Is(err, service.ErrRoleNotSeeded) {
		t.Fatalf("expected ErrRoleNotSeeded, got %v", err)
	}
}

func TestRoleService_ListIsOrdered(t *testing.T) {
	roles, err := service.NewRoleService(newMemoryUserStore(), seededRoles()).List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(roles) != 2 || roles[0].Name != entity.RoleUser || roles[1].Name != entity.RoleAdmin {
		t.Fatalf("unexpected roles: %+v", roles)
	}
}
