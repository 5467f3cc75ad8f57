package entity

import (
	"database/sql"
	"time"
)

type RoleName string

const (
	RoleUser  RoleName = "user"
	RoleAdmin RoleName = "admin"
)

func (n RoleName) Valid() bool {
	return n == RoleUser || n == RoleAdmin
}

// Role is seed data; request flows only ever read it.
type Role struct {
	ID   uint64
	Name RoleName
}

// RoleAssignment is either an assigned Role or unassigned. The zero value is
// unassigned, so a user loaded without a role fails every role check.
type RoleAssignment struct {
	role     Role
	assigned bool
}

func AssignedRole(role Role) RoleAssignment {
	return RoleAssignment{role: role, assigned: true}
}

func UnassignedRole() RoleAssignment {
	return RoleAssignment{}
}

func (a RoleAssignment) Get() (Role, bool) {
	return a.role, a.assigned
}

type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	IsActive     bool
	Avatar       sql.NullString
	Role         RoleAssignment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
