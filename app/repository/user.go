package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

const userSelect = `
		SELECT u.id, u.email, u.hashed_password, u.is_active, u.avatar, u.created_at, u.updated_at,
		       r.id, r.name
		FROM users u LEFT JOIN roles r ON r.id = u.role_id`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (email, hashed_password, is_active, avatar, role_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.Avatar,
		roleID(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = uint64(id)
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE u.email = ?`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE u.id = ?`, id)
}

func (r *UserRepository) Activate(ctx context.Context, id uint64) error {
	query := `UPDATE users SET is_active = 1, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uint64, url string) error {
	query := `UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, url, time.Now(), id)
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint64, roleID uint64) error {
	query := `UPDATE users SET role_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, roleID, time.Now(), id)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		user     entity.User
		roleID   sql.NullInt64
		roleName sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.Avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
		&roleID,
		&roleName,
	)
	if err != nil {
		return nil, err
	}

	if roleID.Valid && roleName.Valid {
		user.Role = entity.AssignedRole(entity.Role{
			ID:   uint64(roleID.Int64),
			Name: entity.RoleName(roleName.String),
		})
	}
	return &user, nil
}

func roleID(assignment entity.RoleAssignment) sql.NullInt64 {
	role, ok := assignment.Get()
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(role.ID), Valid: true}
}

type RoleRepository struct {
	db DBTX
}

func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByName(ctx context.Context, name entity.RoleName) (*entity.Role, error) {
	query := `SELECT id, name FROM roles WHERE name = ?`
	role := &entity.Role{}
	err := r.db.QueryRowContext(ctx, query, string(name)).Scan(&role.ID, &role.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*entity.Role
	for rows.Next() {
		role := &entity.Role{}
		if err = rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
