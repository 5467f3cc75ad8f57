package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

const contactColumns = `id, owner_id, first_name, last_name, email, phone_number, birthday, additional_info, created_at, updated_at`

const birthdayKeyLayout = "01-02"

type ContactRepository struct {
	db DBTX
}

func NewContactRepository(db DBTX) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (owner_id, first_name, last_name, email, phone_number, birthday, additional_info, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		contact.OwnerID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
		contact.AdditionalInfo,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	contact.ID = uint64(id)
	return nil
}

// FindByID only returns the contact when it belongs to ownerID.
func (r *ContactRepository) FindByID(ctx context.Context, id, ownerID uint64) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ? AND owner_id = ?`
	return r.findOne(ctx, query, id, ownerID)
}

func (r *ContactRepository) FindAnyByID(ctx context.Context, id uint64) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return r.findMany(ctx, query, ownerID, limit, offset)
}

func (r *ContactRepository) ListAll(ctx context.Context, offset, limit int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY id LIMIT ? OFFSET ?`
	return r.findMany(ctx, query, limit, offset)
}

// Update writes the mutable fields of a contact owned by contact.OwnerID.
// MySQL counts changed rows, not matched ones, so the row count is not a
// presence check; callers load the contact first.
func (r *ContactRepository) Update(ctx context.Context, contact *entity.Contact) error {
	query := `
		UPDATE contacts SET
			first_name = ?,
			last_name = ?,
			email = ?,
			phone_number = ?,
			birthday = ?,
			additional_info = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?
	`
	contact.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
		contact.AdditionalInfo,
		contact.UpdatedAt,
		contact.ID,
		contact.OwnerID,
	)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id, ownerID uint64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpcomingBirthdaysByOwner returns the owner's contacts whose birthday falls
// within [from, from+days], ignoring the birth year.
func (r *ContactRepository) UpcomingBirthdaysByOwner(ctx context.Context, ownerID uint64, from time.Time, days int) ([]*entity.Contact, error) {
	where, args := birthdayCondition(from, days)
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = ? AND ` + where + ` ORDER BY id`
	return r.findMany(ctx, query, append([]any{ownerID}, args...)...)
}

func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, from time.Time, days int) ([]*entity.Contact, error) {
	where, args := birthdayCondition(from, days)
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + where + ` ORDER BY id`
	return r.findMany(ctx, query, args...)
}

// birthdayCondition compares month-day keys so that windows crossing
// December 31st wrap into January.
func birthdayCondition(from time.Time, days int) (string, []any) {
	if days >= 365 {
		return `1 = 1`, nil
	}

	start := from.Format(birthdayKeyLayout)
	end := from.AddDate(0, 0, days).Format(birthdayKeyLayout)
	if start <= end {
		return `DATE_FORMAT(birthday, '%m-%d') BETWEEN ? AND ?`, []any{start, end}
	}
	return `(DATE_FORMAT(birthday, '%m-%d') >= ? OR DATE_FORMAT(birthday, '%m-%d') <= ?)`, []any{start, end}
}

func (r *ContactRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Contact, error) {
	contact, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *ContactRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]*entity.Contact, 0)
	for rows.Next() {
		contact, scanErr := scanContact(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func scanContact(row rowScanner) (*entity.Contact, error) {
	contact := &entity.Contact{}
	err := row.Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.PhoneNumber,
		&contact.Birthday,
		&contact.AdditionalInfo,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return contact, nil
}
