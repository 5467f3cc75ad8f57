package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/dto"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
	MaxBirthdayDays  = 366
)

type contactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	FindByID(ctx context.Context, id, ownerID uint64) (*entity.Contact, error)
	FindAnyByID(ctx context.Context, id uint64) (*entity.Contact, error)
	ListByOwner(ctx context.Context, ownerID uint64, offset, limit int) ([]*entity.Contact, error)
	ListAll(ctx context.Context, offset, limit int) ([]*entity.Contact, error)
	Update(ctx context.Context, contact *entity.Contact) error
	Delete(ctx context.Context, id, ownerID uint64) (bool, error)
	UpcomingBirthdaysByOwner(ctx context.Context, ownerID uint64, from time.Time, days int) ([]*entity.Contact, error)
	UpcomingBirthdays(ctx context.Context, from time.Time, days int) ([]*entity.Contact, error)
}

// ContactListCache stores owner listings. Implementations swallow their own
// failures; a miss is always safe.
type ContactListCache interface {
	GetList(ctx context.Context, ownerID uint64, skip, limit int) ([]*entity.Contact, bool)
	SetList(ctx context.Context, ownerID uint64, skip, limit int, contacts []*entity.Contact)
	Invalidate(ctx context.Context, ownerID uint64)
}

type noopContactCache struct{}

func (noopContactCache) GetList(context.Context, uint64, int, int) ([]*entity.Contact, bool) {
	return nil, false
}
func (noopContactCache) SetList(context.Context, uint64, int, int, []*entity.Contact) {}
func (noopContactCache) Invalidate(context.Context, uint64)                          {}

type ContactServiceOption func(*ContactService)

func WithContactCache(cache ContactListCache) ContactServiceOption {
	return func(s *ContactService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func WithContactClock(clock func() time.Time) ContactServiceOption {
	return func(s *ContactService) {
		if clock != nil {
			s.now = clock
		}
	}
}

type ContactService struct {
	contacts contactRepository
	cache    ContactListCache
	now      func() time.Time
}

func NewContactService(contacts contactRepository, opts ...ContactServiceOption) *ContactService {
	svc := &ContactService{
		contacts: contacts,
		cache:    noopContactCache{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *ContactService) Create(ctx context.Context, ownerID uint64, input dto.ContactInput) (*entity.Contact, error) {
	now := time.Now()
	contact := &entity.Contact{
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyContactInput(contact, input)

	if err := s.contacts.Create(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrContactExists
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, ownerID)
	return contact, nil
}

func (s *ContactService) Get(ctx context.Context, ownerID, id uint64) (*entity.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, ownerID uint64, skip, limit int) ([]*entity.Contact, error) {
	skip, limit = normalizePage(skip, limit)

	if cached, ok := s.cache.GetList(ctx, ownerID, skip, limit); ok {
		return cached, nil
	}

	contacts, err := s.contacts.ListByOwner(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, err
	}

	s.cache.SetList(ctx, ownerID, skip, limit, contacts)
	return contacts, nil
}

func (s *ContactService) Update(ctx context.Context, ownerID, id uint64, input dto.ContactInput) (*entity.Contact, error) {
	contact, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	applyContactInput(contact, input)
	if err := s.contacts.Update(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrContactExists
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, ownerID)
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, ownerID, id uint64) error {
	deleted, err := s.contacts.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrContactNotFound
	}

	s.cache.Invalidate(ctx, ownerID)
	return nil
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID uint64, days int) ([]*entity.Contact, error) {
	if days < 0 || days > MaxBirthdayDays {
		return nil, ErrInvalidDays
	}
	return s.contacts.UpcomingBirthdaysByOwner(ctx, ownerID, s.today(), days)
}

func (s *ContactService) ListAll(ctx context.Context, skip, limit int) ([]*entity.Contact, error) {
	skip, limit = normalizePage(skip, limit)
	return s.contacts.ListAll(ctx, skip, limit)
}

func (s *ContactService) GetAny(ctx context.Context, id uint64) (*entity.Contact, error) {
	contact, err := s.contacts.FindAnyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

func (s *ContactService) UpcomingBirthdaysAll(ctx context.Context, days int) ([]*entity.Contact, error) {
	if days < 0 || days > MaxBirthdayDays {
		return nil, ErrInvalidDays
	}
	return s.contacts.UpcomingBirthdays(ctx, s.today(), days)
}

func (s *ContactService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return skip, limit
}

func applyContactInput(contact *entity.Contact, input dto.ContactInput) {
	contact.FirstName = input.FirstName
	contact.LastName = input.LastName
	contact.Email = input.Email
	contact.PhoneNumber = input.PhoneNumber
	contact.Birthday = input.Birthday
	if input.AdditionalInfo != nil {
		contact.AdditionalInfo = sql.NullString{String: *input.AdditionalInfo, Valid: true}
	} else {
		contact.AdditionalInfo = sql.NullString{}
	}
}
