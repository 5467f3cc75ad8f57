package service_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/app/worker"
)

var errStoreDown = errors.New("store unavailable")

type memoryUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[string]*entity.User
	err    error

	// raceOnCreate simulates a concurrent insert winning between lookup and insert.
	raceOnCreate bool
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*entity.User)}
}

func (s *memoryUserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if _, exists := s.users[user.Email]; exists || s.raceOnCreate {
		return repository.ErrDuplicateKey
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.Email] = &stored
	return nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *memoryUserStore) Activate(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == id {
			user.IsActive = true
		}
	}
	return nil
}

func (s *memoryUserStore) UpdateAvatar(_ context.Context, id uint64, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == id {
			user.Avatar.String = url
			user.Avatar.Valid = true
		}
	}
	return nil
}

func (s *memoryUserStore) UpdateRole(_ context.Context, id uint64, roleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	for _, user := range s.users {
		if user.ID == id {
			user.Role = entity.AssignedRole(entity.Role{ID: roleID})
		}
	}
	return nil
}

func (s *memoryUserStore) put(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.Email] = &stored
}

func (s *memoryUserStore) get(email string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users[email]
}

type memoryRoleStore struct {
	roles map[entity.RoleName]*entity.Role
}

func seededRoles() *memoryRoleStore {
	return &memoryRoleStore{roles: map[entity.RoleName]*entity.Role{
		entity.RoleUser:  {ID: 1, Name: entity.RoleUser},
		entity.RoleAdmin: {ID: 2, Name: entity.RoleAdmin},
	}}
}

func (s *memoryRoleStore) FindByName(_ context.Context, name entity.RoleName) (*entity.Role, error) {
	return s.roles[name], nil
}

func (s *memoryRoleStore) List(_ context.Context) ([]*entity.Role, error) {
	roles := make([]*entity.Role, 0, len(s.roles))
	for _, role := range s.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

type sentMail struct {
	Email string
	Token string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendVerification(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentMail{Email: email, Token: token})
	return m.err
}

func (m *recordingMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// inlineDispatcher runs tasks synchronously so tests can observe their effects.
type inlineDispatcher struct {
	submitted int
	err       error
}

func (d *inlineDispatcher) Submit(task worker.Task) error {
	if d.err != nil {
		return d.err
	}
	d.submitted++
	task(context.Background())
	return nil
}

type memoryContactStore struct {
	mu       sync.Mutex
	nextID   uint64
	contacts map[uint64]*entity.Contact
	lists    int
	updates  int

	lastBirthdayFrom time.Time
	lastBirthdayDays int
}

func newMemoryContactStore() *memoryContactStore {
	return &memoryContactStore{contacts: make(map[uint64]*entity.Contact)}
}

func (s *memoryContactStore) Create(_ context.Context, contact *entity.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.contacts {
		if existing.Email == contact.Email {
			return repository.ErrDuplicateKey
		}
	}
	s.nextID++
	contact.ID = s.nextID
	stored := *contact
	s.contacts[contact.ID] = &stored
	return nil
}

func (s *memoryContactStore) FindByID(_ context.Context, id, ownerID uint64) (*entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	if !ok || contact.OwnerID != ownerID {
		return nil, nil
	}
	copied := *contact
	return &copied, nil
}

func (s *memoryContactStore) FindAnyByID(_ context.Context, id uint64) (*entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	if !ok {
		return nil, nil
	}
	copied := *contact
	return &copied, nil
}

func (s *memoryContactStore) ListByOwner(_ context.Context, ownerID uint64, offset, limit int) ([]*entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists++
	return s.page(func(c *entity.Contact) bool { return c.OwnerID == ownerID }, offset, limit), nil
}

func (s *memoryContactStore) ListAll(_ context.Context, offset, limit int) ([]*entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page(func(*entity.Contact) bool { return true }, offset, limit), nil
}

// Update mirrors MySQL: a statement matching no row is not an error.
func (s *memoryContactStore) Update(_ context.Context, contact *entity.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates++
	existing, ok := s.contacts[contact.ID]
	if !ok || existing.OwnerID != contact.OwnerID {
		return nil
	}
	for id, other := range s.contacts {
		if id != contact.ID && other.Email == contact.Email {
			return repository.ErrDuplicateKey
		}
	}
	stored := *contact
	s.contacts[contact.ID] = &stored
	return nil
}

func (s *memoryContactStore) Delete(_ context.Context, id, ownerID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contacts[id]
	if !ok || existing.OwnerID != ownerID {
		return false, nil
	}
	delete(s.contacts, id)
	return true, nil
}

func (s *memoryContactStore) UpcomingBirthdaysByOwner(_ context.Context, ownerID uint64, from time.Time, days int) ([]*entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastBirthdayFrom, s.lastBirthdayDays = from, days
	return s.page(func(c *entity.Contact) bool { return c.OwnerID == ownerID }, 0, len(s.contacts)), nil
}

func (s *memoryContactStore) UpcomingBirthdays(_ context.Context, from time.Time, days int) ([]*entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastBirthdayFrom, s.lastBirthdayDays = from, days
	return s.page(func(*entity.Contact) bool { return true }, 0, len(s.contacts)), nil
}

func (s *memoryContactStore) page(keep func(*entity.Contact) bool, offset, limit int) []*entity.Contact {
	matched := make([]*entity.Contact, 0)
	for _, contact := range s.contacts {
		if keep(contact) {
			copied := *contact
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if offset >= len(matched) {
		return []*entity.Contact{}
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end]
}

type listKey struct {
	ownerID uint64
	skip    int
	limit   int
}

type countingCache struct {
	entries     map[listKey][]*entity.Contact
	invalidated []uint64
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[listKey][]*entity.Contact)}
}

func (c *countingCache) GetList(_ context.Context, ownerID uint64, skip, limit int) ([]*entity.Contact, bool) {
	contacts, ok := c.entries[listKey{ownerID, skip, limit}]
	return contacts, ok
}

func (c *countingCache) SetList(_ context.Context, ownerID uint64, skip, limit int, contacts []*entity.Contact) {
	c.entries[listKey{ownerID, skip, limit}] = contacts
}

func (c *countingCache) Invalidate(_ context.Context, ownerID uint64) {
	c.invalidated = append(c.invalidated, ownerID)
	for key := range c.entries {
		if key.ownerID == ownerID {
			delete(c.entries, key)
		}
	}
}

type recordingUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (u *recordingUploader) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	u.key, u.contentType, u.body = key, contentType, data
	return "https://cdn.example.com/" + key, nil
}
