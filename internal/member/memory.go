package member

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemory implements Store with in-process concurrency safety. Used by
// tests and DSN-less development runs; production uses the Postgres store.
type InMemory struct {
	mu      sync.RWMutex
	members map[int64]*Member
	nextID  int64
	now     func() time.Time
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty member store.
func NewInMemory() *InMemory {
	return &InMemory{
		members: make(map[int64]*Member),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Only intended for test use.
func (s *InMemory) SetClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *InMemory) Create(ctx context.Context, m *Member) error {
	email := normalizeEmail(m.Email)
	if email == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if !existing.IsDeleted && existing.Email == email {
			return ErrEmailTaken
		}
	}
	s.nextID++
	now := s.now().UTC()
	m.ID = s.nextID
	m.Email = email
	m.CreateDate = now
	m.ModifyDate = now
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id int64, includeDeleted bool) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok || (m.IsDeleted && !includeDeleted) {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *InMemory) FindByEmail(ctx context.Context, email string, includeDeleted bool) (*Member, error) {
	email = normalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.Email != email {
			continue
		}
		if m.IsDeleted && !includeDeleted {
			continue
		}
		cp := *m
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) ExistsActive(ctx context.Context, email string) (bool, error) {
	m, err := s.FindByEmail(ctx, email, false)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return m.IsActive, nil
}

func (s *InMemory) Update(ctx context.Context, id int64, upd Update) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok || m.IsDeleted {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		m.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		m.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.PasswordHash != nil {
		m.PasswordHash = *upd.PasswordHash
	}
	m.ModifyDate = s.now().UTC()
	cp := *m
	return &cp, nil
}

func (s *InMemory) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok || m.IsDeleted {
		return ErrNotFound
	}
	m.IsActive = false
	m.IsDeleted = true
	m.ModifyDate = s.now().UTC()
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
